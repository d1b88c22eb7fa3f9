package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/melodykoh/the-mini-mint/internal/adapter/http/dto"
	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// TransferService defines the money-moving behavior needed by LedgerHandler.
type TransferService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (*domain.Entry, error)
	Withdraw(ctx context.Context, input usecase.WithdrawInput) (*domain.Entry, error)
	Transfer(ctx context.Context, input usecase.TransferInput) ([]*domain.Entry, error)
	Spend(ctx context.Context, input usecase.SpendInput) ([]*domain.Entry, error)
}

// BalanceService defines the read-side behavior needed by LedgerHandler.
type BalanceService interface {
	GetBalances(ctx context.Context, memberID string) (*usecase.Balances, error)
	GetPortfolioSummary(ctx context.Context, memberID string) (*usecase.PortfolioSummary, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error)
}

// LedgerHandler handles money movement and balance reads for a member.
type LedgerHandler struct {
	transferUC TransferService
	balanceUC  BalanceService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(transferUC TransferService, balanceUC BalanceService) *LedgerHandler {
	return &LedgerHandler{transferUC: transferUC, balanceUC: balanceUC}
}

// Deposit adds cash to a member.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(memberID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	entry, err := h.transferUC.Deposit(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Withdraw removes cash from a member.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(memberID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	entry, err := h.transferUC.Withdraw(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Transfer moves money between a member's buckets.
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(memberID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	entries, err := h.transferUC.Transfer(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntriesFromDomain(entries))
}

// Spend records money leaving the household.
func (h *LedgerHandler) Spend(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	var req dto.SpendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(memberID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	entries, err := h.transferUC.Spend(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to spend", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntriesFromDomain(entries))
}

// GetBalances returns every bucket balance for a member.
func (h *LedgerHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	balances, err := h.balanceUC.GetBalances(r.Context(), memberID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromUseCase(balances))
}

// GetPortfolio returns a member's full holdings picture.
func (h *LedgerHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	summary, err := h.balanceUC.GetPortfolioSummary(r.Context(), memberID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get portfolio", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PortfolioFromUseCase(summary))
}

// ListEntries lists a member's entries, newest first.
func (h *LedgerHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.balanceUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		MemberID: memberID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}
