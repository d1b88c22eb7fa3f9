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

// LotService defines the behavior needed by LotHandler.
type LotService interface {
	CreateLot(ctx context.Context, input usecase.CreateLotInput) (*domain.DepositLot, error)
	MatureLot(ctx context.Context, lotID string) (*usecase.MatureResult, error)
	BreakLot(ctx context.Context, lotID string) (*usecase.BreakResult, error)
	GetLot(ctx context.Context, lotID string) (*domain.DepositLot, error)
	ListLots(ctx context.Context, memberID string) ([]*domain.DepositLot, error)
}

// LotHandler handles term deposit HTTP requests.
type LotHandler struct {
	lotUC LotService
}

// NewLotHandler creates a new LotHandler.
func NewLotHandler(lotUC LotService) *LotHandler {
	return &LotHandler{lotUC: lotUC}
}

// Create opens a new term deposit lot for a member.
func (h *LotHandler) Create(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	var req dto.CreateLotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(memberID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid principal", err.Error())
		return
	}

	lot, err := h.lotUC.CreateLot(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create lot", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.LotFromDomain(lot))
}

// List lists a member's lots, newest first.
func (h *LotHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	lots, err := h.lotUC.ListLots(r.Context(), memberID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list lots", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LotsFromDomain(lots))
}

// Get retrieves a lot by ID.
func (h *LotHandler) Get(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")

	lot, err := h.lotUC.GetLot(r.Context(), lotID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get lot", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LotFromDomain(lot))
}

// Mature pays out a lot that has reached its maturity date.
func (h *LotHandler) Mature(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")

	result, err := h.lotUC.MatureLot(r.Context(), lotID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to mature lot", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MatureLotFromUseCase(result))
}

// Break closes a lot early, applying the early-break penalty.
func (h *LotHandler) Break(w http.ResponseWriter, r *http.Request) {
	lotID := chi.URLParam(r, "lotID")

	result, err := h.lotUC.BreakLot(r.Context(), lotID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to break lot", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BreakLotFromUseCase(result))
}
