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

// StockService defines the behavior needed by StockHandler.
type StockService interface {
	Buy(ctx context.Context, input usecase.BuyInput) (*usecase.TradeResult, error)
	Sell(ctx context.Context, input usecase.SellInput) (*usecase.TradeResult, error)
	ListPositions(ctx context.Context, memberID string) ([]*domain.StockPosition, error)
}

// StockHandler handles stock trading HTTP requests.
type StockHandler struct {
	stockUC StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockUC StockService) *StockHandler {
	return &StockHandler{stockUC: stockUC}
}

// Buy purchases a dollar amount of a symbol at its latest price.
func (h *StockHandler) Buy(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	var req dto.BuyStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(memberID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	result, err := h.stockUC.Buy(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to buy", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TradeFromUseCase(result))
}

// Sell liquidates part or all of a position at the latest price.
func (h *StockHandler) Sell(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	var req dto.SellStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(memberID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	result, err := h.stockUC.Sell(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to sell", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TradeFromUseCase(result))
}

// ListPositions lists a member's open positions.
func (h *StockHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	positions, err := h.stockUC.ListPositions(r.Context(), memberID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list positions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PositionsFromDomain(positions))
}
