package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/melodykoh/the-mini-mint/internal/adapter/http/dto"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// InterestService defines the behavior needed by SavingsHandler.
type InterestService interface {
	Accrue(ctx context.Context, memberID string) (*usecase.AccrualResult, error)
}

// SavingsHandler handles savings-fund interest accrual.
type SavingsHandler struct {
	interestUC InterestService
}

// NewSavingsHandler creates a new SavingsHandler.
func NewSavingsHandler(interestUC InterestService) *SavingsHandler {
	return &SavingsHandler{interestUC: interestUC}
}

// Accrue credits interest for the days elapsed since the last accrual.
// Safe to call repeatedly: a same-day rerun reports accrued=false.
func (h *SavingsHandler) Accrue(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	result, err := h.interestUC.Accrue(r.Context(), memberID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to accrue interest", err.Error())
		return
	}

	status := http.StatusCreated
	if !result.Accrued {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.AccrualFromUseCase(result))
}
