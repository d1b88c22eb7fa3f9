package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/adapter/http/dto"
	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// AdminService defines the settings and price-ingestion behavior needed by
// AdminHandler.
type AdminService interface {
	SetSetting(ctx context.Context, key string, value decimal.Decimal) error
	GetSettings(ctx context.Context) (map[string]decimal.Decimal, error)
	RecordPrice(ctx context.Context, input usecase.RecordPriceInput) (*domain.PricePoint, error)
	GetLatestPrice(ctx context.Context, symbol string) (*domain.PricePoint, error)
}

// AdminHandler handles settings and price ingestion HTTP requests.
type AdminHandler struct {
	settingsUC AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(settingsUC AdminService) *AdminHandler {
	return &AdminHandler{settingsUC: settingsUC}
}

// GetSettings returns all settings.
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsUC.GetSettings(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get settings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// SetSetting updates one setting value.
func (h *AdminHandler) SetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req dto.SetSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	value, err := req.ParseValue()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid value", err.Error())
		return
	}

	if err := h.settingsUC.SetSetting(r.Context(), key, value); err != nil {
		writeError(w, mapDomainError(err), "failed to set setting", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value.String()})
}

// RecordPrice upserts one (symbol, date) closing price.
func (h *AdminHandler) RecordPrice(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price", err.Error())
		return
	}

	point, err := h.settingsUC.RecordPrice(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record price", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PriceFromDomain(point))
}

// GetLatestPrice returns the most recent price point for a symbol.
func (h *AdminHandler) GetLatestPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	point, err := h.settingsUC.GetLatestPrice(r.Context(), symbol)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get price", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PriceFromDomain(point))
}
