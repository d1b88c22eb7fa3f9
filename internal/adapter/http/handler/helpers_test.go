package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrMemberNotFound, http.StatusNotFound},
		{domain.ErrLotNotFound, http.StatusNotFound},
		{domain.ErrNoPriceData, http.StatusNotFound},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrSameBucket, http.StatusBadRequest},
		{domain.ErrInvalidTerm, http.StatusBadRequest},
		{domain.ErrUnknownSetting, http.StatusBadRequest},
		{domain.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{domain.ErrInsufficientShares, http.StatusUnprocessableEntity},
		{domain.ErrPositionLimitReached, http.StatusUnprocessableEntity},
		{domain.ErrLotNotActive, http.StatusConflict},
		{domain.ErrLotNotMatured, http.StatusConflict},
		{domain.ErrRegressionDetected, http.StatusConflict},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrWrongCredentials, http.StatusUnauthorized},
		{domain.ErrUnauthorized, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapDomainError(tt.err); got != tt.want {
			t.Errorf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestMapDomainErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("creating lot: %w", domain.ErrInsufficientBalance)
	if got := mapDomainError(wrapped); got != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for wrapped error, got %d", got)
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5&bad=abc", nil)

	if got := parseIntQuery(req, "limit", 20); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if got := parseIntQuery(req, "bad", 20); got != 20 {
		t.Errorf("expected default for non-numeric, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 20); got != 20 {
		t.Errorf("expected default for missing, got %d", got)
	}
}
