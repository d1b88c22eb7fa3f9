package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

type lotServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateLotInput) (*domain.DepositLot, error)
	matureFn func(ctx context.Context, lotID string) (*usecase.MatureResult, error)
	breakFn  func(ctx context.Context, lotID string) (*usecase.BreakResult, error)
	getFn    func(ctx context.Context, lotID string) (*domain.DepositLot, error)
	listFn   func(ctx context.Context, memberID string) ([]*domain.DepositLot, error)
}

func (s *lotServiceStub) CreateLot(ctx context.Context, input usecase.CreateLotInput) (*domain.DepositLot, error) {
	return s.createFn(ctx, input)
}

func (s *lotServiceStub) MatureLot(ctx context.Context, lotID string) (*usecase.MatureResult, error) {
	return s.matureFn(ctx, lotID)
}

func (s *lotServiceStub) BreakLot(ctx context.Context, lotID string) (*usecase.BreakResult, error) {
	return s.breakFn(ctx, lotID)
}

func (s *lotServiceStub) GetLot(ctx context.Context, lotID string) (*domain.DepositLot, error) {
	return s.getFn(ctx, lotID)
}

func (s *lotServiceStub) ListLots(ctx context.Context, memberID string) ([]*domain.DepositLot, error) {
	return s.listFn(ctx, memberID)
}

func activeLot() *domain.DepositLot {
	return &domain.DepositLot{
		ID:         "lot-1",
		MemberID:   "member-1",
		Principal:  decimal.RequireFromString("100"),
		AnnualRate: decimal.RequireFromString("0.048"),
		TermMonths: 3,
		StartedOn:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		MaturesOn:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:     domain.LotStatusActive,
	}
}

func TestLotHandlerCreateSuccess(t *testing.T) {
	var captured usecase.CreateLotInput
	handler := NewLotHandler(&lotServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateLotInput) (*domain.DepositLot, error) {
			captured = input
			return activeLot(), nil
		},
	})

	body, _ := json.Marshal(map[string]any{"principal": "100", "term_months": 3})
	rec := routeRequest(http.MethodPost, "/members/{id}/lots", "/members/member-1/lots", body, handler.Create)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.MemberID != "member-1" || captured.TermMonths != 3 {
		t.Errorf("input not mapped: %+v", captured)
	}
}

func TestLotHandlerCreateInvalidTerm(t *testing.T) {
	handler := NewLotHandler(&lotServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateLotInput) (*domain.DepositLot, error) {
			return nil, domain.ErrInvalidTerm
		},
	})

	body, _ := json.Marshal(map[string]any{"principal": "100", "term_months": 5})
	rec := routeRequest(http.MethodPost, "/members/{id}/lots", "/members/member-1/lots", body, handler.Create)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLotHandlerMatureSuccess(t *testing.T) {
	lot := activeLot()
	lot.Status = domain.LotStatusMatured

	handler := NewLotHandler(&lotServiceStub{
		matureFn: func(ctx context.Context, lotID string) (*usecase.MatureResult, error) {
			if lotID != "lot-1" {
				t.Errorf("expected lot-1, got %s", lotID)
			}
			return &usecase.MatureResult{
				Lot:      lot,
				Interest: decimal.RequireFromString("1.18"),
				Payout:   decimal.RequireFromString("101.18"),
			}, nil
		},
	})

	rec := routeRequest(http.MethodPost, "/lots/{lotID}/mature", "/lots/lot-1/mature", nil, handler.Mature)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Interest string `json:"interest"`
		Payout   string `json:"payout"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.Payout != "101.18" {
		t.Errorf("expected payout 101.18, got %s", resp.Payout)
	}
}

func TestLotHandlerMatureTooEarly(t *testing.T) {
	handler := NewLotHandler(&lotServiceStub{
		matureFn: func(ctx context.Context, lotID string) (*usecase.MatureResult, error) {
			return nil, domain.ErrLotNotMatured
		},
	})

	rec := routeRequest(http.MethodPost, "/lots/{lotID}/mature", "/lots/lot-1/mature", nil, handler.Mature)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLotHandlerBreakReportsPenalty(t *testing.T) {
	lot := activeLot()
	lot.Status = domain.LotStatusBroken

	handler := NewLotHandler(&lotServiceStub{
		breakFn: func(ctx context.Context, lotID string) (*usecase.BreakResult, error) {
			return &usecase.BreakResult{
				Lot:      lot,
				Interest: decimal.RequireFromString("0.59"),
				Penalty:  decimal.RequireFromString("0.39"),
				Payout:   decimal.RequireFromString("100.20"),
			}, nil
		},
	})

	rec := routeRequest(http.MethodPost, "/lots/{lotID}/break", "/lots/lot-1/break", nil, handler.Break)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Penalty string `json:"penalty"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if resp.Penalty != "0.39" {
		t.Errorf("expected penalty 0.39, got %s", resp.Penalty)
	}
}

func TestLotHandlerGetNotFound(t *testing.T) {
	handler := NewLotHandler(&lotServiceStub{
		getFn: func(ctx context.Context, lotID string) (*domain.DepositLot, error) {
			return nil, domain.ErrLotNotFound
		},
	})

	rec := routeRequest(http.MethodGet, "/lots/{lotID}", "/lots/nothing", nil, handler.Get)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
