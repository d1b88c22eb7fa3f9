package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// SettingsUseCase is the administrative surface for rates and limits, and for
// the price table the ledger reads. Both are validated at write time; ledger
// operations read them fresh on every call.
type SettingsUseCase struct {
	settingsRepo SettingsRepository
	priceRepo    PriceRepository
}

// NewSettingsUseCase creates a new SettingsUseCase.
func NewSettingsUseCase(settingsRepo SettingsRepository, priceRepo PriceRepository) *SettingsUseCase {
	return &SettingsUseCase{settingsRepo: settingsRepo, priceRepo: priceRepo}
}

// adminUser requires a caller with administrative rights.
func adminUser(ctx context.Context) (*domain.User, error) {
	user, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if !user.Role.CanAdminister() {
		return nil, fmt.Errorf("%w: role %q cannot administer settings", domain.ErrUnauthorized, user.Role)
	}

	return user, nil
}

// SetSetting writes one setting after allow-list and range validation.
func (uc *SettingsUseCase) SetSetting(ctx context.Context, key string, value decimal.Decimal) error {
	if _, err := adminUser(ctx); err != nil {
		return err
	}

	if err := domain.ValidateSetting(key, value); err != nil {
		return err
	}

	return uc.settingsRepo.Set(ctx, key, value)
}

// GetSettings returns all settings.
func (uc *SettingsUseCase) GetSettings(ctx context.Context) (map[string]decimal.Decimal, error) {
	if _, ok := domain.UserFromContext(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	return uc.settingsRepo.GetAll(ctx)
}

// RecordPriceInput represents one ingested closing price.
type RecordPriceInput struct {
	Symbol    string
	QuoteDate time.Time
	Close     decimal.Decimal
}

// RecordPrice upserts one (symbol, date) closing price. This is the
// ingestion collaborator's write path; ledger components only read prices.
func (uc *SettingsUseCase) RecordPrice(ctx context.Context, input RecordPriceInput) (*domain.PricePoint, error) {
	if _, err := adminUser(ctx); err != nil {
		return nil, err
	}

	symbol := domain.NormalizeSymbol(input.Symbol)
	if err := domain.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	if input.Close.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidAmount)
	}

	point := &domain.PricePoint{
		Symbol:    symbol,
		QuoteDate: dateOf(input.QuoteDate),
		Close:     input.Close,
	}

	if err := uc.priceRepo.Upsert(ctx, point); err != nil {
		return nil, err
	}

	return point, nil
}

// GetLatestPrice returns the most recent price point for a symbol.
func (uc *SettingsUseCase) GetLatestPrice(ctx context.Context, symbol string) (*domain.PricePoint, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if err := domain.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	return uc.priceRepo.GetLatest(ctx, symbol)
}
