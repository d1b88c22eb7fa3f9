package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// StockUseCase tracks fractional stock holdings per (member, symbol) with
// weighted-average cost basis, built on the transfer engine. Prices come from
// the externally populated price table; "current price" is the most recent
// price point, which is not necessarily today's.
type StockUseCase struct {
	transfers    *TransferUseCase
	memberRepo   MemberRepository
	positionRepo PositionRepository
	priceRepo    PriceRepository
	settingsRepo SettingsRepository
}

// NewStockUseCase creates a new StockUseCase.
func NewStockUseCase(
	transfers *TransferUseCase,
	memberRepo MemberRepository,
	positionRepo PositionRepository,
	priceRepo PriceRepository,
	settingsRepo SettingsRepository,
) *StockUseCase {
	return &StockUseCase{
		transfers:    transfers,
		memberRepo:   memberRepo,
		positionRepo: positionRepo,
		priceRepo:    priceRepo,
		settingsRepo: settingsRepo,
	}
}

// BuyInput represents input for a stock purchase by dollar amount.
type BuyInput struct {
	MemberID string
	Symbol   string
	Note     string
	Dollars  decimal.Decimal
}

// TradeResult reports the outcome of a buy or sell.
type TradeResult struct {
	Position     *domain.StockPosition
	Symbol       string
	Shares       decimal.Decimal
	Price        decimal.Decimal
	Amount       decimal.Decimal
	RealizedGain decimal.Decimal
	PositionOpen bool
}

// Buy purchases dollars' worth of a symbol at its latest price. A first buy
// of a new symbol is subject to the position-count limit.
func (uc *StockUseCase) Buy(ctx context.Context, input BuyInput) (*TradeResult, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	symbol := domain.NormalizeSymbol(input.Symbol)
	if err := domain.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Dollars); err != nil {
		return nil, err
	}

	if _, err := uc.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	point, err := uc.priceRepo.GetLatest(ctx, symbol)
	if err != nil {
		return nil, err
	}

	release := uc.transfers.locker.Acquire(input.MemberID)
	defer release()

	position, err := uc.positionRepo.GetByMemberAndSymbol(ctx, input.MemberID, symbol)
	if err != nil {
		return nil, err
	}

	if position == nil {
		if err := uc.checkPositionLimit(ctx, input.MemberID); err != nil {
			return nil, err
		}
	}

	if err := uc.transfers.checkBalance(ctx, input.MemberID, domain.BucketCash, input.Dollars); err != nil {
		return nil, err
	}

	shares := input.Dollars.Div(point.Close).Round(domain.SharePrecision)
	now := uc.transfers.clock.Now()

	if position == nil {
		position = &domain.StockPosition{
			ID:        uc.transfers.idGen.Generate(),
			MemberID:  input.MemberID,
			Symbol:    symbol,
			CreatedAt: now,
		}
	}
	position.ApplyBuy(shares, input.Dollars)
	position.UpdatedAt = now

	metadata := map[string]any{
		domain.MetaSymbol: symbol,
		domain.MetaShares: shares.String(),
		domain.MetaPrice:  point.Close.String(),
	}

	entries := []*domain.Entry{
		uc.transfers.newEntry(input.MemberID, domain.CategoryBuy, domain.BucketCash, input.Dollars.Neg(), input.Note, metadata, user.ID),
		uc.transfers.newEntry(input.MemberID, domain.CategoryBuy, domain.BucketStock, input.Dollars, input.Note, metadata, user.ID),
	}

	err = uc.transfers.commitWith(ctx, func(ctx context.Context, tx Transaction) error {
		return uc.positionRepo.Upsert(ctx, tx, position)
	}, entries...)
	if err != nil {
		return nil, err
	}

	return &TradeResult{
		Position:     position,
		Symbol:       symbol,
		Shares:       shares,
		Price:        point.Close,
		Amount:       input.Dollars,
		PositionOpen: true,
	}, nil
}

// SellInput represents input for a stock sale by dollar amount.
// Dollars of zero is the sentinel for "sell the entire position".
type SellInput struct {
	MemberID string
	Symbol   string
	Note     string
	Dollars  decimal.Decimal
}

// Sell liquidates part or all of a position at the latest price, recording
// the realized gain or loss against the average cost basis. Selling every
// share removes the position row entirely.
func (uc *StockUseCase) Sell(ctx context.Context, input SellInput) (*TradeResult, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	symbol := domain.NormalizeSymbol(input.Symbol)
	if err := domain.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	sellAll := input.Dollars.IsZero()
	if !sellAll {
		if err := domain.ValidateAmount(input.Dollars); err != nil {
			return nil, err
		}
	}

	if _, err := uc.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	point, err := uc.priceRepo.GetLatest(ctx, symbol)
	if err != nil {
		return nil, err
	}

	release := uc.transfers.locker.Acquire(input.MemberID)
	defer release()

	position, err := uc.positionRepo.GetByMemberAndSymbol(ctx, input.MemberID, symbol)
	if err != nil {
		return nil, err
	}
	if position == nil {
		return nil, fmt.Errorf("%w: no %s position", domain.ErrInsufficientShares, symbol)
	}

	var sharesToSell, proceeds decimal.Decimal
	if sellAll {
		sharesToSell = position.Shares
		proceeds = position.Shares.Mul(point.Close).Round(2)
	} else {
		sharesToSell = input.Dollars.Div(point.Close).Round(domain.SharePrecision)
		proceeds = input.Dollars
	}

	if sharesToSell.GreaterThan(position.Shares) {
		return nil, fmt.Errorf("%w: hold %s shares of %s, requested %s",
			domain.ErrInsufficientShares, position.Shares, symbol, sharesToSell)
	}

	costRemoved := position.ApplySell(sharesToSell)
	realized := proceeds.Sub(costRemoved)
	position.UpdatedAt = uc.transfers.clock.Now()
	closed := position.Shares.IsZero()

	metadata := map[string]any{
		domain.MetaSymbol:       symbol,
		domain.MetaShares:       sharesToSell.String(),
		domain.MetaPrice:        point.Close.String(),
		domain.MetaRealizedGain: realized.String(),
	}

	entries := []*domain.Entry{
		uc.transfers.newEntry(input.MemberID, domain.CategorySell, domain.BucketStock, costRemoved.Neg(), input.Note, metadata, user.ID),
		uc.transfers.newEntry(input.MemberID, domain.CategorySell, domain.BucketCash, proceeds, input.Note, metadata, user.ID),
	}

	err = uc.transfers.commitWith(ctx, func(ctx context.Context, tx Transaction) error {
		if closed {
			return uc.positionRepo.Delete(ctx, tx, position.ID)
		}
		return uc.positionRepo.Upsert(ctx, tx, position)
	}, entries...)
	if err != nil {
		return nil, err
	}

	return &TradeResult{
		Position:     position,
		Symbol:       symbol,
		Shares:       sharesToSell,
		Price:        point.Close,
		Amount:       proceeds,
		RealizedGain: realized,
		PositionOpen: !closed,
	}, nil
}

// ListPositions lists a member's open positions.
func (uc *StockUseCase) ListPositions(ctx context.Context, memberID string) ([]*domain.StockPosition, error) {
	if _, err := uc.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	return uc.positionRepo.ListByMember(ctx, memberID)
}

// checkPositionLimit enforces the settings-driven cap on distinct symbols
// before a position for a new symbol is opened.
func (uc *StockUseCase) checkPositionLimit(ctx context.Context, memberID string) error {
	limit, err := uc.settingsRepo.Get(ctx, domain.SettingPositionLimit)
	if err != nil {
		return err
	}

	count, err := uc.positionRepo.CountByMember(ctx, memberID)
	if err != nil {
		return err
	}

	if decimal.NewFromInt(int64(count)).GreaterThanOrEqual(limit) {
		return fmt.Errorf("%w: limit is %s positions", domain.ErrPositionLimitReached, limit)
	}

	return nil
}
