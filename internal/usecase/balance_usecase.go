package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// BalanceUseCase is the balance reader: every figure it returns is derived
// from the entry history (plus lot and position side tables), never from a
// stored balance.
type BalanceUseCase struct {
	memberRepo   MemberRepository
	entryRepo    EntryRepository
	lotRepo      LotRepository
	positionRepo PositionRepository
	priceRepo    PriceRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(
	memberRepo MemberRepository,
	entryRepo EntryRepository,
	lotRepo LotRepository,
	positionRepo PositionRepository,
	priceRepo PriceRepository,
) *BalanceUseCase {
	return &BalanceUseCase{
		memberRepo:   memberRepo,
		entryRepo:    entryRepo,
		lotRepo:      lotRepo,
		positionRepo: positionRepo,
		priceRepo:    priceRepo,
	}
}

// GetBalance returns the signed sum of a member's entries for one bucket.
// A member with no entries has a zero balance; that is never an error.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, memberID string, bucket domain.Bucket) (decimal.Decimal, error) {
	if _, err := uc.memberRepo.GetByID(ctx, memberID); err != nil {
		return decimal.Zero, err
	}

	return uc.entryRepo.GetBalance(ctx, memberID, bucket)
}

// Balances holds the derived balance of every bucket.
type Balances struct {
	Cash        decimal.Decimal
	Savings     decimal.Decimal
	TermDeposit decimal.Decimal
	Stock       decimal.Decimal
}

// GetBalances returns every bucket balance for a member.
func (uc *BalanceUseCase) GetBalances(ctx context.Context, memberID string) (*Balances, error) {
	if _, err := uc.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	balances := &Balances{}
	targets := map[domain.Bucket]*decimal.Decimal{
		domain.BucketCash:        &balances.Cash,
		domain.BucketSavings:     &balances.Savings,
		domain.BucketTermDeposit: &balances.TermDeposit,
		domain.BucketStock:       &balances.Stock,
	}

	for _, bucket := range domain.AllBuckets() {
		balance, err := uc.entryRepo.GetBalance(ctx, memberID, bucket)
		if err != nil {
			return nil, err
		}
		*targets[bucket] = balance
	}

	return balances, nil
}

// PositionValue is one stock position valued at its latest known price.
type PositionValue struct {
	Symbol      string
	Shares      decimal.Decimal
	CostBasis   decimal.Decimal
	LatestPrice decimal.Decimal
	MarketValue decimal.Decimal
}

// PortfolioSummary is a member's full holdings picture: cash, savings fund,
// locked term-deposit principal, and stock positions at latest prices.
// Figures are rounded to cents here, at the presentation edge, not before.
type PortfolioSummary struct {
	MemberID     string
	Cash         decimal.Decimal
	Savings      decimal.Decimal
	TermDeposits decimal.Decimal
	Stocks       decimal.Decimal
	Total        decimal.Decimal
	Positions    []PositionValue
}

// GetPortfolioSummary derives the full portfolio with independent reads:
// cash and savings from entries, term deposits as the sum of active lot
// principals, stocks as shares times the most recent price per symbol.
func (uc *BalanceUseCase) GetPortfolioSummary(ctx context.Context, memberID string) (*PortfolioSummary, error) {
	if _, err := uc.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	cash, err := uc.entryRepo.GetBalance(ctx, memberID, domain.BucketCash)
	if err != nil {
		return nil, err
	}

	savings, err := uc.entryRepo.GetBalance(ctx, memberID, domain.BucketSavings)
	if err != nil {
		return nil, err
	}

	lockedPrincipal, err := uc.lotRepo.SumActivePrincipal(ctx, memberID)
	if err != nil {
		return nil, err
	}

	positions, err := uc.positionRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	stocksTotal := decimal.Zero
	values := make([]PositionValue, 0, len(positions))
	for _, pos := range positions {
		point, err := uc.priceRepo.GetLatest(ctx, pos.Symbol)
		if err != nil {
			return nil, err
		}

		value := pos.MarketValue(point.Close)
		stocksTotal = stocksTotal.Add(value)

		values = append(values, PositionValue{
			Symbol:      pos.Symbol,
			Shares:      pos.Shares,
			CostBasis:   pos.CostBasis,
			LatestPrice: point.Close,
			MarketValue: value,
		})
	}

	summary := &PortfolioSummary{
		MemberID:     memberID,
		Cash:         cash.Round(2),
		Savings:      savings.Round(2),
		TermDeposits: lockedPrincipal.Round(2),
		Stocks:       stocksTotal.Round(2),
		Positions:    values,
	}
	summary.Total = summary.Cash.Add(summary.Savings).Add(summary.TermDeposits).Add(summary.Stocks)

	return summary, nil
}

// ListEntriesInput represents input for listing a member's entries.
type ListEntriesInput struct {
	MemberID string
	Limit    int
	Offset   int
}

// ListEntries lists a member's entries, newest first.
func (uc *BalanceUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.Entry, error) {
	if _, err := uc.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	if input.Limit <= 0 {
		input.Limit = 50
	}

	if input.Limit > 500 {
		input.Limit = 500
	}

	if input.Offset < 0 {
		input.Offset = 0
	}

	return uc.entryRepo.ListByMember(ctx, input.MemberID, input.Limit, input.Offset)
}
