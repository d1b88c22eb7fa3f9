package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockPosition is one (member, symbol) holding tracked with weighted-average
// cost basis: cost basis is additive on buys, so average cost per share is
// always CostBasis / Shares. At most one position row exists per
// (member, symbol); the row is deleted when shares reach zero.
type StockPosition struct {
	ID        string
	MemberID  string
	Symbol    string
	Shares    decimal.Decimal
	CostBasis decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AverageCost returns the blended acquisition cost per share.
func (p *StockPosition) AverageCost() decimal.Decimal {
	if p.Shares.IsZero() {
		return decimal.Zero
	}
	return p.CostBasis.Div(p.Shares)
}

// ApplyBuy adds shares and cost to the position.
func (p *StockPosition) ApplyBuy(shares, cost decimal.Decimal) {
	p.Shares = p.Shares.Add(shares)
	p.CostBasis = p.CostBasis.Add(cost)
}

// ApplySell removes sold shares and their proportional share of the cost
// basis. Returns the cost removed (avg cost x shares sold, rounded to cents).
func (p *StockPosition) ApplySell(shares decimal.Decimal) decimal.Decimal {
	costRemoved := p.AverageCost().Mul(shares).Round(2)

	p.Shares = p.Shares.Sub(shares)
	p.CostBasis = p.CostBasis.Sub(costRemoved)

	if p.Shares.IsZero() {
		p.CostBasis = decimal.Zero
	}

	return costRemoved
}

// MarketValue values the position at the given price, rounded to cents.
func (p *StockPosition) MarketValue(price decimal.Decimal) decimal.Decimal {
	return p.Shares.Mul(price).Round(2)
}
