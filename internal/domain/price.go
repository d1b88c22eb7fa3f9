package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one (symbol, date) closing price. Reference data populated by
// the price-ingestion surface; the ledger only reads it. "Current price" for
// a symbol means the most recent price point, not necessarily today's —
// markets are not always open.
type PricePoint struct {
	Symbol    string
	QuoteDate time.Time
	Close     decimal.Decimal
}
