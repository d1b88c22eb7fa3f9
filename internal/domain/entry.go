package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies what kind of money movement an entry records.
type Category string

const (
	CategoryDeposit     Category = "deposit"
	CategoryWithdrawal  Category = "withdrawal"
	CategoryTransferIn  Category = "transfer_in"
	CategoryTransferOut Category = "transfer_out"
	CategoryInterest    Category = "interest"
	CategoryDividend    Category = "dividend"
	CategoryBuy         Category = "buy"
	CategorySell        Category = "sell"
)

// Bucket is one of the four value categories a member balance can live in.
type Bucket string

const (
	BucketCash        Bucket = "cash"
	BucketSavings     Bucket = "savings"
	BucketTermDeposit Bucket = "term_deposit"
	BucketStock       Bucket = "stock"
)

// validCombinations is the closed table of which categories may touch which
// buckets. Entry construction rejects anything outside it.
var validCombinations = map[Category]map[Bucket]bool{
	CategoryDeposit:     {BucketCash: true},
	CategoryWithdrawal:  {BucketCash: true},
	CategoryTransferIn:  {BucketCash: true, BucketSavings: true, BucketTermDeposit: true, BucketStock: true},
	CategoryTransferOut: {BucketCash: true, BucketSavings: true, BucketTermDeposit: true, BucketStock: true},
	CategoryInterest:    {BucketSavings: true},
	CategoryDividend:    {BucketCash: true},
	CategoryBuy:         {BucketCash: true, BucketStock: true},
	CategorySell:        {BucketCash: true, BucketStock: true},
}

// IsValid reports whether the category is a known category.
func (c Category) IsValid() bool {
	_, ok := validCombinations[c]
	return ok
}

// IsValid reports whether the bucket is a known bucket.
func (b Bucket) IsValid() bool {
	switch b {
	case BucketCash, BucketSavings, BucketTermDeposit, BucketStock:
		return true
	}
	return false
}

// AllBuckets lists every bucket, in presentation order.
func AllBuckets() []Bucket {
	return []Bucket{BucketCash, BucketSavings, BucketTermDeposit, BucketStock}
}

// Metadata keys entries carry for auditability. Every figure that produced an
// amount is frozen into the entry that recorded it.
const (
	MetaDays         = "days"
	MetaRate         = "rate"
	MetaBalance      = "balance"
	MetaPrincipal    = "principal"
	MetaInterest     = "interest"
	MetaPenalty      = "penalty"
	MetaPayout       = "payout"
	MetaLotID        = "lot_id"
	MetaTermMonths   = "term_months"
	MetaSymbol       = "symbol"
	MetaShares       = "shares"
	MetaPrice        = "price"
	MetaRealizedGain = "realized_gain"
	MetaSource       = "source"
	MetaTotal        = "total"
	MetaPrevTotal    = "previous_total"
	MetaDelta        = "delta"
)

// Entry is one immutable ledger record. Entries are never updated or deleted;
// corrections append offsetting entries. The signed sum of a member's entries
// for a bucket is that bucket's balance — no other balance representation
// exists.
type Entry struct {
	CreatedAt time.Time
	Metadata  map[string]any
	ID        string
	MemberID  string
	Category  Category
	Bucket    Bucket
	Note      string
	CreatedBy string
	Amount    decimal.Decimal
}

// Validate checks the entry against the combination table and amount rules.
func (e *Entry) Validate() error {
	if e.MemberID == "" {
		return ErrMemberNotFound
	}

	if e.CreatedBy == "" {
		return ErrUnauthorized
	}

	buckets, ok := validCombinations[e.Category]
	if !ok || !buckets[e.Bucket] {
		return ErrInvalidCombination
	}

	if e.Amount.IsZero() {
		return ErrInvalidAmount
	}

	if err := ValidateCurrencyPrecision(e.Amount); err != nil {
		return err
	}

	return ValidateNote(e.Note)
}
