package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxNoteLength      = 280
	MaxOperationAmount = "1000000" // 1 million, plenty for pocket money
	CurrencyPrecision  = 2
	SharePrecision     = 8
)

var symbolRegex = regexp.MustCompile(`^[A-Z]{1,5}$`)

// ValidateAmount validates a positive operation amount: strictly positive,
// at most the fixed maximum, exactly two fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxOperationAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum is %s", ErrAmountTooLarge, MaxOperationAmount)
	}

	return ValidateCurrencyPrecision(amount)
}

// ValidateCurrencyPrecision rejects amounts with more than two fractional digits.
func ValidateCurrencyPrecision(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(CurrencyPrecision)) {
		return fmt.Errorf("%w: currency amounts use at most %d decimal places", ErrInvalidPrecision, CurrencyPrecision)
	}
	return nil
}

// ValidateSharePrecision rejects share counts beyond eight fractional digits.
func ValidateSharePrecision(shares decimal.Decimal) error {
	if !shares.Equal(shares.Round(SharePrecision)) {
		return fmt.Errorf("%w: share counts use at most %d decimal places", ErrInvalidPrecision, SharePrecision)
	}
	return nil
}

// ValidateNote caps free-text note length.
func ValidateNote(note string) error {
	if len(note) > MaxNoteLength {
		return fmt.Errorf("%w: maximum is %d characters", ErrInvalidNote, MaxNoteLength)
	}
	return nil
}

// ValidateSymbol validates a ticker symbol (1-5 uppercase letters).
func ValidateSymbol(symbol string) error {
	if !symbolRegex.MatchString(symbol) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return nil
}

// NormalizeSymbol upper-cases and trims a ticker symbol before validation.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
