package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotStatus is the lifecycle state of a term deposit lot.
// active -> matured and active -> broken are the only transitions.
type LotStatus string

const (
	LotStatusActive  LotStatus = "active"
	LotStatusMatured LotStatus = "matured"
	LotStatusBroken  LotStatus = "broken"
)

// Supported term lengths in months.
var validTerms = map[int]bool{3: true, 6: true, 12: true}

// SupportedTerms lists the fixed set of term lengths, in months.
func SupportedTerms() []int {
	return []int{3, 6, 12}
}

// ValidateTerm checks the term length against the fixed supported set.
func ValidateTerm(months int) error {
	if !validTerms[months] {
		return ErrInvalidTerm
	}
	return nil
}

// penaltyWindowDays is the early-break penalty window: breaking a lot forfeits
// interest on the principal for min(daysHeld, 30) days at the lot's rate.
const penaltyWindowDays = 30

// daysPerYear is the simple-interest day basis used throughout.
const daysPerYear = 365

// DepositLot is one locked term-deposit holding. Principal, rate and dates are
// immutable after creation; only Status (and ClosedAt) transition, exactly once.
type DepositLot struct {
	ID         string
	MemberID   string
	Principal  decimal.Decimal
	AnnualRate decimal.Decimal
	TermMonths int
	StartedOn  time.Time
	MaturesOn  time.Time
	Status     LotStatus
	CreatedBy  string
	CreatedAt  time.Time
	ClosedAt   *time.Time
}

// DaysHeld returns whole calendar days between the start date and asOf.
func (l *DepositLot) DaysHeld(asOf time.Time) int {
	start := l.StartedOn.UTC().Truncate(24 * time.Hour)
	end := asOf.UTC().Truncate(24 * time.Hour)

	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}

	return days
}

// AccruedInterest computes simple interest on the principal for daysHeld days
// at the lot's frozen annual rate, rounded to cents.
func (l *DepositLot) AccruedInterest(daysHeld int) decimal.Decimal {
	if daysHeld <= 0 {
		return decimal.Zero
	}

	return l.Principal.
		Mul(l.AnnualRate).
		Mul(decimal.NewFromInt(int64(daysHeld))).
		Div(decimal.NewFromInt(daysPerYear)).
		Round(2)
}

// BreakPenalty is the early-break penalty: interest on the principal over
// min(daysHeld, 30) days. Held under 30 days, the penalty consumes all
// accrued interest.
func (l *DepositLot) BreakPenalty(daysHeld int) decimal.Decimal {
	window := daysHeld
	if window > penaltyWindowDays {
		window = penaltyWindowDays
	}

	return l.AccruedInterest(window)
}

// BreakPayout is the total credited back to cash on an early break:
// principal plus max(interest - penalty, 0). Net proceeds never fall below
// the original principal.
func (l *DepositLot) BreakPayout(daysHeld int) (payout, interest, penalty decimal.Decimal) {
	interest = l.AccruedInterest(daysHeld)
	penalty = l.BreakPenalty(daysHeld)

	net := interest.Sub(penalty)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return l.Principal.Add(net), interest, penalty
}

// IsMature reports whether the maturity date has been reached.
func (l *DepositLot) IsMature(asOf time.Time) bool {
	return !asOf.UTC().Truncate(24 * time.Hour).Before(l.MaturesOn.UTC().Truncate(24 * time.Hour))
}
