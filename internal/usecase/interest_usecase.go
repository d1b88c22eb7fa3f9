package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// InterestUseCase computes elapsed-time interest for the savings fund and
// appends a credit entry. All state is derived from the entry history; the
// last accrual date is a query, not a cached field.
type InterestUseCase struct {
	transfers    *TransferUseCase
	memberRepo   MemberRepository
	entryRepo    EntryRepository
	settingsRepo SettingsRepository
}

// NewInterestUseCase creates a new InterestUseCase.
func NewInterestUseCase(
	transfers *TransferUseCase,
	memberRepo MemberRepository,
	entryRepo EntryRepository,
	settingsRepo SettingsRepository,
) *InterestUseCase {
	return &InterestUseCase{
		transfers:    transfers,
		memberRepo:   memberRepo,
		entryRepo:    entryRepo,
		settingsRepo: settingsRepo,
	}
}

// AccrualResult reports what an accrual run did. Accrued is false for the
// no-op cases: same-day repeat, empty savings history, or interest that
// rounds to zero.
type AccrualResult struct {
	Accrued  bool
	Days     int
	Rate     decimal.Decimal
	Balance  decimal.Decimal
	Interest decimal.Decimal
	Entry    *domain.Entry
}

// Accrue credits interest for the days elapsed since the last accrual.
// Idempotent per calendar day: running it twice on the same day is a no-op,
// never an error. The rate is read from settings at call time so each accrual
// reflects the latest administrator-set value, and the entry freezes the
// rate, days and balance that produced it.
func (uc *InterestUseCase) Accrue(ctx context.Context, memberID string) (*AccrualResult, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := uc.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	rate, err := uc.settingsRepo.Get(ctx, domain.SettingSavingsAPY)
	if err != nil {
		return nil, err
	}

	release := uc.transfers.locker.Acquire(memberID)
	defer release()

	lastAccrual, err := uc.lastAccrualDate(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if lastAccrual == nil {
		// No savings history at all: nothing to accrue against.
		return &AccrualResult{}, nil
	}

	today := dateOf(uc.transfers.clock.Now())
	days := int(today.Sub(*lastAccrual).Hours() / 24)
	if days <= 0 {
		return &AccrualResult{Rate: rate}, nil
	}

	balance, err := uc.entryRepo.GetBalance(ctx, memberID, domain.BucketSavings)
	if err != nil {
		return nil, err
	}

	interest := balance.
		Mul(rate).
		Div(decimal.NewFromInt(daysPerYear)).
		Mul(decimal.NewFromInt(int64(days))).
		Round(2)

	result := &AccrualResult{
		Days:    days,
		Rate:    rate,
		Balance: balance,
	}

	if interest.LessThanOrEqual(decimal.Zero) {
		// Skip zero-value credits entirely rather than polluting the ledger.
		return result, nil
	}

	entry := uc.transfers.newEntry(memberID, domain.CategoryInterest, domain.BucketSavings, interest, "", map[string]any{
		domain.MetaDays:    days,
		domain.MetaRate:    rate.String(),
		domain.MetaBalance: balance.String(),
	}, user.ID)

	if err := uc.transfers.commit(ctx, entry); err != nil {
		return nil, err
	}

	result.Accrued = true
	result.Interest = interest
	result.Entry = entry

	return result, nil
}

// lastAccrualDate finds the date interest was last credited, falling back to
// the date of the first transfer into savings. Nil means the member has never
// funded the savings bucket.
func (uc *InterestUseCase) lastAccrualDate(ctx context.Context, memberID string) (*time.Time, error) {
	last, err := uc.entryRepo.LastByCategory(ctx, memberID, domain.CategoryInterest, domain.BucketSavings)
	if err != nil {
		return nil, err
	}

	if last == nil {
		last, err = uc.entryRepo.FirstByCategory(ctx, memberID, domain.CategoryTransferIn, domain.BucketSavings)
		if err != nil {
			return nil, err
		}
	}

	if last == nil {
		return nil, nil
	}

	d := dateOf(last.CreatedAt)
	return &d, nil
}

// dateOf truncates a timestamp to its UTC calendar day.
func dateOf(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
