package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// SnapshotUseCase converts an externally reported monotonic counter (a chore
// point total, a reading-minutes total) into cash deposits via high-water-mark
// delta computation. The previous high-water mark is the most recent entry
// carrying the source tag — derived state, never cached.
type SnapshotUseCase struct {
	transfers    *TransferUseCase
	memberRepo   MemberRepository
	entryRepo    EntryRepository
	settingsRepo SettingsRepository
}

// NewSnapshotUseCase creates a new SnapshotUseCase.
func NewSnapshotUseCase(
	transfers *TransferUseCase,
	memberRepo MemberRepository,
	entryRepo EntryRepository,
	settingsRepo SettingsRepository,
) *SnapshotUseCase {
	return &SnapshotUseCase{
		transfers:    transfers,
		memberRepo:   memberRepo,
		entryRepo:    entryRepo,
		settingsRepo: settingsRepo,
	}
}

// RecordSnapshotInput represents one externally reported counter reading.
type RecordSnapshotInput struct {
	MemberID  string
	SourceTag string
	Total     decimal.Decimal
}

// SnapshotResult reports what a snapshot recording did. Recorded is false
// when the total has not moved (a no-op, not an error).
type SnapshotResult struct {
	Recorded      bool
	PreviousTotal decimal.Decimal
	Delta         decimal.Decimal
	Amount        decimal.Decimal
	Entry         *domain.Entry
}

// RecordSnapshot computes the increment since the previous reported total and
// deposits its cash conversion. A total lower than the previous one fails
// with ErrRegressionDetected — the counter should never decrease, so a drop
// is surfaced as a likely data-entry error rather than absorbed.
func (uc *SnapshotUseCase) RecordSnapshot(ctx context.Context, input RecordSnapshotInput) (*SnapshotResult, error) {
	if _, err := mutatingUser(ctx); err != nil {
		return nil, err
	}

	if input.SourceTag == "" {
		return nil, fmt.Errorf("%w: source tag is required", domain.ErrInvalidAmount)
	}

	if input.Total.IsNegative() {
		return nil, fmt.Errorf("%w: total cannot be negative", domain.ErrInvalidAmount)
	}

	if _, err := uc.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	rate, err := uc.settingsRepo.Get(ctx, domain.SettingPointsRate)
	if err != nil {
		return nil, err
	}

	release := uc.transfers.locker.Acquire(input.MemberID)
	defer release()

	previous := decimal.Zero
	last, err := uc.entryRepo.LastBySource(ctx, input.MemberID, input.SourceTag)
	if err != nil {
		return nil, err
	}
	if last != nil {
		if total, ok := metaDecimal(last.Metadata, domain.MetaTotal); ok {
			previous = total
		}
	}

	delta := input.Total.Sub(previous)

	result := &SnapshotResult{
		PreviousTotal: previous,
		Delta:         delta,
	}

	if delta.IsNegative() {
		return nil, fmt.Errorf("%w: previous total %s, reported %s",
			domain.ErrRegressionDetected, previous, input.Total)
	}

	if delta.IsZero() {
		return result, nil
	}

	amount := delta.Mul(rate).Round(2)
	result.Amount = amount

	if amount.LessThanOrEqual(decimal.Zero) {
		// Increment too small to convert to a cent; wait for the counter to
		// grow. The high-water mark stays at the last recorded entry.
		return result, nil
	}

	entry, err := uc.deposit(ctx, input, previous, delta, amount)
	if err != nil {
		return nil, err
	}

	result.Recorded = true
	result.Entry = entry

	return result, nil
}

// deposit runs the standard deposit pattern with snapshot metadata, so the
// next call can find this total as its high-water mark.
func (uc *SnapshotUseCase) deposit(
	ctx context.Context,
	input RecordSnapshotInput,
	previous, delta, amount decimal.Decimal,
) (*domain.Entry, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	entry := uc.transfers.newEntry(input.MemberID, domain.CategoryDeposit, domain.BucketCash, amount,
		fmt.Sprintf("%s points", input.SourceTag),
		map[string]any{
			domain.MetaSource:    input.SourceTag,
			domain.MetaTotal:     input.Total.String(),
			domain.MetaPrevTotal: previous.String(),
			domain.MetaDelta:     delta.String(),
		}, user.ID)

	if err := uc.transfers.commit(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}
