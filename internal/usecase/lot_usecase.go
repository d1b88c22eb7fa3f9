package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// LotUseCase manages the term deposit lifecycle: create locks cash into a
// lot, mature and break release it back, each exactly once. The lot row and
// its ledger entries always commit in the same transaction.
type LotUseCase struct {
	transfers    *TransferUseCase
	memberRepo   MemberRepository
	lotRepo      LotRepository
	settingsRepo SettingsRepository
}

// NewLotUseCase creates a new LotUseCase.
func NewLotUseCase(
	transfers *TransferUseCase,
	memberRepo MemberRepository,
	lotRepo LotRepository,
	settingsRepo SettingsRepository,
) *LotUseCase {
	return &LotUseCase{
		transfers:    transfers,
		memberRepo:   memberRepo,
		lotRepo:      lotRepo,
		settingsRepo: settingsRepo,
	}
}

// CreateLotInput represents input for opening a term deposit.
type CreateLotInput struct {
	MemberID   string
	Note       string
	Principal  decimal.Decimal
	TermMonths int
}

// CreateLot locks principal out of cash into a new active lot. The rate for
// the chosen term is read from settings and frozen into the lot.
func (uc *LotUseCase) CreateLot(ctx context.Context, input CreateLotInput) (*domain.DepositLot, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateTerm(input.TermMonths); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Principal); err != nil {
		return nil, err
	}

	if _, err := uc.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	rateKey, err := domain.TermRateKey(input.TermMonths)
	if err != nil {
		return nil, err
	}

	rate, err := uc.settingsRepo.Get(ctx, rateKey)
	if err != nil {
		return nil, err
	}

	release := uc.transfers.locker.Acquire(input.MemberID)
	defer release()

	if err := uc.transfers.checkBalance(ctx, input.MemberID, domain.BucketCash, input.Principal); err != nil {
		return nil, err
	}

	now := uc.transfers.clock.Now()
	lot := &domain.DepositLot{
		ID:         uc.transfers.idGen.Generate(),
		MemberID:   input.MemberID,
		Principal:  input.Principal,
		AnnualRate: rate,
		TermMonths: input.TermMonths,
		StartedOn:  dateOf(now),
		MaturesOn:  dateOf(now).AddDate(0, input.TermMonths, 0),
		Status:     domain.LotStatusActive,
		CreatedBy:  user.ID,
		CreatedAt:  now,
	}

	metadata := map[string]any{
		domain.MetaLotID:      lot.ID,
		domain.MetaTermMonths: lot.TermMonths,
		domain.MetaRate:       rate.String(),
	}

	entries := []*domain.Entry{
		uc.transfers.newEntry(input.MemberID, domain.CategoryTransferOut, domain.BucketCash, input.Principal.Neg(), input.Note, metadata, user.ID),
		uc.transfers.newEntry(input.MemberID, domain.CategoryTransferIn, domain.BucketTermDeposit, input.Principal, input.Note, metadata, user.ID),
	}

	err = uc.transfers.commitWith(ctx, func(ctx context.Context, tx Transaction) error {
		return uc.lotRepo.Create(ctx, tx, lot)
	}, entries...)
	if err != nil {
		return nil, err
	}

	return lot, nil
}

// MatureResult reports the payout of a matured lot.
type MatureResult struct {
	Lot      *domain.DepositLot
	Interest decimal.Decimal
	Payout   decimal.Decimal
}

// MatureLot pays out an active lot that has reached its maturity date:
// principal plus simple interest for the actual days held goes back to cash,
// and the lot transitions to matured.
func (uc *LotUseCase) MatureLot(ctx context.Context, lotID string) (*MatureResult, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}

	release := uc.transfers.locker.Acquire(lot.MemberID)
	defer release()

	// Re-read under the lock: a concurrent mature/break may have closed it.
	lot, err = uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}

	if lot.Status != domain.LotStatusActive {
		return nil, fmt.Errorf("%w: lot %s is %s", domain.ErrLotNotActive, lot.ID, lot.Status)
	}

	now := uc.transfers.clock.Now()
	if !lot.IsMature(now) {
		return nil, fmt.Errorf("%w: lot %s matures on %s", domain.ErrLotNotMatured, lot.ID, lot.MaturesOn.Format("2006-01-02"))
	}

	days := lot.DaysHeld(now)
	interest := lot.AccruedInterest(days)
	payout := lot.Principal.Add(interest)

	metadata := map[string]any{
		domain.MetaLotID:     lot.ID,
		domain.MetaPrincipal: lot.Principal.String(),
		domain.MetaInterest:  interest.String(),
		domain.MetaRate:      lot.AnnualRate.String(),
		domain.MetaDays:      days,
	}

	entries := []*domain.Entry{
		uc.transfers.newEntry(lot.MemberID, domain.CategoryTransferOut, domain.BucketTermDeposit, lot.Principal.Neg(), "", metadata, user.ID),
		uc.transfers.newEntry(lot.MemberID, domain.CategoryTransferIn, domain.BucketCash, payout, "", metadata, user.ID),
	}

	err = uc.transfers.commitWith(ctx, func(ctx context.Context, tx Transaction) error {
		return uc.lotRepo.UpdateStatus(ctx, tx, lot.ID, domain.LotStatusMatured, now)
	}, entries...)
	if err != nil {
		return nil, err
	}

	lot.Status = domain.LotStatusMatured
	lot.ClosedAt = &now

	return &MatureResult{Lot: lot, Interest: interest, Payout: payout}, nil
}

// BreakResult reports the payout of a broken lot, including the penalty that
// was applied.
type BreakResult struct {
	Lot      *domain.DepositLot
	Interest decimal.Decimal
	Penalty  decimal.Decimal
	Payout   decimal.Decimal
}

// BreakLot closes an active lot before (or after) maturity. The payout is
// principal plus accrued interest minus the early-break penalty, floored at
// the principal — breaking never costs the member their original deposit.
func (uc *LotUseCase) BreakLot(ctx context.Context, lotID string) (*BreakResult, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	lot, err := uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}

	release := uc.transfers.locker.Acquire(lot.MemberID)
	defer release()

	lot, err = uc.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}

	if lot.Status != domain.LotStatusActive {
		return nil, fmt.Errorf("%w: lot %s is %s", domain.ErrLotNotActive, lot.ID, lot.Status)
	}

	now := uc.transfers.clock.Now()
	days := lot.DaysHeld(now)
	payout, interest, penalty := lot.BreakPayout(days)

	metadata := map[string]any{
		domain.MetaLotID:     lot.ID,
		domain.MetaPrincipal: lot.Principal.String(),
		domain.MetaInterest:  interest.String(),
		domain.MetaPenalty:   penalty.String(),
		domain.MetaPayout:    payout.String(),
		domain.MetaRate:      lot.AnnualRate.String(),
		domain.MetaDays:      days,
	}

	entries := []*domain.Entry{
		uc.transfers.newEntry(lot.MemberID, domain.CategoryTransferOut, domain.BucketTermDeposit, lot.Principal.Neg(), "", metadata, user.ID),
		uc.transfers.newEntry(lot.MemberID, domain.CategoryTransferIn, domain.BucketCash, payout, "", metadata, user.ID),
	}

	err = uc.transfers.commitWith(ctx, func(ctx context.Context, tx Transaction) error {
		return uc.lotRepo.UpdateStatus(ctx, tx, lot.ID, domain.LotStatusBroken, now)
	}, entries...)
	if err != nil {
		return nil, err
	}

	lot.Status = domain.LotStatusBroken
	lot.ClosedAt = &now

	return &BreakResult{Lot: lot, Interest: interest, Penalty: penalty, Payout: payout}, nil
}

// GetLot retrieves a lot by ID.
func (uc *LotUseCase) GetLot(ctx context.Context, lotID string) (*domain.DepositLot, error) {
	return uc.lotRepo.GetByID(ctx, lotID)
}

// ListLots lists a member's lots, newest first.
func (uc *LotUseCase) ListLots(ctx context.Context, memberID string) ([]*domain.DepositLot, error) {
	if _, err := uc.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	return uc.lotRepo.ListByMember(ctx, memberID)
}
