package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// allowedTransferPairs limits the public invest/redeem operation to moves
// between cash and the savings fund. Term deposit and stock buckets are only
// touched through their lifecycle operations.
var allowedTransferPairs = map[domain.Bucket]map[domain.Bucket]bool{
	domain.BucketCash:    {domain.BucketSavings: true},
	domain.BucketSavings: {domain.BucketCash: true},
}

// spendableBuckets are the sources Spend accepts.
var spendableBuckets = map[domain.Bucket]bool{
	domain.BucketCash:    true,
	domain.BucketSavings: true,
}

// TransferUseCase is the transfer engine: it builds and commits the fixed
// entry patterns for deposit, withdrawal, bucket transfer and spend. All
// entries of one operation commit in one batch or not at all, and every
// check-then-write runs under the member's lock.
type TransferUseCase struct {
	txManager  TransactionManager
	memberRepo MemberRepository
	entryRepo  EntryRepository
	locker     *MemberLocker
	idGen      IDGenerator
	clock      Clock
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	memberRepo MemberRepository,
	entryRepo EntryRepository,
	locker *MemberLocker,
	idGen IDGenerator,
	clock Clock,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:  txManager,
		memberRepo: memberRepo,
		entryRepo:  entryRepo,
		locker:     locker,
		idGen:      idGen,
		clock:      clock,
	}
}

// DepositInput represents input for a cash deposit.
type DepositInput struct {
	Metadata map[string]any
	MemberID string
	Note     string
	Amount   decimal.Decimal
}

// Deposit appends a single positive cash entry. Additive, so no balance check.
func (uc *TransferUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Entry, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if _, err := uc.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	release := uc.locker.Acquire(input.MemberID)
	defer release()

	entry := uc.newEntry(input.MemberID, domain.CategoryDeposit, domain.BucketCash, input.Amount, input.Note, input.Metadata, user.ID)
	if err := uc.commit(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// WithdrawInput represents input for a cash withdrawal.
type WithdrawInput struct {
	MemberID string
	Note     string
	Amount   decimal.Decimal
}

// Withdraw appends a single negative cash entry after a balance check.
func (uc *TransferUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Entry, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if _, err := uc.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	release := uc.locker.Acquire(input.MemberID)
	defer release()

	if err := uc.checkBalance(ctx, input.MemberID, domain.BucketCash, input.Amount); err != nil {
		return nil, err
	}

	entry := uc.newEntry(input.MemberID, domain.CategoryWithdrawal, domain.BucketCash, input.Amount.Neg(), input.Note, nil, user.ID)
	if err := uc.commit(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// TransferInput represents input for an invest/redeem bucket transfer.
type TransferInput struct {
	MemberID   string
	FromBucket domain.Bucket
	ToBucket   domain.Bucket
	Note       string
	Amount     decimal.Decimal
}

// Transfer moves an amount between cash and the savings fund: one negative
// entry in the source bucket, one positive entry in the destination.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) ([]*domain.Entry, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	if input.FromBucket == input.ToBucket {
		return nil, domain.ErrSameBucket
	}

	if !allowedTransferPairs[input.FromBucket][input.ToBucket] {
		return nil, fmt.Errorf("%w: cannot transfer from %s to %s", domain.ErrInvalidCombination, input.FromBucket, input.ToBucket)
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if _, err := uc.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	release := uc.locker.Acquire(input.MemberID)
	defer release()

	if err := uc.checkBalance(ctx, input.MemberID, input.FromBucket, input.Amount); err != nil {
		return nil, err
	}

	entries := []*domain.Entry{
		uc.newEntry(input.MemberID, domain.CategoryTransferOut, input.FromBucket, input.Amount.Neg(), input.Note, nil, user.ID),
		uc.newEntry(input.MemberID, domain.CategoryTransferIn, input.ToBucket, input.Amount, input.Note, nil, user.ID),
	}

	if err := uc.commit(ctx, entries...); err != nil {
		return nil, err
	}

	return entries, nil
}

// SpendInput represents input for a spend-from-bucket operation.
type SpendInput struct {
	MemberID string
	Source   domain.Bucket
	Note     string
	Amount   decimal.Decimal
}

// Spend records money leaving the household. From cash it is a plain
// withdrawal. From a non-cash source three entries commit together — source
// decreases, cash is credited and immediately debited — so cash ends
// unchanged but the ledger preserves what was liquidated and at what value,
// without ever exposing a transient state where the liquidated funds sit in
// cash.
func (uc *TransferUseCase) Spend(ctx context.Context, input SpendInput) ([]*domain.Entry, error) {
	user, err := mutatingUser(ctx)
	if err != nil {
		return nil, err
	}

	if !spendableBuckets[input.Source] {
		return nil, fmt.Errorf("%w: cannot spend directly from %s", domain.ErrInvalidCombination, input.Source)
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if _, err := uc.memberRepo.GetByID(ctx, input.MemberID); err != nil {
		return nil, err
	}

	release := uc.locker.Acquire(input.MemberID)
	defer release()

	if err := uc.checkBalance(ctx, input.MemberID, input.Source, input.Amount); err != nil {
		return nil, err
	}

	var entries []*domain.Entry
	if input.Source == domain.BucketCash {
		entries = []*domain.Entry{
			uc.newEntry(input.MemberID, domain.CategoryWithdrawal, domain.BucketCash, input.Amount.Neg(), input.Note, nil, user.ID),
		}
	} else {
		entries = []*domain.Entry{
			uc.newEntry(input.MemberID, domain.CategoryTransferOut, input.Source, input.Amount.Neg(), input.Note, nil, user.ID),
			uc.newEntry(input.MemberID, domain.CategoryTransferIn, domain.BucketCash, input.Amount, input.Note, nil, user.ID),
			uc.newEntry(input.MemberID, domain.CategoryWithdrawal, domain.BucketCash, input.Amount.Neg(), input.Note, nil, user.ID),
		}
	}

	if err := uc.commit(ctx, entries...); err != nil {
		return nil, err
	}

	return entries, nil
}

// checkBalance fails with ErrInsufficientBalance when amount exceeds the
// bucket's current derived balance. Must be called under the member's lock.
func (uc *TransferUseCase) checkBalance(ctx context.Context, memberID string, bucket domain.Bucket, amount decimal.Decimal) error {
	balance, err := uc.entryRepo.GetBalance(ctx, memberID, bucket)
	if err != nil {
		return err
	}

	if amount.GreaterThan(balance) {
		return fmt.Errorf("%w: %s has %s in %s, requested %s",
			domain.ErrInsufficientBalance, memberID, balance.StringFixed(2), bucket, amount.StringFixed(2))
	}

	return nil
}

// newEntry builds an entry with the operation timestamp and author.
func (uc *TransferUseCase) newEntry(
	memberID string,
	category domain.Category,
	bucket domain.Bucket,
	amount decimal.Decimal,
	note string,
	metadata map[string]any,
	createdBy string,
) *domain.Entry {
	return &domain.Entry{
		ID:        uc.idGen.Generate(),
		MemberID:  memberID,
		Category:  category,
		Bucket:    bucket,
		Amount:    amount,
		Note:      note,
		Metadata:  metadata,
		CreatedBy: createdBy,
		CreatedAt: uc.clock.Now(),
	}
}

// commit validates every entry, then appends the whole batch atomically.
// No entry is written if any validation fails.
func (uc *TransferUseCase) commit(ctx context.Context, entries ...*domain.Entry) error {
	return uc.commitWith(ctx, nil, entries...)
}

// commitWith is commit plus an extra write (lot row, position upsert) that
// must land in the same transaction as the entry batch. Lifecycle components
// built on the transfer engine use it to keep their side tables and the
// ledger atomic together.
func (uc *TransferUseCase) commitWith(ctx context.Context, extra func(ctx context.Context, tx Transaction) error, entries ...*domain.Entry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.entryRepo.AppendBatch(txCtx, tx, entries); err != nil {
		return err
	}

	if extra != nil {
		if err := extra(txCtx, tx); err != nil {
			return err
		}
	}

	return tx.Commit(txCtx)
}
