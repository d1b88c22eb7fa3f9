package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
	"github.com/melodykoh/the-mini-mint/internal/usecase/mocks"
)

const testMemberID = "member-ada"

type fixture struct {
	txManager *mocks.MockTransactionManager
	members   *mocks.MockMemberRepository
	entries   *mocks.MockEntryRepository
	lots      *mocks.MockLotRepository
	positions *mocks.MockPositionRepository
	prices    *mocks.MockPriceRepository
	settings  *mocks.MockSettingsRepository
	users     *mocks.MockUserRepository
	clock     *mocks.MockClock
	locker    *usecase.MemberLocker
	transfers *usecase.TransferUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		txManager: mocks.NewMockTransactionManager(),
		members:   mocks.NewMockMemberRepository(),
		entries:   mocks.NewMockEntryRepository(),
		lots:      mocks.NewMockLotRepository(),
		positions: mocks.NewMockPositionRepository(),
		prices:    mocks.NewMockPriceRepository(),
		settings:  mocks.NewMockSettingsRepository(),
		users:     mocks.NewMockUserRepository(),
		clock:     mocks.NewMockClock(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)),
		locker:    usecase.NewMemberLocker(),
	}
	f.transfers = usecase.NewTransferUseCase(
		f.txManager, f.members, f.entries, f.locker, mocks.NewMockIDGenerator(), f.clock,
	)
	f.members.Add(&domain.Member{ID: testMemberID, Name: "Ada"})

	return f
}

func parentContext() context.Context {
	return domain.ContextWithUser(context.Background(), &domain.User{
		ID:   "user-parent",
		Role: domain.RoleParent,
	})
}

func viewerContext() context.Context {
	return domain.ContextWithUser(context.Background(), &domain.User{
		ID:   "user-viewer",
		Role: domain.RoleViewer,
	})
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// deposit is a test helper that seeds cash through the real operation.
func (f *fixture) deposit(t *testing.T, amount string) {
	t.Helper()
	_, err := f.transfers.Deposit(parentContext(), usecase.DepositInput{
		MemberID: testMemberID,
		Amount:   decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, bucket domain.Bucket) decimal.Decimal {
	t.Helper()
	balance, err := f.entries.GetBalance(context.Background(), testMemberID, bucket)
	require.NoError(t, err)
	return balance
}

func TestTransferUseCase_Deposit(t *testing.T) {
	t.Run("successive deposits accumulate", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.transfers.Deposit(parentContext(), usecase.DepositInput{
			MemberID: testMemberID,
			Amount:   dec(t, "50"),
			Note:     "allowance",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryDeposit, first.Category)
		assert.Equal(t, domain.BucketCash, first.Bucket)
		assert.Equal(t, "user-parent", first.CreatedBy)

		_, err = f.transfers.Deposit(parentContext(), usecase.DepositInput{
			MemberID: testMemberID,
			Amount:   dec(t, "30"),
		})
		require.NoError(t, err)

		assert.True(t, f.balance(t, domain.BucketCash).Equal(dec(t, "80.00")))
		assert.Equal(t, 2, f.entries.Count())
	})

	t.Run("rejects invalid amounts without writing", func(t *testing.T) {
		tests := []struct {
			name    string
			amount  string
			wantErr error
		}{
			{"zero", "0", domain.ErrInvalidAmount},
			{"negative", "-5", domain.ErrInvalidAmount},
			{"over cap", "1000000.01", domain.ErrAmountTooLarge},
			{"sub-cent precision", "1.005", domain.ErrInvalidPrecision},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)

				_, err := f.transfers.Deposit(parentContext(), usecase.DepositInput{
					MemberID: testMemberID,
					Amount:   dec(t, tt.amount),
				})
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, f.entries.Count())
			})
		}
	})

	t.Run("unknown member", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.transfers.Deposit(parentContext(), usecase.DepositInput{
			MemberID: "member-nobody",
			Amount:   dec(t, "10"),
		})
		require.ErrorIs(t, err, domain.ErrMemberNotFound)
	})

	t.Run("viewer cannot move money", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.transfers.Deposit(viewerContext(), usecase.DepositInput{
			MemberID: testMemberID,
			Amount:   dec(t, "10"),
		})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, 0, f.entries.Count())
	})

	t.Run("missing user", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.transfers.Deposit(context.Background(), usecase.DepositInput{
			MemberID: testMemberID,
			Amount:   dec(t, "10"),
		})
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestTransferUseCase_Withdraw(t *testing.T) {
	t.Run("appends a negative cash entry", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "80")

		entry, err := f.transfers.Withdraw(parentContext(), usecase.WithdrawInput{
			MemberID: testMemberID,
			Amount:   dec(t, "25.50"),
			Note:     "lego set",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryWithdrawal, entry.Category)
		assert.True(t, entry.Amount.Equal(dec(t, "-25.50")))
		assert.True(t, f.balance(t, domain.BucketCash).Equal(dec(t, "54.50")))
	})

	t.Run("insufficient balance leaves the ledger untouched", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "50")
		f.deposit(t, "30")

		_, err := f.transfers.Withdraw(parentContext(), usecase.WithdrawInput{
			MemberID: testMemberID,
			Amount:   dec(t, "100"),
		})
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		assert.True(t, f.balance(t, domain.BucketCash).Equal(dec(t, "80.00")))
		assert.Equal(t, 2, f.entries.Count())
	})

	t.Run("withdrawing the exact balance succeeds", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "80")

		_, err := f.transfers.Withdraw(parentContext(), usecase.WithdrawInput{
			MemberID: testMemberID,
			Amount:   dec(t, "80"),
		})
		require.NoError(t, err)
		assert.True(t, f.balance(t, domain.BucketCash).IsZero())
	})
}

func TestTransferUseCase_Transfer(t *testing.T) {
	t.Run("moves cash into savings as two entries", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "100")

		entries, err := f.transfers.Transfer(parentContext(), usecase.TransferInput{
			MemberID:   testMemberID,
			FromBucket: domain.BucketCash,
			ToBucket:   domain.BucketSavings,
			Amount:     dec(t, "40"),
		})
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, domain.CategoryTransferOut, entries[0].Category)
		assert.True(t, entries[0].Amount.Equal(dec(t, "-40")))
		assert.Equal(t, domain.CategoryTransferIn, entries[1].Category)
		assert.True(t, entries[1].Amount.Equal(dec(t, "40")))

		assert.True(t, f.balance(t, domain.BucketCash).Equal(dec(t, "60")))
		assert.True(t, f.balance(t, domain.BucketSavings).Equal(dec(t, "40")))
	})

	t.Run("redeem moves savings back to cash", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "100")

		_, err := f.transfers.Transfer(parentContext(), usecase.TransferInput{
			MemberID:   testMemberID,
			FromBucket: domain.BucketCash,
			ToBucket:   domain.BucketSavings,
			Amount:     dec(t, "40"),
		})
		require.NoError(t, err)

		_, err = f.transfers.Transfer(parentContext(), usecase.TransferInput{
			MemberID:   testMemberID,
			FromBucket: domain.BucketSavings,
			ToBucket:   domain.BucketCash,
			Amount:     dec(t, "15"),
		})
		require.NoError(t, err)

		assert.True(t, f.balance(t, domain.BucketCash).Equal(dec(t, "75")))
		assert.True(t, f.balance(t, domain.BucketSavings).Equal(dec(t, "25")))
	})

	t.Run("same bucket", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "100")

		_, err := f.transfers.Transfer(parentContext(), usecase.TransferInput{
			MemberID:   testMemberID,
			FromBucket: domain.BucketCash,
			ToBucket:   domain.BucketCash,
			Amount:     dec(t, "10"),
		})
		require.ErrorIs(t, err, domain.ErrSameBucket)
	})

	t.Run("term deposit and stock buckets are lifecycle-only", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "100")

		for _, to := range []domain.Bucket{domain.BucketTermDeposit, domain.BucketStock} {
			_, err := f.transfers.Transfer(parentContext(), usecase.TransferInput{
				MemberID:   testMemberID,
				FromBucket: domain.BucketCash,
				ToBucket:   to,
				Amount:     dec(t, "10"),
			})
			require.ErrorIs(t, err, domain.ErrInvalidCombination)
		}
		assert.Equal(t, 1, f.entries.Count())
	})

	t.Run("insufficient source balance writes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "10")

		_, err := f.transfers.Transfer(parentContext(), usecase.TransferInput{
			MemberID:   testMemberID,
			FromBucket: domain.BucketCash,
			ToBucket:   domain.BucketSavings,
			Amount:     dec(t, "10.01"),
		})
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)
		assert.Equal(t, 1, f.entries.Count())
	})
}

func TestTransferUseCase_Spend(t *testing.T) {
	t.Run("from cash is a single withdrawal", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "50")

		entries, err := f.transfers.Spend(parentContext(), usecase.SpendInput{
			MemberID: testMemberID,
			Source:   domain.BucketCash,
			Amount:   dec(t, "12"),
			Note:     "movie ticket",
		})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.CategoryWithdrawal, entries[0].Category)
		assert.True(t, f.balance(t, domain.BucketCash).Equal(dec(t, "38")))
	})

	t.Run("from savings liquidates through cash in one batch", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "100")

		_, err := f.transfers.Transfer(parentContext(), usecase.TransferInput{
			MemberID:   testMemberID,
			FromBucket: domain.BucketCash,
			ToBucket:   domain.BucketSavings,
			Amount:     dec(t, "60"),
		})
		require.NoError(t, err)

		entries, err := f.transfers.Spend(parentContext(), usecase.SpendInput{
			MemberID: testMemberID,
			Source:   domain.BucketSavings,
			Amount:   dec(t, "20"),
		})
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, domain.CategoryTransferOut, entries[0].Category)
		assert.Equal(t, domain.BucketSavings, entries[0].Bucket)
		assert.Equal(t, domain.CategoryTransferIn, entries[1].Category)
		assert.Equal(t, domain.BucketCash, entries[1].Bucket)
		assert.Equal(t, domain.CategoryWithdrawal, entries[2].Category)
		assert.Equal(t, domain.BucketCash, entries[2].Bucket)

		// Cash is credited and debited in the same batch, so it nets out.
		assert.True(t, f.balance(t, domain.BucketCash).Equal(dec(t, "40")))
		assert.True(t, f.balance(t, domain.BucketSavings).Equal(dec(t, "40")))
	})

	t.Run("savings source is checked, not cash", func(t *testing.T) {
		f := newFixture(t)
		f.deposit(t, "100")

		before := f.entries.Count()
		_, err := f.transfers.Spend(parentContext(), usecase.SpendInput{
			MemberID: testMemberID,
			Source:   domain.BucketSavings,
			Amount:   dec(t, "20"),
		})
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)
		assert.Equal(t, before, f.entries.Count())
	})

	t.Run("cannot spend from lifecycle buckets", func(t *testing.T) {
		f := newFixture(t)

		for _, source := range []domain.Bucket{domain.BucketTermDeposit, domain.BucketStock} {
			_, err := f.transfers.Spend(parentContext(), usecase.SpendInput{
				MemberID: testMemberID,
				Source:   source,
				Amount:   dec(t, "5"),
			})
			require.ErrorIs(t, err, domain.ErrInvalidCombination)
		}
	})
}
