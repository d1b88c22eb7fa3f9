package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// seedSavings funds the savings bucket through the real operations at the
// fixture clock's current date, anchoring the accrual baseline there.
func seedSavings(t *testing.T, f *fixture, amount string) {
	t.Helper()
	f.deposit(t, amount)
	_, err := f.transfers.Transfer(parentContext(), usecase.TransferInput{
		MemberID:   testMemberID,
		FromBucket: domain.BucketCash,
		ToBucket:   domain.BucketSavings,
		Amount:     dec(t, amount),
	})
	require.NoError(t, err)
}

func TestInterestUseCase_Accrue(t *testing.T) {
	newInterest := func(f *fixture) *usecase.InterestUseCase {
		return usecase.NewInterestUseCase(f.transfers, f.members, f.entries, f.settings)
	}

	t.Run("credits simple interest for elapsed days", func(t *testing.T) {
		f := newFixture(t)
		f.settings.SetValue(domain.SettingSavingsAPY, "0.042")
		f.clock.Set(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
		seedSavings(t, f, "100")

		f.clock.Set(time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC))

		result, err := newInterest(f).Accrue(parentContext(), testMemberID)
		require.NoError(t, err)

		assert.True(t, result.Accrued)
		assert.Equal(t, 30, result.Days)
		// 100 * 0.042 / 365 * 30 = 0.3452... rounds to 0.35
		assert.True(t, result.Interest.Equal(dec(t, "0.35")), "interest = %s", result.Interest)
		assert.True(t, f.balance(t, domain.BucketSavings).Equal(dec(t, "100.35")))

		require.NotNil(t, result.Entry)
		assert.Equal(t, domain.CategoryInterest, result.Entry.Category)
		assert.Equal(t, domain.BucketSavings, result.Entry.Bucket)
		assert.Equal(t, 30, result.Entry.Metadata[domain.MetaDays])
		assert.Equal(t, "0.042", result.Entry.Metadata[domain.MetaRate])
	})

	t.Run("idempotent per calendar day", func(t *testing.T) {
		f := newFixture(t)
		f.settings.SetValue(domain.SettingSavingsAPY, "0.042")
		f.clock.Set(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
		seedSavings(t, f, "100")

		f.clock.Set(time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC))
		interest := newInterest(f)

		first, err := interest.Accrue(parentContext(), testMemberID)
		require.NoError(t, err)
		require.True(t, first.Accrued)

		// Same day again, even at a later hour: no-op, not an error.
		f.clock.Set(time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC))
		second, err := interest.Accrue(parentContext(), testMemberID)
		require.NoError(t, err)
		assert.False(t, second.Accrued)
		assert.Equal(t, 0, second.Days)

		assert.True(t, f.balance(t, domain.BucketSavings).Equal(dec(t, "100.35")))
	})

	t.Run("next day accrues one day on the new balance", func(t *testing.T) {
		f := newFixture(t)
		f.settings.SetValue(domain.SettingSavingsAPY, "0.042")
		f.clock.Set(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
		seedSavings(t, f, "100")

		f.clock.Set(time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC))
		interest := newInterest(f)
		_, err := interest.Accrue(parentContext(), testMemberID)
		require.NoError(t, err)

		f.clock.Set(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
		result, err := interest.Accrue(parentContext(), testMemberID)
		require.NoError(t, err)

		assert.True(t, result.Accrued)
		assert.Equal(t, 1, result.Days)
		assert.True(t, result.Balance.Equal(dec(t, "100.35")))
	})

	t.Run("no savings history is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.settings.SetValue(domain.SettingSavingsAPY, "0.042")

		result, err := newInterest(f).Accrue(parentContext(), testMemberID)
		require.NoError(t, err)
		assert.False(t, result.Accrued)
		assert.Equal(t, 0, f.entries.Count())
	})

	t.Run("interest rounding to zero is skipped", func(t *testing.T) {
		f := newFixture(t)
		f.settings.SetValue(domain.SettingSavingsAPY, "0.042")
		f.clock.Set(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
		seedSavings(t, f, "0.01")

		f.clock.Set(time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC))

		result, err := newInterest(f).Accrue(parentContext(), testMemberID)
		require.NoError(t, err)
		assert.False(t, result.Accrued)
		assert.Equal(t, 1, result.Days)
		assert.True(t, f.balance(t, domain.BucketSavings).Equal(dec(t, "0.01")))
	})

	t.Run("rate changes apply from the next accrual", func(t *testing.T) {
		f := newFixture(t)
		f.settings.SetValue(domain.SettingSavingsAPY, "0.042")
		f.clock.Set(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
		seedSavings(t, f, "365")

		f.settings.SetValue(domain.SettingSavingsAPY, "0.10")
		f.clock.Set(time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC))

		result, err := newInterest(f).Accrue(parentContext(), testMemberID)
		require.NoError(t, err)
		// 365 * 0.10 / 365 * 1 = 0.10 at the new rate.
		assert.True(t, result.Interest.Equal(dec(t, "0.10")))
		assert.True(t, result.Rate.Equal(dec(t, "0.10")))
	})

	t.Run("viewer cannot accrue", func(t *testing.T) {
		f := newFixture(t)
		f.settings.SetValue(domain.SettingSavingsAPY, "0.042")

		_, err := newInterest(f).Accrue(viewerContext(), testMemberID)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
