package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
	"github.com/melodykoh/the-mini-mint/tests/testutil"
)

func TestLotLifecycleToMaturity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	ctx := testutil.ParentContext()
	testDB.TruncateAll(context.Background())
	testDB.SetSetting(context.Background(), domain.SettingTermRate3M, mustDecimal(t, "0.048"))

	stack := newLedgerStack(testDB)
	member := testDB.CreateTestMember(context.Background(), "Ada")

	if _, err := stack.Transfers.Deposit(ctx, usecase.DepositInput{
		MemberID: member.ID,
		Amount:   mustDecimal(t, "150"),
	}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	lot, err := stack.Lots.CreateLot(ctx, usecase.CreateLotInput{
		MemberID:   member.ID,
		Principal:  mustDecimal(t, "100"),
		TermMonths: 3,
	})
	if err != nil {
		t.Fatalf("create lot failed: %v", err)
	}
	if !lot.AnnualRate.Equal(mustDecimal(t, "0.048")) {
		t.Errorf("expected frozen rate 0.048, got %s", lot.AnnualRate)
	}

	balances, err := stack.Balances.GetBalances(ctx, member.ID)
	if err != nil {
		t.Fatalf("get balances failed: %v", err)
	}
	if !balances.Cash.Equal(mustDecimal(t, "50")) {
		t.Errorf("expected cash 50 after locking principal, got %s", balances.Cash)
	}
	if !balances.TermDeposit.Equal(mustDecimal(t, "100")) {
		t.Errorf("expected term deposit 100, got %s", balances.TermDeposit)
	}

	// Maturing before the maturity date must be rejected.
	if _, err := stack.Lots.MatureLot(ctx, lot.ID); !errors.Is(err, domain.ErrLotNotMatured) {
		t.Fatalf("expected ErrLotNotMatured, got %v", err)
	}

	// 2026-03-15 plus three months is 2026-06-15, 92 days held.
	stack.Clock.Advance(92 * 24 * time.Hour)

	result, err := stack.Lots.MatureLot(ctx, lot.ID)
	if err != nil {
		t.Fatalf("mature lot failed: %v", err)
	}
	if !result.Interest.Equal(mustDecimal(t, "1.21")) {
		t.Errorf("expected interest 1.21, got %s", result.Interest)
	}
	if !result.Payout.Equal(mustDecimal(t, "101.21")) {
		t.Errorf("expected payout 101.21, got %s", result.Payout)
	}
	if result.Lot.Status != domain.LotStatusMatured {
		t.Errorf("expected status matured, got %s", result.Lot.Status)
	}

	balances, err = stack.Balances.GetBalances(ctx, member.ID)
	if err != nil {
		t.Fatalf("get balances failed: %v", err)
	}
	if !balances.Cash.Equal(mustDecimal(t, "151.21")) {
		t.Errorf("expected cash 151.21 after payout, got %s", balances.Cash)
	}
	if !balances.TermDeposit.IsZero() {
		t.Errorf("expected term deposit 0, got %s", balances.TermDeposit)
	}

	// A closed lot cannot be matured or broken again.
	if _, err := stack.Lots.MatureLot(ctx, lot.ID); !errors.Is(err, domain.ErrLotNotActive) {
		t.Errorf("expected ErrLotNotActive on repeat mature, got %v", err)
	}
	if _, err := stack.Lots.BreakLot(ctx, lot.ID); !errors.Is(err, domain.ErrLotNotActive) {
		t.Errorf("expected ErrLotNotActive on break after mature, got %v", err)
	}
}

func TestLotEarlyBreakAppliesPenalty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	ctx := testutil.ParentContext()
	testDB.TruncateAll(context.Background())
	testDB.SetSetting(context.Background(), domain.SettingTermRate3M, mustDecimal(t, "0.048"))

	stack := newLedgerStack(testDB)
	member := testDB.CreateTestMember(context.Background(), "Ada")

	if _, err := stack.Transfers.Deposit(ctx, usecase.DepositInput{
		MemberID: member.ID,
		Amount:   mustDecimal(t, "100"),
	}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	lot, err := stack.Lots.CreateLot(ctx, usecase.CreateLotInput{
		MemberID:   member.ID,
		Principal:  mustDecimal(t, "100"),
		TermMonths: 3,
	})
	if err != nil {
		t.Fatalf("create lot failed: %v", err)
	}

	stack.Clock.Advance(45 * 24 * time.Hour)

	result, err := stack.Lots.BreakLot(ctx, lot.ID)
	if err != nil {
		t.Fatalf("break lot failed: %v", err)
	}
	if !result.Interest.Equal(mustDecimal(t, "0.59")) {
		t.Errorf("expected interest 0.59, got %s", result.Interest)
	}
	if !result.Penalty.Equal(mustDecimal(t, "0.39")) {
		t.Errorf("expected penalty 0.39, got %s", result.Penalty)
	}
	if !result.Payout.Equal(mustDecimal(t, "100.20")) {
		t.Errorf("expected payout 100.20, got %s", result.Payout)
	}
	if result.Lot.Status != domain.LotStatusBroken {
		t.Errorf("expected status broken, got %s", result.Lot.Status)
	}

	balances, err := stack.Balances.GetBalances(ctx, member.ID)
	if err != nil {
		t.Fatalf("get balances failed: %v", err)
	}
	if !balances.Cash.Equal(mustDecimal(t, "100.20")) {
		t.Errorf("expected cash 100.20, got %s", balances.Cash)
	}
}

func TestLotCreateRequiresCash(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	ctx := testutil.ParentContext()
	testDB.TruncateAll(context.Background())

	stack := newLedgerStack(testDB)
	member := testDB.CreateTestMember(context.Background(), "Ada")

	if _, err := stack.Transfers.Deposit(ctx, usecase.DepositInput{
		MemberID: member.ID,
		Amount:   mustDecimal(t, "50"),
	}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	_, err := stack.Lots.CreateLot(ctx, usecase.CreateLotInput{
		MemberID:   member.ID,
		Principal:  mustDecimal(t, "100"),
		TermMonths: 3,
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}
