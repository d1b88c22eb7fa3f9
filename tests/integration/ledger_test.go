package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
	"github.com/melodykoh/the-mini-mint/tests/testutil"
)

func TestLedgerRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	ctx := testutil.ParentContext()
	testDB.TruncateAll(context.Background())

	stack := newLedgerStack(testDB)
	member := testDB.CreateTestMember(context.Background(), "Ada")

	_, err := stack.Transfers.Deposit(ctx, usecase.DepositInput{
		MemberID: member.ID,
		Amount:   mustDecimal(t, "100"),
		Note:     "birthday money",
	})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	_, err = stack.Transfers.Transfer(ctx, usecase.TransferInput{
		MemberID:   member.ID,
		FromBucket: domain.BucketCash,
		ToBucket:   domain.BucketSavings,
		Amount:     mustDecimal(t, "40"),
	})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	_, err = stack.Transfers.Withdraw(ctx, usecase.WithdrawInput{
		MemberID: member.ID,
		Amount:   mustDecimal(t, "25"),
	})
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	balances, err := stack.Balances.GetBalances(ctx, member.ID)
	if err != nil {
		t.Fatalf("get balances failed: %v", err)
	}

	if !balances.Cash.Equal(mustDecimal(t, "35")) {
		t.Errorf("expected cash 35, got %s", balances.Cash)
	}
	if !balances.Savings.Equal(mustDecimal(t, "40")) {
		t.Errorf("expected savings 40, got %s", balances.Savings)
	}
}

func TestLedgerRejectsOverdraft(t *testing.T) {
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

	_, err := stack.Transfers.Withdraw(ctx, usecase.WithdrawInput{
		MemberID: member.ID,
		Amount:   mustDecimal(t, "50.01"),
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// The failed withdrawal must leave no trace in the ledger.
	entries, err := stack.Entries.ListByMember(context.Background(), member.ID, 10, 0)
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the deposit entry, got %d entries", len(entries))
	}
}

func TestLedgerSpendFromSavingsAppendsThreeEntries(t *testing.T) {
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
		Amount:   mustDecimal(t, "100"),
	}); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := stack.Transfers.Transfer(ctx, usecase.TransferInput{
		MemberID:   member.ID,
		FromBucket: domain.BucketCash,
		ToBucket:   domain.BucketSavings,
		Amount:     mustDecimal(t, "60"),
	}); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	entries, err := stack.Transfers.Spend(ctx, usecase.SpendInput{
		MemberID: member.ID,
		Source:   domain.BucketSavings,
		Amount:   mustDecimal(t, "20"),
		Note:     "lego set",
	})
	if err != nil {
		t.Fatalf("spend failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries for non-cash spend, got %d", len(entries))
	}

	balances, err := stack.Balances.GetBalances(ctx, member.ID)
	if err != nil {
		t.Fatalf("get balances failed: %v", err)
	}

	// Cash is credited and debited in the same transaction, so it nets out.
	if !balances.Cash.Equal(mustDecimal(t, "40")) {
		t.Errorf("expected cash 40, got %s", balances.Cash)
	}
	if !balances.Savings.Equal(mustDecimal(t, "40")) {
		t.Errorf("expected savings 40, got %s", balances.Savings)
	}
}

func TestLedgerViewerCannotMutate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	testDB.TruncateAll(context.Background())

	stack := newLedgerStack(testDB)
	member := testDB.CreateTestMember(context.Background(), "Ada")

	_, err := stack.Transfers.Deposit(testutil.ViewerContext(), usecase.DepositInput{
		MemberID: member.ID,
		Amount:   mustDecimal(t, "10"),
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for viewer, got %v", err)
	}
}

func TestLedgerEntriesAreImmutable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	ctx := testutil.ParentContext()
	testDB.TruncateAll(context.Background())

	stack := newLedgerStack(testDB)
	member := testDB.CreateTestMember(context.Background(), "Ada")

	entry, err := stack.Transfers.Deposit(ctx, usecase.DepositInput{
		MemberID: member.ID,
		Amount:   mustDecimal(t, "10"),
	})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	if _, err := testDB.Pool.Exec(context.Background(),
		`UPDATE entries SET amount = 1000000 WHERE id = $1`, entry.ID); err == nil {
		t.Fatal("expected the append-only trigger to reject UPDATE")
	}

	if _, err := testDB.Pool.Exec(context.Background(),
		`DELETE FROM entries WHERE id = $1`, entry.ID); err == nil {
		t.Fatal("expected the append-only trigger to reject DELETE")
	}
}
