package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func validEntry(t *testing.T) *Entry {
	t.Helper()
	return &Entry{
		ID:        "e1",
		MemberID:  "mem-1",
		Category:  CategoryDeposit,
		Bucket:    BucketCash,
		Amount:    mustDecimal(t, "50.00"),
		CreatedBy: "user-1",
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Entry)
		wantErr error
	}{
		{
			name:   "valid deposit",
			mutate: func(e *Entry) {},
		},
		{
			name:    "interest may not touch cash",
			mutate:  func(e *Entry) { e.Category = CategoryInterest; e.Bucket = BucketCash },
			wantErr: ErrInvalidCombination,
		},
		{
			name:    "deposit may not touch stock",
			mutate:  func(e *Entry) { e.Bucket = BucketStock },
			wantErr: ErrInvalidCombination,
		},
		{
			name:    "unknown category",
			mutate:  func(e *Entry) { e.Category = Category("refund") },
			wantErr: ErrInvalidCombination,
		},
		{
			name:    "zero amount",
			mutate:  func(e *Entry) { e.Amount = decimal.Zero },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "three decimal places",
			mutate:  func(e *Entry) { e.Amount = decimal.RequireFromString("10.005") },
			wantErr: ErrInvalidPrecision,
		},
		{
			name:    "missing author",
			mutate:  func(e *Entry) { e.CreatedBy = "" },
			wantErr: ErrUnauthorized,
		},
		{
			name:    "missing member",
			mutate:  func(e *Entry) { e.MemberID = "" },
			wantErr: ErrMemberNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry(t)
			tt.mutate(e)

			err := e.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidCombinations_NegativeAmountsAllowed(t *testing.T) {
	e := validEntry(t)
	e.Category = CategoryWithdrawal
	e.Amount = mustDecimal(t, "-25.50")

	if err := e.Validate(); err != nil {
		t.Errorf("negative withdrawal entry should validate: %v", err)
	}
}

func TestBucketAndCategoryValidity(t *testing.T) {
	for _, b := range AllBuckets() {
		if !b.IsValid() {
			t.Errorf("bucket %q should be valid", b)
		}
	}
	if Bucket("crypto").IsValid() {
		t.Error("unknown bucket reported valid")
	}
	if !CategorySell.IsValid() {
		t.Error("sell category should be valid")
	}
	if Category("refund").IsValid() {
		t.Error("unknown category reported valid")
	}
}
