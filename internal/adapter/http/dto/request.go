package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// dateLayout is the wire format for calendar dates (quote dates, lot dates).
const dateLayout = "2006-01-02"

// Amounts travel as JSON strings so clients never round-trip money through
// floats.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", domain.ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, s)
	}
	return d, nil
}

// CreateMemberRequest represents a request to create a member.
type CreateMemberRequest struct {
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateMemberRequest) ToUseCaseInput() usecase.CreateMemberInput {
	return usecase.CreateMemberInput{
		Name:     r.Name,
		Nickname: r.Nickname,
	}
}

// DepositRequest represents a request to deposit cash.
type DepositRequest struct {
	Amount   string         `json:"amount"`
	Note     string         `json:"note,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput(memberID string) (usecase.DepositInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.DepositInput{}, err
	}
	return usecase.DepositInput{
		MemberID: memberID,
		Amount:   amount,
		Note:     r.Note,
		Metadata: r.Metadata,
	}, nil
}

// WithdrawRequest represents a request to withdraw cash.
type WithdrawRequest struct {
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawRequest) ToUseCaseInput(memberID string) (usecase.WithdrawInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.WithdrawInput{}, err
	}
	return usecase.WithdrawInput{
		MemberID: memberID,
		Amount:   amount,
		Note:     r.Note,
	}, nil
}

// TransferRequest represents a request to move money between buckets.
type TransferRequest struct {
	FromBucket string `json:"from_bucket"`
	ToBucket   string `json:"to_bucket"`
	Amount     string `json:"amount"`
	Note       string `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput(memberID string) (usecase.TransferInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.TransferInput{}, err
	}
	return usecase.TransferInput{
		MemberID:   memberID,
		FromBucket: domain.Bucket(r.FromBucket),
		ToBucket:   domain.Bucket(r.ToBucket),
		Amount:     amount,
		Note:       r.Note,
	}, nil
}

// SpendRequest represents a request to spend from a bucket.
type SpendRequest struct {
	Source string `json:"source"`
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SpendRequest) ToUseCaseInput(memberID string) (usecase.SpendInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.SpendInput{}, err
	}
	source := domain.BucketCash
	if r.Source != "" {
		source = domain.Bucket(r.Source)
	}
	return usecase.SpendInput{
		MemberID: memberID,
		Source:   source,
		Amount:   amount,
		Note:     r.Note,
	}, nil
}

// CreateLotRequest represents a request to open a term deposit.
type CreateLotRequest struct {
	Principal  string `json:"principal"`
	TermMonths int    `json:"term_months"`
	Note       string `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLotRequest) ToUseCaseInput(memberID string) (usecase.CreateLotInput, error) {
	principal, err := parseAmount(r.Principal)
	if err != nil {
		return usecase.CreateLotInput{}, err
	}
	return usecase.CreateLotInput{
		MemberID:   memberID,
		Principal:  principal,
		TermMonths: r.TermMonths,
		Note:       r.Note,
	}, nil
}

// BuyStockRequest represents a request to buy stock by dollar amount.
type BuyStockRequest struct {
	Symbol  string `json:"symbol"`
	Dollars string `json:"dollars"`
	Note    string `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *BuyStockRequest) ToUseCaseInput(memberID string) (usecase.BuyInput, error) {
	dollars, err := parseAmount(r.Dollars)
	if err != nil {
		return usecase.BuyInput{}, err
	}
	return usecase.BuyInput{
		MemberID: memberID,
		Symbol:   r.Symbol,
		Dollars:  dollars,
		Note:     r.Note,
	}, nil
}

// SellStockRequest represents a request to sell stock by dollar amount.
// Omitting dollars sells the entire position.
type SellStockRequest struct {
	Symbol  string `json:"symbol"`
	Dollars string `json:"dollars,omitempty"`
	Note    string `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *SellStockRequest) ToUseCaseInput(memberID string) (usecase.SellInput, error) {
	dollars := decimal.Zero
	if r.Dollars != "" {
		var err error
		dollars, err = parseAmount(r.Dollars)
		if err != nil {
			return usecase.SellInput{}, err
		}
	}
	return usecase.SellInput{
		MemberID: memberID,
		Symbol:   r.Symbol,
		Dollars:  dollars,
		Note:     r.Note,
	}, nil
}

// SnapshotRequest represents one externally reported counter total.
type SnapshotRequest struct {
	Source string `json:"source"`
	Total  string `json:"total"`
}

// ToUseCaseInput converts to use case input.
func (r *SnapshotRequest) ToUseCaseInput(memberID string) (usecase.RecordSnapshotInput, error) {
	total, err := parseAmount(r.Total)
	if err != nil {
		return usecase.RecordSnapshotInput{}, err
	}
	return usecase.RecordSnapshotInput{
		MemberID:  memberID,
		SourceTag: r.Source,
		Total:     total,
	}, nil
}

// SetSettingRequest represents a request to change one setting value.
type SetSettingRequest struct {
	Value string `json:"value"`
}

// ParseValue parses the setting value.
func (r *SetSettingRequest) ParseValue() (decimal.Decimal, error) {
	return parseAmount(r.Value)
}

// RecordPriceRequest represents one ingested closing price.
type RecordPriceRequest struct {
	Symbol    string `json:"symbol"`
	QuoteDate string `json:"quote_date"`
	Close     string `json:"close"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPriceRequest) ToUseCaseInput() (usecase.RecordPriceInput, error) {
	close, err := parseAmount(r.Close)
	if err != nil {
		return usecase.RecordPriceInput{}, err
	}
	quoteDate, err := time.Parse(dateLayout, r.QuoteDate)
	if err != nil {
		return usecase.RecordPriceInput{}, fmt.Errorf("invalid quote_date %q: expected YYYY-MM-DD", r.QuoteDate)
	}
	return usecase.RecordPriceInput{
		Symbol:    r.Symbol,
		QuoteDate: quoteDate,
		Close:     close,
	}, nil
}

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
		Role:     domain.Role(r.Role),
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
