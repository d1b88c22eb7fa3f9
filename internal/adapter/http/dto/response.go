package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// MemberResponse represents a member in API responses.
type MemberResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nickname  string    `json:"nickname,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberFromDomain converts a domain member to a response.
func MemberFromDomain(m *domain.Member) *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Nickname:  m.Nickname,
		CreatedAt: m.CreatedAt,
	}
}

// MembersFromDomain converts domain members to responses.
func MembersFromDomain(members []*domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, len(members))
	for i, m := range members {
		result[i] = MemberFromDomain(m)
	}
	return result
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID        string          `json:"id"`
	MemberID  string          `json:"member_id"`
	Category  domain.Category `json:"category"`
	Bucket    domain.Bucket   `json:"bucket"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:        e.ID,
		MemberID:  e.MemberID,
		Category:  e.Category,
		Bucket:    e.Bucket,
		Amount:    e.Amount,
		Note:      e.Note,
		Metadata:  e.Metadata,
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// BalancesResponse holds every bucket balance for a member.
type BalancesResponse struct {
	Cash        decimal.Decimal `json:"cash"`
	Savings     decimal.Decimal `json:"savings"`
	TermDeposit decimal.Decimal `json:"term_deposit"`
	Stock       decimal.Decimal `json:"stock"`
}

// BalancesFromUseCase converts use case balances to a response.
func BalancesFromUseCase(b *usecase.Balances) *BalancesResponse {
	return &BalancesResponse{
		Cash:        b.Cash,
		Savings:     b.Savings,
		TermDeposit: b.TermDeposit,
		Stock:       b.Stock,
	}
}

// PositionResponse represents one stock position in API responses.
type PositionResponse struct {
	Symbol      string          `json:"symbol"`
	Shares      decimal.Decimal `json:"shares"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
	AverageCost decimal.Decimal `json:"average_cost"`
	LatestPrice decimal.Decimal `json:"latest_price,omitempty"`
	MarketValue decimal.Decimal `json:"market_value,omitempty"`
}

// PositionFromDomain converts a domain position to a response.
func PositionFromDomain(p *domain.StockPosition) *PositionResponse {
	return &PositionResponse{
		Symbol:      p.Symbol,
		Shares:      p.Shares,
		CostBasis:   p.CostBasis,
		AverageCost: p.AverageCost().Round(4),
	}
}

// PositionsFromDomain converts domain positions to responses.
func PositionsFromDomain(positions []*domain.StockPosition) []*PositionResponse {
	result := make([]*PositionResponse, len(positions))
	for i, p := range positions {
		result[i] = PositionFromDomain(p)
	}
	return result
}

// PortfolioResponse is a member's full holdings picture.
type PortfolioResponse struct {
	MemberID     string              `json:"member_id"`
	Cash         decimal.Decimal     `json:"cash"`
	Savings      decimal.Decimal     `json:"savings"`
	TermDeposits decimal.Decimal     `json:"term_deposits"`
	Stocks       decimal.Decimal     `json:"stocks"`
	Total        decimal.Decimal     `json:"total"`
	Positions    []*PositionResponse `json:"positions"`
}

// PortfolioFromUseCase converts a use case summary to a response.
func PortfolioFromUseCase(s *usecase.PortfolioSummary) *PortfolioResponse {
	positions := make([]*PositionResponse, len(s.Positions))
	for i, p := range s.Positions {
		positions[i] = &PositionResponse{
			Symbol:      p.Symbol,
			Shares:      p.Shares,
			CostBasis:   p.CostBasis,
			LatestPrice: p.LatestPrice,
			MarketValue: p.MarketValue,
		}
	}
	return &PortfolioResponse{
		MemberID:     s.MemberID,
		Cash:         s.Cash,
		Savings:      s.Savings,
		TermDeposits: s.TermDeposits,
		Stocks:       s.Stocks,
		Total:        s.Total,
		Positions:    positions,
	}
}

// LotResponse represents a term deposit lot in API responses.
type LotResponse struct {
	ID         string          `json:"id"`
	MemberID   string          `json:"member_id"`
	Principal  decimal.Decimal `json:"principal"`
	AnnualRate decimal.Decimal `json:"annual_rate"`
	TermMonths int             `json:"term_months"`
	StartedOn  string          `json:"started_on"`
	MaturesOn  string          `json:"matures_on"`
	Status     string          `json:"status"`
	ClosedAt   *time.Time      `json:"closed_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// LotFromDomain converts a domain lot to a response.
func LotFromDomain(l *domain.DepositLot) *LotResponse {
	return &LotResponse{
		ID:         l.ID,
		MemberID:   l.MemberID,
		Principal:  l.Principal,
		AnnualRate: l.AnnualRate,
		TermMonths: l.TermMonths,
		StartedOn:  l.StartedOn.Format(dateLayout),
		MaturesOn:  l.MaturesOn.Format(dateLayout),
		Status:     string(l.Status),
		ClosedAt:   l.ClosedAt,
		CreatedAt:  l.CreatedAt,
	}
}

// LotsFromDomain converts domain lots to responses.
func LotsFromDomain(lots []*domain.DepositLot) []*LotResponse {
	result := make([]*LotResponse, len(lots))
	for i, l := range lots {
		result[i] = LotFromDomain(l)
	}
	return result
}

// MatureLotResponse reports the payout of a matured lot.
type MatureLotResponse struct {
	Lot      *LotResponse    `json:"lot"`
	Interest decimal.Decimal `json:"interest"`
	Payout   decimal.Decimal `json:"payout"`
}

// MatureLotFromUseCase converts a mature result to a response.
func MatureLotFromUseCase(r *usecase.MatureResult) *MatureLotResponse {
	return &MatureLotResponse{
		Lot:      LotFromDomain(r.Lot),
		Interest: r.Interest,
		Payout:   r.Payout,
	}
}

// BreakLotResponse reports the payout of a broken lot.
type BreakLotResponse struct {
	Lot      *LotResponse    `json:"lot"`
	Interest decimal.Decimal `json:"interest"`
	Penalty  decimal.Decimal `json:"penalty"`
	Payout   decimal.Decimal `json:"payout"`
}

// BreakLotFromUseCase converts a break result to a response.
func BreakLotFromUseCase(r *usecase.BreakResult) *BreakLotResponse {
	return &BreakLotResponse{
		Lot:      LotFromDomain(r.Lot),
		Interest: r.Interest,
		Penalty:  r.Penalty,
		Payout:   r.Payout,
	}
}

// AccrualResponse reports what an interest accrual run did.
type AccrualResponse struct {
	Accrued  bool            `json:"accrued"`
	Days     int             `json:"days"`
	Rate     decimal.Decimal `json:"rate"`
	Balance  decimal.Decimal `json:"balance"`
	Interest decimal.Decimal `json:"interest"`
	Entry    *EntryResponse  `json:"entry,omitempty"`
}

// AccrualFromUseCase converts an accrual result to a response.
func AccrualFromUseCase(r *usecase.AccrualResult) *AccrualResponse {
	resp := &AccrualResponse{
		Accrued:  r.Accrued,
		Days:     r.Days,
		Rate:     r.Rate,
		Balance:  r.Balance,
		Interest: r.Interest,
	}
	if r.Entry != nil {
		resp.Entry = EntryFromDomain(r.Entry)
	}
	return resp
}

// TradeResponse reports the outcome of a buy or sell.
type TradeResponse struct {
	Symbol       string            `json:"symbol"`
	Shares       decimal.Decimal   `json:"shares"`
	Price        decimal.Decimal   `json:"price"`
	Amount       decimal.Decimal   `json:"amount"`
	RealizedGain decimal.Decimal   `json:"realized_gain"`
	Position     *PositionResponse `json:"position,omitempty"`
}

// TradeFromUseCase converts a trade result to a response.
func TradeFromUseCase(r *usecase.TradeResult) *TradeResponse {
	resp := &TradeResponse{
		Symbol:       r.Symbol,
		Shares:       r.Shares,
		Price:        r.Price,
		Amount:       r.Amount,
		RealizedGain: r.RealizedGain,
	}
	if r.PositionOpen && r.Position != nil {
		resp.Position = PositionFromDomain(r.Position)
	}
	return resp
}

// SnapshotResponse reports what a snapshot recording did.
type SnapshotResponse struct {
	Recorded      bool            `json:"recorded"`
	PreviousTotal decimal.Decimal `json:"previous_total"`
	Delta         decimal.Decimal `json:"delta"`
	Amount        decimal.Decimal `json:"amount"`
	Entry         *EntryResponse  `json:"entry,omitempty"`
}

// SnapshotFromUseCase converts a snapshot result to a response.
func SnapshotFromUseCase(r *usecase.SnapshotResult) *SnapshotResponse {
	resp := &SnapshotResponse{
		Recorded:      r.Recorded,
		PreviousTotal: r.PreviousTotal,
		Delta:         r.Delta,
		Amount:        r.Amount,
	}
	if r.Entry != nil {
		resp.Entry = EntryFromDomain(r.Entry)
	}
	return resp
}

// PriceResponse represents one closing price in API responses.
type PriceResponse struct {
	Symbol    string          `json:"symbol"`
	QuoteDate string          `json:"quote_date"`
	Close     decimal.Decimal `json:"close"`
}

// PriceFromDomain converts a domain price point to a response.
func PriceFromDomain(p *domain.PricePoint) *PriceResponse {
	return &PriceResponse{
		Symbol:    p.Symbol,
		QuoteDate: p.QuoteDate.Format(dateLayout),
		Close:     p.Close,
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ListMembersResponse wraps a member listing.
type ListMembersResponse struct {
	Members []*MemberResponse `json:"members"`
	Total   int64             `json:"total"`
}

// ListEntriesResponse wraps an entry listing.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
