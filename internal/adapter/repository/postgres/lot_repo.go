package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// LotRepository implements usecase.LotRepository.
type LotRepository struct {
	pool *pgxpool.Pool
}

// NewLotRepository creates a new LotRepository.
func NewLotRepository(pool *pgxpool.Pool) *LotRepository {
	return &LotRepository{pool: pool}
}

const selectLot = `
	SELECT id, member_id, principal, annual_rate, term_months, started_on, matures_on, status, created_by, created_at, closed_at
	FROM deposit_lots
`

// Create inserts the lot row inside the same transaction as its two opening
// ledger entries.
func (r *LotRepository) Create(ctx context.Context, tx usecase.Transaction, lot *domain.DepositLot) error {
	query := `
		INSERT INTO deposit_lots (id, member_id, principal, annual_rate, term_months, started_on, matures_on, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		lot.ID,
		lot.MemberID,
		decimalToNumeric(lot.Principal),
		decimalToNumeric(lot.AnnualRate),
		lot.TermMonths,
		pgtype.Date{Time: lot.StartedOn, Valid: true},
		pgtype.Date{Time: lot.MaturesOn, Valid: true},
		string(lot.Status),
		lot.CreatedBy,
		timeToPgTimestamptz(lot.CreatedAt),
	)

	return err
}

// GetByID retrieves a lot by ID.
func (r *LotRepository) GetByID(ctx context.Context, id string) (*domain.DepositLot, error) {
	lot, err := scanLot(r.pool.QueryRow(ctx, selectLot+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLotNotFound
	}
	if err != nil {
		return nil, err
	}

	return lot, nil
}

// UpdateStatus transitions a lot out of active inside the payout transaction.
// The WHERE clause only matches active lots, so a lost race surfaces as a
// missing row instead of a double payout.
func (r *LotRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.LotStatus, closedAt time.Time) error {
	query := `
		UPDATE deposit_lots
		SET status = $2, closed_at = $3
		WHERE id = $1 AND status = 'active'
	`

	result, err := tx.(*Tx).PgxTx().Exec(ctx, query, id, string(status), timeToPgTimestamptz(closedAt))
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrLotNotActive
	}

	return nil
}

// ListByMember retrieves a member's lots, newest first.
func (r *LotRepository) ListByMember(ctx context.Context, memberID string) ([]*domain.DepositLot, error) {
	query := selectLot + `
		WHERE member_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []*domain.DepositLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}

	return lots, rows.Err()
}

// SumActivePrincipal sums the principal locked in active lots.
func (r *LotRepository) SumActivePrincipal(ctx context.Context, memberID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(principal), 0)
		FROM deposit_lots
		WHERE member_id = $1 AND status = 'active'
	`

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, memberID).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanLot(row scannable) (*domain.DepositLot, error) {
	var (
		lot        domain.DepositLot
		principal  pgtype.Numeric
		annualRate pgtype.Numeric
		startedOn  pgtype.Date
		maturesOn  pgtype.Date
		status     string
		createdAt  pgtype.Timestamptz
		closedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&lot.ID,
		&lot.MemberID,
		&principal,
		&annualRate,
		&lot.TermMonths,
		&startedOn,
		&maturesOn,
		&status,
		&lot.CreatedBy,
		&createdAt,
		&closedAt,
	)
	if err != nil {
		return nil, err
	}

	lot.Principal = numericToDecimal(principal)
	lot.AnnualRate = numericToDecimal(annualRate)
	lot.StartedOn = startedOn.Time
	lot.MaturesOn = maturesOn.Time
	lot.Status = domain.LotStatus(status)
	lot.CreatedAt = createdAt.Time
	if closedAt.Valid {
		lot.ClosedAt = &closedAt.Time
	}

	return &lot, nil
}
