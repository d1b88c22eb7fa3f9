package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// PositionRepository implements usecase.PositionRepository.
type PositionRepository struct {
	pool *pgxpool.Pool
}

// NewPositionRepository creates a new PositionRepository.
func NewPositionRepository(pool *pgxpool.Pool) *PositionRepository {
	return &PositionRepository{pool: pool}
}

const selectPosition = `
	SELECT id, member_id, symbol, shares, cost_basis, created_at, updated_at
	FROM stock_positions
`

// GetByMemberAndSymbol retrieves a position, nil when none exists.
func (r *PositionRepository) GetByMemberAndSymbol(ctx context.Context, memberID, symbol string) (*domain.StockPosition, error) {
	position, err := scanPosition(r.pool.QueryRow(ctx, selectPosition+` WHERE member_id = $1 AND symbol = $2`, memberID, symbol))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return position, nil
}

// CountByMember counts a member's open positions.
func (r *PositionRepository) CountByMember(ctx context.Context, memberID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stock_positions WHERE member_id = $1`, memberID).Scan(&count)

	return count, err
}

// Upsert writes a position inside the trade's transaction. (member, symbol)
// is unique, so repeat buys update shares and cost basis in place.
func (r *PositionRepository) Upsert(ctx context.Context, tx usecase.Transaction, position *domain.StockPosition) error {
	query := `
		INSERT INTO stock_positions (id, member_id, symbol, shares, cost_basis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (member_id, symbol) DO UPDATE
		SET shares = EXCLUDED.shares, cost_basis = EXCLUDED.cost_basis, updated_at = EXCLUDED.updated_at
	`

	_, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		position.ID,
		position.MemberID,
		position.Symbol,
		decimalToNumeric(position.Shares),
		decimalToNumeric(position.CostBasis),
		timeToPgTimestamptz(position.CreatedAt),
		timeToPgTimestamptz(position.UpdatedAt),
	)

	return err
}

// Delete removes a fully liquidated position inside the trade's transaction.
func (r *PositionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx, `DELETE FROM stock_positions WHERE id = $1`, id)

	return err
}

// ListByMember retrieves a member's positions ordered by symbol.
func (r *PositionRepository) ListByMember(ctx context.Context, memberID string) ([]*domain.StockPosition, error) {
	query := selectPosition + `
		WHERE member_id = $1
		ORDER BY symbol ASC
	`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*domain.StockPosition
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}

	return positions, rows.Err()
}

func scanPosition(row scannable) (*domain.StockPosition, error) {
	var (
		position  domain.StockPosition
		shares    pgtype.Numeric
		costBasis pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&position.ID,
		&position.MemberID,
		&position.Symbol,
		&shares,
		&costBasis,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	position.Shares = numericToDecimal(shares)
	position.CostBasis = numericToDecimal(costBasis)
	position.CreatedAt = createdAt.Time
	position.UpdatedAt = updatedAt.Time

	return &position, nil
}
