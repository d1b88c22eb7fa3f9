package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// PriceRepository implements usecase.PriceRepository on the price table the
// ingestion collaborator populates.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new PriceRepository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetLatest retrieves the most recent price point for a symbol.
func (r *PriceRepository) GetLatest(ctx context.Context, symbol string) (*domain.PricePoint, error) {
	query := `
		SELECT symbol, quote_date, close
		FROM price_points
		WHERE symbol = $1
		ORDER BY quote_date DESC
		LIMIT 1
	`

	var (
		point     domain.PricePoint
		quoteDate pgtype.Date
		close     pgtype.Numeric
	)
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&point.Symbol, &quoteDate, &close)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: no prices for %s", domain.ErrNoPriceData, symbol)
	}
	if err != nil {
		return nil, err
	}

	point.QuoteDate = quoteDate.Time
	point.Close = numericToDecimal(close)

	return &point, nil
}

// Upsert writes one (symbol, date) closing price; re-ingesting the same day
// overwrites it.
func (r *PriceRepository) Upsert(ctx context.Context, point *domain.PricePoint) error {
	query := `
		INSERT INTO price_points (symbol, quote_date, close)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol, quote_date) DO UPDATE
		SET close = EXCLUDED.close
	`

	_, err := r.pool.Exec(ctx, query,
		point.Symbol,
		pgtype.Date{Time: point.QuoteDate, Valid: true},
		decimalToNumeric(point.Close),
	)

	return err
}
