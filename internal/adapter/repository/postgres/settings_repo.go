package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// SettingsRepository implements usecase.SettingsRepository on the small
// key-value settings table.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get retrieves one setting value.
func (r *SettingsRepository) Get(ctx context.Context, key string) (decimal.Decimal, error) {
	var value pgtype.Numeric
	err := r.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrUnknownSetting, key)
	}
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(value), nil
}

// GetAll retrieves every setting.
func (r *SettingsRepository) GetAll(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			key   string
			value pgtype.Numeric
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = numericToDecimal(value)
	}

	return settings, rows.Err()
}

// Set upserts one setting value.
func (r *SettingsRepository) Set(ctx context.Context, key string, value decimal.Decimal) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query, key, decimalToNumeric(value))

	return err
}
