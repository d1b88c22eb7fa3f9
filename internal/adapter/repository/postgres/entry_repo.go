package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository on the append-only
// entries table. There are no UPDATE or DELETE statements in this file; the
// table's trigger rejects them anyway.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const insertEntry = `
	INSERT INTO entries (id, member_id, category, bucket, amount, note, metadata, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

const selectEntry = `
	SELECT id, member_id, category, bucket, amount, note, metadata, created_by, created_at
	FROM entries
`

// AppendBatch writes all entries in one batch inside the transaction.
func (r *EntryRepository) AppendBatch(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	batch := &pgx.Batch{}
	for _, e := range entries {
		metadata, err := marshalMetadata(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal entry metadata: %w", err)
		}

		batch.Queue(insertEntry,
			e.ID,
			e.MemberID,
			string(e.Category),
			string(e.Bucket),
			decimalToNumeric(e.Amount),
			e.Note,
			metadata,
			e.CreatedBy,
			timeToPgTimestamptz(e.CreatedAt),
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// GetBalance sums entry amounts for a (member, bucket). No rows means zero.
func (r *EntryRepository) GetBalance(ctx context.Context, memberID string, bucket domain.Bucket) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM entries
		WHERE member_id = $1 AND bucket = $2
	`

	var sum pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, memberID, string(bucket)).Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

// ListByMember retrieves a member's entries, newest first.
func (r *EntryRepository) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*domain.Entry, error) {
	query := selectEntry + `
		WHERE member_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// LastByCategory retrieves the most recent entry of a category in a bucket,
// nil when none exists.
func (r *EntryRepository) LastByCategory(ctx context.Context, memberID string, category domain.Category, bucket domain.Bucket) (*domain.Entry, error) {
	query := selectEntry + `
		WHERE member_id = $1 AND category = $2 AND bucket = $3
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	return r.queryOne(ctx, query, memberID, string(category), string(bucket))
}

// FirstByCategory retrieves the oldest entry of a category in a bucket, nil
// when none exists.
func (r *EntryRepository) FirstByCategory(ctx context.Context, memberID string, category domain.Category, bucket domain.Bucket) (*domain.Entry, error) {
	query := selectEntry + `
		WHERE member_id = $1 AND category = $2 AND bucket = $3
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`

	return r.queryOne(ctx, query, memberID, string(category), string(bucket))
}

// LastBySource retrieves the most recent entry tagged with a snapshot source,
// nil when none exists.
func (r *EntryRepository) LastBySource(ctx context.Context, memberID, sourceTag string) (*domain.Entry, error) {
	query := selectEntry + `
		WHERE member_id = $1 AND metadata->>'source' = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	return r.queryOne(ctx, query, memberID, sourceTag)
}

func (r *EntryRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.Entry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (*domain.Entry, error) {
	var (
		entry     domain.Entry
		category  string
		bucket    string
		amount    pgtype.Numeric
		metadata  []byte
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.MemberID,
		&category,
		&bucket,
		&amount,
		&entry.Note,
		&metadata,
		&entry.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Category = domain.Category(category)
	entry.Bucket = domain.Bucket(bucket)
	entry.Amount = numericToDecimal(amount)
	entry.CreatedAt = createdAt.Time

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal entry metadata: %w", err)
		}
	}

	return &entry, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}

	return json.Marshal(metadata)
}
