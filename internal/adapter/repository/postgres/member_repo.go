package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// Create inserts a new member.
func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (id, name, nickname, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		member.ID,
		member.Name,
		member.Nickname,
		timeToPgTimestamptz(member.CreatedAt),
	)

	return err
}

// GetByID retrieves a member by ID.
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `
		SELECT id, name, nickname, created_at
		FROM members
		WHERE id = $1
	`

	var (
		member    domain.Member
		createdAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.Name,
		&member.Nickname,
		&createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}

	member.CreatedAt = createdAt.Time

	return &member, nil
}

// List retrieves members ordered by creation time.
func (r *MemberRepository) List(ctx context.Context, limit, offset int) ([]*domain.Member, error) {
	query := `
		SELECT id, name, nickname, created_at
		FROM members
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		var (
			member    domain.Member
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&member.ID, &member.Name, &member.Nickname, &createdAt); err != nil {
			return nil, err
		}
		member.CreatedAt = createdAt.Time
		members = append(members, &member)
	}

	return members, rows.Err()
}
