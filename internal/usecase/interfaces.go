package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
)

// MemberRepository defines data access for household members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Member, error)
}

// EntryRepository defines data access for ledger entries. The store is
// append-only: there are no update or delete operations, by contract and by
// database trigger.
type EntryRepository interface {
	// AppendBatch writes all entries inside the given transaction. The whole
	// batch becomes visible on commit or none of it does.
	AppendBatch(ctx context.Context, tx Transaction, entries []*domain.Entry) error
	// GetBalance returns the signed sum of entry amounts for (member, bucket),
	// zero if no entries exist.
	GetBalance(ctx context.Context, memberID string, bucket domain.Bucket) (decimal.Decimal, error)
	ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*domain.Entry, error)
	// LastByCategory returns the most recent entry of a category in a bucket,
	// or nil if none exists.
	LastByCategory(ctx context.Context, memberID string, category domain.Category, bucket domain.Bucket) (*domain.Entry, error)
	// FirstByCategory returns the oldest entry of a category in a bucket, or
	// nil if none exists.
	FirstByCategory(ctx context.Context, memberID string, category domain.Category, bucket domain.Bucket) (*domain.Entry, error)
	// LastBySource returns the most recent entry whose metadata source tag
	// matches, or nil if none exists.
	LastBySource(ctx context.Context, memberID, sourceTag string) (*domain.Entry, error)
}

// LotRepository defines data access for term deposit lots.
type LotRepository interface {
	Create(ctx context.Context, tx Transaction, lot *domain.DepositLot) error
	GetByID(ctx context.Context, id string) (*domain.DepositLot, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.LotStatus, closedAt time.Time) error
	ListByMember(ctx context.Context, memberID string) ([]*domain.DepositLot, error)
	SumActivePrincipal(ctx context.Context, memberID string) (decimal.Decimal, error)
}

// PositionRepository defines data access for stock positions.
type PositionRepository interface {
	// GetByMemberAndSymbol returns nil (no error) when no position exists.
	GetByMemberAndSymbol(ctx context.Context, memberID, symbol string) (*domain.StockPosition, error)
	CountByMember(ctx context.Context, memberID string) (int, error)
	Upsert(ctx context.Context, tx Transaction, position *domain.StockPosition) error
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByMember(ctx context.Context, memberID string) ([]*domain.StockPosition, error)
}

// PriceRepository defines read access to the externally populated price table,
// plus the upsert used by the ingestion surface.
type PriceRepository interface {
	// GetLatest returns the most recent price point for a symbol.
	GetLatest(ctx context.Context, symbol string) (*domain.PricePoint, error)
	Upsert(ctx context.Context, point *domain.PricePoint) error
}

// SettingsRepository defines access to the rate/limit key-value store.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (decimal.Decimal, error)
	GetAll(ctx context.Context) (map[string]decimal.Decimal, error)
	Set(ctx context.Context, key string, value decimal.Decimal) error
}

// UserRepository defines data access for authenticated users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time; operations never call time.Now directly so
// date-sensitive logic (accrual days, maturity) is testable.
type Clock interface {
	Now() time.Time
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
