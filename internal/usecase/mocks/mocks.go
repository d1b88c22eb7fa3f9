package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
	Committed    bool
	RolledBack   bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	t.RolledBack = true
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// MockClock returns a fixed, settable time.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
}

func NewMockClock(at time.Time) *MockClock {
	return &MockClock{current: at}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *MockClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = at
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// MockMemberRepository is an in-memory MemberRepository.
type MockMemberRepository struct {
	mu      sync.RWMutex
	members map[string]*domain.Member

	GetByIDFunc func(ctx context.Context, id string) (*domain.Member, error)
}

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{members: make(map[string]*domain.Member)}
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.ID] = member
	return nil
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if member, ok := m.members[id]; ok {
		return member, nil
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) List(ctx context.Context, limit, offset int) ([]*domain.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var members []*domain.Member
	for _, member := range m.members {
		members = append(members, member)
	}
	return members, nil
}

// Add seeds a member.
func (m *MockMemberRepository) Add(member *domain.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.ID] = member
}

// MockEntryRepository is an in-memory append-only entry store. Balances are
// computed by summing entries, exactly like the real store.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry

	AppendBatchFunc func(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error
	GetBalanceFunc  func(ctx context.Context, memberID string, bucket domain.Bucket) (decimal.Decimal, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) AppendBatch(ctx context.Context, tx usecase.Transaction, entries []*domain.Entry) error {
	if m.AppendBatchFunc != nil {
		return m.AppendBatchFunc(ctx, tx, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *MockEntryRepository) GetBalance(ctx context.Context, memberID string, bucket domain.Bucket) (decimal.Decimal, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, memberID, bucket)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.MemberID == memberID && e.Bucket == bucket {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (m *MockEntryRepository) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].MemberID == memberID {
			out = append(out, m.entries[i])
		}
	}
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockEntryRepository) LastByCategory(ctx context.Context, memberID string, category domain.Category, bucket domain.Bucket) (*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.MemberID == memberID && e.Category == category && e.Bucket == bucket {
			return e, nil
		}
	}
	return nil, nil
}

func (m *MockEntryRepository) FirstByCategory(ctx context.Context, memberID string, category domain.Category, bucket domain.Bucket) (*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.MemberID == memberID && e.Category == category && e.Bucket == bucket {
			return e, nil
		}
	}
	return nil, nil
}

func (m *MockEntryRepository) LastBySource(ctx context.Context, memberID, sourceTag string) (*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.MemberID != memberID || e.Metadata == nil {
			continue
		}
		if tag, ok := e.Metadata[domain.MetaSource].(string); ok && tag == sourceTag {
			return e, nil
		}
	}
	return nil, nil
}

// Count returns the number of stored entries.
func (m *MockEntryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// All returns every stored entry, oldest first.
func (m *MockEntryRepository) All() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MockLotRepository is an in-memory LotRepository.
type MockLotRepository struct {
	mu   sync.RWMutex
	lots map[string]*domain.DepositLot

	CreateFunc func(ctx context.Context, tx usecase.Transaction, lot *domain.DepositLot) error
}

func NewMockLotRepository() *MockLotRepository {
	return &MockLotRepository{lots: make(map[string]*domain.DepositLot)}
}

func (m *MockLotRepository) Create(ctx context.Context, tx usecase.Transaction, lot *domain.DepositLot) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, lot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *lot
	m.lots[lot.ID] = &stored
	return nil
}

func (m *MockLotRepository) GetByID(ctx context.Context, id string) (*domain.DepositLot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if lot, ok := m.lots[id]; ok {
		copied := *lot
		return &copied, nil
	}
	return nil, domain.ErrLotNotFound
}

func (m *MockLotRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.LotStatus, closedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lot, ok := m.lots[id]
	if !ok {
		return domain.ErrLotNotFound
	}
	lot.Status = status
	lot.ClosedAt = &closedAt
	return nil
}

func (m *MockLotRepository) ListByMember(ctx context.Context, memberID string) ([]*domain.DepositLot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.DepositLot
	for _, lot := range m.lots {
		if lot.MemberID == memberID {
			copied := *lot
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockLotRepository) SumActivePrincipal(ctx context.Context, memberID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, lot := range m.lots {
		if lot.MemberID == memberID && lot.Status == domain.LotStatusActive {
			sum = sum.Add(lot.Principal)
		}
	}
	return sum, nil
}

// MockPositionRepository is an in-memory PositionRepository.
type MockPositionRepository struct {
	mu        sync.RWMutex
	positions map[string]*domain.StockPosition // keyed by member|symbol
}

func NewMockPositionRepository() *MockPositionRepository {
	return &MockPositionRepository{positions: make(map[string]*domain.StockPosition)}
}

func positionKey(memberID, symbol string) string {
	return memberID + "|" + symbol
}

func (m *MockPositionRepository) GetByMemberAndSymbol(ctx context.Context, memberID, symbol string) (*domain.StockPosition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if pos, ok := m.positions[positionKey(memberID, symbol)]; ok {
		copied := *pos
		return &copied, nil
	}
	return nil, nil
}

func (m *MockPositionRepository) CountByMember(ctx context.Context, memberID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, pos := range m.positions {
		if pos.MemberID == memberID {
			count++
		}
	}
	return count, nil
}

func (m *MockPositionRepository) Upsert(ctx context.Context, tx usecase.Transaction, position *domain.StockPosition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *position
	m.positions[positionKey(position.MemberID, position.Symbol)] = &copied
	return nil
}

func (m *MockPositionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, pos := range m.positions {
		if pos.ID == id {
			delete(m.positions, key)
			return nil
		}
	}
	return nil
}

func (m *MockPositionRepository) ListByMember(ctx context.Context, memberID string) ([]*domain.StockPosition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.StockPosition
	for _, pos := range m.positions {
		if pos.MemberID == memberID {
			copied := *pos
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MockPriceRepository is an in-memory PriceRepository.
type MockPriceRepository struct {
	mu     sync.RWMutex
	latest map[string]*domain.PricePoint

	GetLatestFunc func(ctx context.Context, symbol string) (*domain.PricePoint, error)
}

func NewMockPriceRepository() *MockPriceRepository {
	return &MockPriceRepository{latest: make(map[string]*domain.PricePoint)}
}

func (m *MockPriceRepository) GetLatest(ctx context.Context, symbol string) (*domain.PricePoint, error) {
	if m.GetLatestFunc != nil {
		return m.GetLatestFunc(ctx, symbol)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if point, ok := m.latest[symbol]; ok {
		return point, nil
	}
	return nil, domain.ErrNoPriceData
}

func (m *MockPriceRepository) Upsert(ctx context.Context, point *domain.PricePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.latest[point.Symbol]
	if !ok || !point.QuoteDate.Before(existing.QuoteDate) {
		m.latest[point.Symbol] = point
	}
	return nil
}

// SetPrice seeds the latest price for a symbol.
func (m *MockPriceRepository) SetPrice(symbol, price string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest[symbol] = &domain.PricePoint{
		Symbol: symbol,
		Close:  decimal.RequireFromString(price),
	}
}

// MockSettingsRepository is an in-memory SettingsRepository.
type MockSettingsRepository struct {
	mu     sync.RWMutex
	values map[string]decimal.Decimal
}

func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{values: make(map[string]decimal.Decimal)}
}

func (m *MockSettingsRepository) Get(ctx context.Context, key string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrUnknownSetting, key)
}

func (m *MockSettingsRepository) GetAll(ctx context.Context) (map[string]decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *MockSettingsRepository) Set(ctx context.Context, key string, value decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// SetValue seeds a setting from a string.
func (m *MockSettingsRepository) SetValue(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = decimal.RequireFromString(value)
}

// MockUserRepository is an in-memory UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
