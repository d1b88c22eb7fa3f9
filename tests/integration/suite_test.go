package integration

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	postgresRepo "github.com/melodykoh/the-mini-mint/internal/adapter/repository/postgres"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
	"github.com/melodykoh/the-mini-mint/internal/usecase/mocks"
	"github.com/melodykoh/the-mini-mint/tests/testutil"
)

// ledgerStack is the full use case stack wired against the real database,
// with a controllable clock so date-sensitive flows can be driven.
type ledgerStack struct {
	Clock     *mocks.MockClock
	Transfers *usecase.TransferUseCase
	Balances  *usecase.BalanceUseCase
	Interest  *usecase.InterestUseCase
	Lots      *usecase.LotUseCase
	Stocks    *usecase.StockUseCase
	Snapshots *usecase.SnapshotUseCase
	Entries   *postgresRepo.EntryRepository
}

func newLedgerStack(testDB *testutil.TestDB) *ledgerStack {
	pool := testDB.Pool

	txManager := postgresRepo.NewTxManager(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	lotRepo := postgresRepo.NewLotRepository(pool)
	positionRepo := postgresRepo.NewPositionRepository(pool)
	priceRepo := postgresRepo.NewPriceRepository(pool)
	settingsRepo := postgresRepo.NewSettingsRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	locker := usecase.NewMemberLocker()
	clock := mocks.NewMockClock(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))

	transfers := usecase.NewTransferUseCase(txManager, memberRepo, entryRepo, locker, idGen, clock)

	return &ledgerStack{
		Clock:     clock,
		Transfers: transfers,
		Balances:  usecase.NewBalanceUseCase(memberRepo, entryRepo, lotRepo, positionRepo, priceRepo),
		Interest:  usecase.NewInterestUseCase(transfers, memberRepo, entryRepo, settingsRepo),
		Lots:      usecase.NewLotUseCase(transfers, memberRepo, lotRepo, settingsRepo),
		Stocks:    usecase.NewStockUseCase(transfers, memberRepo, positionRepo, priceRepo, settingsRepo),
		Snapshots: usecase.NewSnapshotUseCase(transfers, memberRepo, entryRepo, settingsRepo),
		Entries:   entryRepo,
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
