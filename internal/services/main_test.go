package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"finance/internal/logger"
	"finance/internal/testutil"
)

func init() {
	bcryptCost = bcrypt.MinCost
	logger.Init("test")
}

// tradingFixture wires the trading services over a fresh database.
type tradingFixture struct {
	db        *gorm.DB
	quotes    *testutil.QuoteStub
	trades    TradeServicer
	portfolio PortfolioServicer
	cash      CashServicer
}

func newTradingFixture(t *testing.T) *tradingFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	stub := testutil.NewQuoteStub("AAPL", "100", "MSFT", "250.50", "NFLX", "33.3333")
	qs := NewQuoteService(stub)
	return &tradingFixture{
		db:        db,
		quotes:    stub,
		trades:    NewTradeService(db, qs),
		portfolio: NewPortfolioService(db, qs),
		cash:      NewCashService(db),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertCash(t *testing.T, db *gorm.DB, userID, want string) {
	t.Helper()
	got := testutil.ReloadUser(t, db, userID).Cash
	if !got.Equal(dec(want)) {
		t.Errorf("expected cash %s, got %s", want, got)
	}
}
