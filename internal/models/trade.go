package models

import (
	"time"

	"finance/internal/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trade is one executed buy (positive shares) or sell (negative shares).
// Trades are append-only; a holding is the sum of shares per symbol.
type Trade struct {
	ID       string          `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserID   string          `gorm:"type:varchar(26);not null;index:idx_trades_user_symbol" json:"user_id"`
	Symbol   string          `gorm:"not null;index:idx_trades_user_symbol" json:"symbol"`
	Shares   int64           `gorm:"not null" json:"shares"`
	Price    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	TradedAt time.Time       `gorm:"not null;index" json:"traded_at"`
}

// BeforeCreate hook generates a ULID and stamps the execution time.
func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = id.New()
	}
	if t.TradedAt.IsZero() {
		t.TradedAt = time.Now().UTC()
	}
	return nil
}

// Amount returns the absolute cash value of the trade.
func (t *Trade) Amount() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Shares)).Abs()
}
