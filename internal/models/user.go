package models

import "github.com/shopspring/decimal"

// User is a registered trader and their virtual cash balance.
type User struct {
	Base
	Username string          `gorm:"uniqueIndex;not null" json:"username"`
	Hash     string          `gorm:"not null" json:"-"`
	Cash     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"cash"`
	Trades   []Trade         `gorm:"foreignKey:UserID" json:"trades,omitempty"`
}
