package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finance/internal/id"
	"finance/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique username and $10,000.00 cash.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithCash(t, db, fmt.Sprintf("trader%d", nextID()), "10000")
}

// CreateTestUserWithCash creates a user with the given username and cash.
func CreateTestUserWithCash(t *testing.T, db *gorm.DB, username, cash string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Hash:     string(hash),
		Cash:     decimal.RequireFromString(cash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTrade records a trade without touching the user's cash.
// Positive shares are a buy, negative a sell.
func CreateTestTrade(t *testing.T, db *gorm.DB, userID, symbol string, shares int64, price string) *models.Trade {
	t.Helper()

	trade := &models.Trade{
		UserID: userID,
		Symbol: symbol,
		Shares: shares,
		Price:  decimal.RequireFromString(price),
	}
	if err := db.Create(trade).Error; err != nil {
		t.Fatalf("failed to create test trade: %v", err)
	}
	return trade
}

// CreateTestSession stores a session for userID that expires after ttl.
// A negative ttl yields an already expired session.
func CreateTestSession(t *testing.T, db *gorm.DB, userID string, ttl time.Duration) *models.Session {
	t.Helper()

	now := time.Now().UTC()
	sess := &models.Session{
		ID:        id.New(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := db.Create(sess).Error; err != nil {
		t.Fatalf("failed to create test session: %v", err)
	}
	return sess
}

// ReloadUser reads the user's current row.
func ReloadUser(t *testing.T, db *gorm.DB, userID string) *models.User {
	t.Helper()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		t.Fatalf("failed to reload user %s: %v", userID, err)
	}
	return &user
}

// CountTrades returns the number of trades recorded for userID.
func CountTrades(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.Trade{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("failed to count trades: %v", err)
	}
	return n
}
