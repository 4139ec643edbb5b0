package services

import (
	"context"
	"testing"

	"finance/internal/models"
	"finance/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAuditService(db)
	user := testutil.CreateTestUser(t, db)

	svc.Log(context.Background(), user.ID, AuditBuy, "trade", "01ARZ3NDEKTSV4RRFFQ69G5FAV", "127.0.0.1",
		map[string]any{"symbol": "AAPL", "shares": 10})
	svc.Log(context.Background(), user.ID, AuditLogout, "session", "", "127.0.0.1", nil)

	var entries []models.AuditLog
	if err := db.Order("created_at ASC, id ASC").Find(&entries).Error; err != nil {
		t.Fatalf("failed to read audit log: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != AuditBuy || entries[0].Changes != `{"shares":10,"symbol":"AAPL"}` {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Changes != "" {
		t.Errorf("expected empty changes, got %q", entries[1].Changes)
	}
}
