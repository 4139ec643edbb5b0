package models

import "time"

// Session is a server-side login session. The cookie only carries the ID.
type Session struct {
	ID        string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(26);not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
