package models

// AuditLog records account-affecting user operations.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:varchar(26);not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}

// AllModels lists every persisted model, in dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Trade{},
		&Session{},
		&AuditLog{},
	}
}
