package models

import "time"

// AuditEntry is a write-only record of a user-visible action.
type AuditEntry struct {
	ID          string         `bson:"id" json:"id"`
	UserID      string         `bson:"user_id" json:"user_id"`
	Action      string         `bson:"action" json:"action"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	IPAddress   string         `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent   string         `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Metadata    map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
}
