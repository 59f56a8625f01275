package models

import "time"

// BlockedTime is a provider-declared unavailable interval on a specific date.
// It participates in conflict detection identically to occupying bookings.
type BlockedTime struct {
	ID         string    `bson:"id" json:"id"`
	ProviderID string    `bson:"provider_id" json:"provider_id"`
	Date       string    `bson:"date" json:"date"`             // "YYYY-MM-DD"
	StartTime  string    `bson:"start_time" json:"start_time"` // "HH:MM"
	EndTime    string    `bson:"end_time" json:"end_time"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	Recurring  bool      `bson:"recurring,omitempty" json:"recurring,omitempty"`
	Weekday    int       `bson:"weekday" json:"-"` // derived from Date; used to match recurring blocks
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
