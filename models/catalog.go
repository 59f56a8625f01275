package models

import "time"

// Service is offered by a provider. Read-only input to booking creation;
// bookings snapshot price/duration rather than referencing live fields.
type Service struct {
	ID              string `bson:"id" json:"id"`
	ProviderID      string `bson:"provider_id" json:"provider_id"`
	CategoryID      string `bson:"category_id" json:"category_id"`
	Name            string `bson:"name" json:"name"`
	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	PriceCents      int64  `bson:"price_cents" json:"price_cents"`
	DurationMinutes int    `bson:"duration_minutes" json:"duration_minutes"`
	IsHomeService   bool   `bson:"is_home_service" json:"is_home_service"`
	Active          bool   `bson:"active" json:"active"`
}

// Category groups services for filtering.
type Category struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// WorkingHours is a provider's configured open/close window for one weekday.
type WorkingHours struct {
	Weekday int    `bson:"weekday" json:"weekday"` // 0 = Sunday ... 6 = Saturday
	Open    string `bson:"open" json:"open"`       // "HH:MM"
	Close   string `bson:"close" json:"close"`
}

// GeoLocation is a provider's business coordinates.
type GeoLocation struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Provider is a business profile offering services, with its embedded
// service catalogue for search.
type Provider struct {
	ID                  string         `bson:"id" json:"id"`
	UserID              string         `bson:"user_id" json:"user_id"`
	BusinessName        string         `bson:"business_name" json:"business_name"`
	BusinessDescription string         `bson:"business_description,omitempty" json:"business_description,omitempty"`
	BusinessAddress     string         `bson:"business_address,omitempty" json:"business_address,omitempty"`
	BusinessPhone       string         `bson:"business_phone,omitempty" json:"business_phone,omitempty"`
	Location            GeoLocation    `bson:"location" json:"location"`
	Rating              float64        `bson:"rating" json:"rating"`
	ReviewCount         int            `bson:"review_count" json:"review_count"`
	Verified            bool           `bson:"verified" json:"verified"`
	Active              bool           `bson:"active" json:"active"`
	WorkingHours        []WorkingHours `bson:"working_hours,omitempty" json:"working_hours,omitempty"`
	Services            []Service      `bson:"services,omitempty" json:"services,omitempty"`
	CreatedAt           time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `bson:"updated_at" json:"updated_at"`
}

// HoursFor returns the provider's configured window for the given weekday,
// or false when none is set.
func (p *Provider) HoursFor(weekday int) (WorkingHours, bool) {
	for _, wh := range p.WorkingHours {
		if wh.Weekday == weekday {
			return wh, true
		}
	}
	return WorkingHours{}, false
}
