package models

// GeoFilter narrows search results to providers within Radius km of a point.
type GeoFilter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"` // km
}

// SearchFilter is the set of recognized provider-search parameters.
// Ephemeral; hashed to form the result-cache key.
type SearchFilter struct {
	Query         string     `json:"query,omitempty" form:"query"`
	CategoryID    string     `json:"categoryId,omitempty" form:"categoryId"`
	MinPriceCents *int64     `json:"minPriceCents,omitempty" form:"minPriceCents"`
	MaxPriceCents *int64     `json:"maxPriceCents,omitempty" form:"maxPriceCents"`
	MinRating     *float64   `json:"minRating,omitempty" form:"minRating"`
	Geo           *GeoFilter `json:"geo,omitempty"`
	IsHomeService *bool      `json:"isHomeService,omitempty" form:"isHomeService"`
	VerifiedOnly  bool       `json:"verifiedOnly,omitempty" form:"verifiedOnly"`
	ServiceIDs    []string   `json:"serviceIds,omitempty" form:"serviceIds"`
	SortBy        string     `json:"sortBy,omitempty" form:"sortBy"`       // rating | reviews | price | newest | distance
	SortOrder     string     `json:"sortOrder,omitempty" form:"sortOrder"` // asc | desc
	Limit         int        `json:"limit,omitempty" form:"limit"`
	Offset        int        `json:"offset,omitempty" form:"offset"`
}

// ProviderSearchHit is one search result with its query-computed distance.
type ProviderSearchHit struct {
	Provider   `bson:",inline"`
	DistanceKm *float64 `bson:"distance_km,omitempty" json:"distance,omitempty"`
}

// SearchResult is the cached, paginated response shape.
type SearchResult struct {
	Providers []ProviderSearchHit `json:"providers"`
	Total     int64               `json:"total"`
	Page      int                 `json:"page"`
	Limit     int                 `json:"limit"`
	HasMore   bool                `json:"hasMore"`
}
