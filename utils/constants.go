// File: utils/constants.go
package utils

import "time"

// AvailabilityCachePrefix is the prefix used for availability cache keys.
const AvailabilityCachePrefix = "availability:"

// AvailabilityCacheTTL is the time-to-live for computed slot availability.
const AvailabilityCacheTTL = 60 * time.Second

// SearchCachePrefix is the prefix used for cached search result sets.
const SearchCachePrefix = "search:"

// SearchCacheTTL is the time-to-live for cached search result sets.
const SearchCacheTTL = 300 * time.Second
