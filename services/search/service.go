package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	catalogRepo "servana/database/repository/catalog"
	"servana/models"
	"servana/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// SearchService executes provider searches with short-lived result caching.
type SearchService interface {
	Search(ctx context.Context, filter models.SearchFilter) (*models.SearchResult, error)
}

// DefaultSearchService implements SearchService over the provider
// repository with a Redis result cache. Entries expire by TTL only; booking
// mutations never invalidate search results, so a page can be up to the TTL
// stale. Availability is always re-checked at booking time.
type DefaultSearchService struct {
	Providers catalogRepo.ProviderRepository
	Cache     *redis.Client
}

func (s *DefaultSearchService) Search(ctx context.Context, filter models.SearchFilter) (*models.SearchResult, error) {
	normalize(&filter)
	logger := utils.GetLogger()

	key, keyOK := cacheKey(filter)
	if keyOK && s.Cache != nil {
		data, err := s.Cache.Get(ctx, key).Result()
		if err == nil {
			var cached models.SearchResult
			if jerr := json.Unmarshal([]byte(data), &cached); jerr == nil {
				return &cached, nil
			}
			logger.Warn("corrupt search cache entry, re-querying", zap.String("key", key))
		} else if err != redis.Nil {
			logger.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	hits, total, err := s.Providers.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	annotateDistance(hits, filter.Geo)

	result := &models.SearchResult{
		Providers: hits,
		Total:     total,
		Page:      filter.Offset/filter.Limit + 1,
		Limit:     filter.Limit,
		HasMore:   int64(filter.Offset+filter.Limit) < total,
	}

	if keyOK && s.Cache != nil {
		if data, jerr := json.Marshal(result); jerr == nil {
			if serr := s.Cache.Set(ctx, key, data, utils.SearchCacheTTL).Err(); serr != nil {
				logger.Warn("search cache write failed", zap.String("key", key), zap.Error(serr))
			}
		}
	}
	return result, nil
}

// normalize applies pagination defaults and bounds so equivalent requests
// hash to the same cache key.
func normalize(filter *models.SearchFilter) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.SortOrder != "desc" {
		filter.SortOrder = "asc"
	}
}

// cacheKey hashes the normalized filter. json.Marshal emits struct fields
// in declaration order, so equal filters always produce equal keys.
func cacheKey(filter models.SearchFilter) (string, bool) {
	data, err := json.Marshal(filter)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return utils.SearchCachePrefix + hex.EncodeToString(sum[:]), true
}

// annotateDistance recomputes each hit's distance from the search origin
// with the application-side Haversine. The pipeline already produced the
// same value for filtering and sorting; recomputing here guarantees the
// returned number matches what the app would calculate.
func annotateDistance(hits []models.ProviderSearchHit, geo *models.GeoFilter) {
	if geo == nil {
		return
	}
	for i := range hits {
		d := Haversine(geo.Latitude, geo.Longitude,
			hits[i].Location.Latitude, hits[i].Location.Longitude)
		hits[i].DistanceKm = &d
	}
}
