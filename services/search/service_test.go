package search

import (
	"context"
	"testing"

	"servana/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProviderRepo struct{ mock.Mock }

func (m *mockProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	args := m.Called(ctx, id)
	var p *models.Provider
	if v := args.Get(0); v != nil {
		p = v.(*models.Provider)
	}
	return p, args.Error(1)
}

func (m *mockProviderRepo) Search(ctx context.Context, filter models.SearchFilter) ([]models.ProviderSearchHit, int64, error) {
	args := m.Called(ctx, filter)
	var hits []models.ProviderSearchHit
	if v := args.Get(0); v != nil {
		hits = v.([]models.ProviderSearchHit)
	}
	return hits, args.Get(1).(int64), args.Error(2)
}

func hitsNamed(names ...string) []models.ProviderSearchHit {
	out := make([]models.ProviderSearchHit, 0, len(names))
	for _, n := range names {
		out = append(out, models.ProviderSearchHit{
			Provider: models.Provider{ID: n, BusinessName: n},
		})
	}
	return out
}

func TestSearchPaginationMath(t *testing.T) {
	repo := new(mockProviderRepo)
	repo.On("Search", mock.Anything, mock.AnythingOfType("models.SearchFilter")).
		Return(hitsNamed("a", "b", "c"), int64(50), nil)

	svc := &DefaultSearchService{Providers: repo}

	result, err := svc.Search(context.Background(), models.SearchFilter{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(50), result.Total)
	assert.Equal(t, 3, result.Page)
	assert.Equal(t, 10, result.Limit)
	assert.True(t, result.HasMore)

	// last page
	result, err = svc.Search(context.Background(), models.SearchFilter{Limit: 10, Offset: 40})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Page)
	assert.False(t, result.HasMore)
}

func TestSearchAppliesDefaults(t *testing.T) {
	repo := new(mockProviderRepo)
	var seen models.SearchFilter
	repo.On("Search", mock.Anything, mock.AnythingOfType("models.SearchFilter")).
		Run(func(args mock.Arguments) { seen = args.Get(1).(models.SearchFilter) }).
		Return(hitsNamed("a"), int64(1), nil)

	svc := &DefaultSearchService{Providers: repo}

	result, err := svc.Search(context.Background(), models.SearchFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, seen.Limit)
	assert.Equal(t, 0, seen.Offset)
	assert.Equal(t, "asc", seen.SortOrder)
	assert.Equal(t, 1, result.Page)

	// oversized limits are clamped
	_, err = svc.Search(context.Background(), models.SearchFilter{Limit: 10000})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, seen.Limit)
}

func TestSearchServesCachedResults(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := new(mockProviderRepo)
	repo.On("Search", mock.Anything, mock.AnythingOfType("models.SearchFilter")).
		Return(hitsNamed("a", "b"), int64(2), nil).Once()

	svc := &DefaultSearchService{Providers: repo, Cache: cache}
	filter := models.SearchFilter{Query: "cleaning", Limit: 20}

	first, err := svc.Search(context.Background(), filter)
	require.NoError(t, err)

	// identical filter hits the cache; the repository is not queried again
	second, err := svc.Search(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, first.Total, second.Total)
	assert.Len(t, second.Providers, 2)
	repo.AssertNumberOfCalls(t, "Search", 1)

	// a different filter is a different key
	repo.On("Search", mock.Anything, mock.AnythingOfType("models.SearchFilter")).
		Return(hitsNamed("c"), int64(1), nil).Once()
	_, err = svc.Search(context.Background(), models.SearchFilter{Query: "plumbing", Limit: 20})
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Search", 2)
}

func TestSearchAnnotatesDistance(t *testing.T) {
	repo := new(mockProviderRepo)
	hits := []models.ProviderSearchHit{
		{Provider: models.Provider{ID: "same", Location: models.GeoLocation{Latitude: 51.5074, Longitude: -0.1278}}},
		{Provider: models.Provider{ID: "paris", Location: models.GeoLocation{Latitude: 48.8566, Longitude: 2.3522}}},
	}
	repo.On("Search", mock.Anything, mock.AnythingOfType("models.SearchFilter")).
		Return(hits, int64(2), nil)

	svc := &DefaultSearchService{Providers: repo}

	result, err := svc.Search(context.Background(), models.SearchFilter{
		Geo: &models.GeoFilter{Latitude: 51.5074, Longitude: -0.1278, Radius: 500},
	})
	require.NoError(t, err)
	require.Len(t, result.Providers, 2)

	require.NotNil(t, result.Providers[0].DistanceKm)
	assert.Zero(t, *result.Providers[0].DistanceKm, "co-located provider must report exactly zero")
	require.NotNil(t, result.Providers[1].DistanceKm)
	assert.InDelta(t, 344, *result.Providers[1].DistanceKm, 2)
}

func TestSearchWithoutGeoLeavesDistanceNil(t *testing.T) {
	repo := new(mockProviderRepo)
	repo.On("Search", mock.Anything, mock.AnythingOfType("models.SearchFilter")).
		Return(hitsNamed("a"), int64(1), nil)

	svc := &DefaultSearchService{Providers: repo}

	result, err := svc.Search(context.Background(), models.SearchFilter{})
	require.NoError(t, err)
	assert.Nil(t, result.Providers[0].DistanceKm)
}
