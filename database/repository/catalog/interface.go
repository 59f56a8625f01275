package catalogRepo

import (
	"context"

	"servana/models"
)

// ServiceRepository provides read access to the service catalogue.
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Service, error)
}

// ProviderRepository provides read access to provider profiles and the
// filtered search over providers joined to their active services.
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// Search runs the full filter/sort pipeline in the database, including
	// the Haversine radius filter, and returns the requested page together
	// with the total count of the unpaginated filtered set.
	Search(ctx context.Context, filter models.SearchFilter) ([]models.ProviderSearchHit, int64, error)
}
