package blockedRepo

import (
	"context"

	"servana/models"
)

// BlockedTimeRepository defines methods to interact with provider blocked intervals.
type BlockedTimeRepository interface {
	// GetByProviderAndDate returns blocks for the exact date plus recurring
	// blocks matching the date's weekday.
	GetByProviderAndDate(ctx context.Context, providerID, date string) ([]models.BlockedTime, error)
	ListByProvider(ctx context.Context, providerID string) ([]models.BlockedTime, error)
	Create(ctx context.Context, block *models.BlockedTime) error
	// Delete removes the block and returns it so callers can invalidate
	// availability for the affected date.
	Delete(ctx context.Context, id, providerID string) (*models.BlockedTime, error)
}
