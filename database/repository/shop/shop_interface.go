package shopRepo

import (
	"context"

	"repairhub/models"
)

// ShopRepository defines methods for shop data access.
type ShopRepository interface {
	// GetAll retrieves every shop.
	GetAll(ctx context.Context) ([]models.Shop, error)
	// FindForTechnician returns the shop keyed by the technician uid, or else
	// the first shop whose technicianId matches. It returns nil, nil when the
	// technician has no shop.
	FindForTechnician(ctx context.Context, technicianID string) (*models.Shop, error)
	// Watch pushes the full shop set on every change until ctx ends.
	Watch(ctx context.Context, fn func([]models.Shop)) error
}
