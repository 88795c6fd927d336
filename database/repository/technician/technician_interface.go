package technicianRepo

import (
	"context"

	"repairhub/models"
)

// TechnicianRepository defines methods for technician data access.
type TechnicianRepository interface {
	// GetAll retrieves every technician document, deleted ones included.
	GetAll(ctx context.Context) ([]models.Technician, error)
	// List retrieves technicians matching the filter.
	List(ctx context.Context, filter models.TechnicianFilter) ([]models.Technician, error)
	// ListApproved retrieves technicians that may appear in public rankings.
	ListApproved(ctx context.Context) ([]models.Technician, error)
	// GetByID retrieves a technician by uid.
	GetByID(ctx context.Context, uid string) (*models.Technician, error)
	// Create writes a new technician profile keyed by uid.
	Create(ctx context.Context, tech *models.Technician) error
	// UpdateFields patches the named fields of a technician.
	UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error
	// Watch pushes the full technician set on every change until ctx ends.
	Watch(ctx context.Context, fn func([]models.Technician)) error
}
