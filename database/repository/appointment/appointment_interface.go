package appointmentRepo

import (
	"context"

	"repairhub/models"
)

// AppointmentRepository defines methods for appointment data access.
type AppointmentRepository interface {
	// GetAll retrieves every appointment.
	GetAll(ctx context.Context) ([]models.Appointment, error)
	// List retrieves appointments matching the filter, newest first.
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	// GetByID retrieves a single appointment.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// UpdateStatus overwrites the nested status map.
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	// CountCompletedByTechnician counts completed repairs of one technician.
	CountCompletedByTechnician(ctx context.Context, technicianID string) (int, error)
	// Watch pushes the full appointment set on every change until ctx ends.
	Watch(ctx context.Context, fn func([]models.Appointment)) error
}
