package reportRepo

import (
	"context"

	"repairhub/models"
)

// BlockDecision decides, from the number of reports already stored for a
// technician, the new total and whether the technician must be blocked.
type BlockDecision func(existing int) (total int, block bool)

// ReportRepository defines methods for report data access.
type ReportRepository interface {
	// Submit stores the report and updates the technician's report counter in
	// a single transaction.
	Submit(ctx context.Context, report models.Report, decide BlockDecision) (models.ReportOutcome, error)
	// GetByID retrieves a report.
	GetByID(ctx context.Context, id string) (*models.Report, error)
	// UpdateStatus sets the review status of a report.
	UpdateStatus(ctx context.Context, id, status string) error
	// List retrieves reports matching the filter, newest first.
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
}
