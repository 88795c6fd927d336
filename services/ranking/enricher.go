package ranking

import (
	"context"

	appointmentRepo "repairhub/database/repository/appointment"
	shopRepo "repairhub/database/repository/shop"
)

// RepositoryEnricher reads shop names and completed-repair counts through
// the repositories.
type RepositoryEnricher struct {
	Shops        shopRepo.ShopRepository
	Appointments appointmentRepo.AppointmentRepository
}

func (e RepositoryEnricher) ShopName(ctx context.Context, technicianID string) (string, error) {
	shop, err := e.Shops.FindForTechnician(ctx, technicianID)
	if err != nil || shop == nil {
		return "", err
	}
	return shop.Name, nil
}

func (e RepositoryEnricher) CompletedRepairs(ctx context.Context, technicianID string) (int, error) {
	return e.Appointments.CountCompletedByTechnician(ctx, technicianID)
}
