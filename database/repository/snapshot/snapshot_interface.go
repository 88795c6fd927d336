package snapshotRepo

import (
	"context"

	"repairhub/models"
)

// SnapshotRepository stores the history of computed dashboard statistics.
type SnapshotRepository interface {
	// Save inserts a snapshot.
	Save(ctx context.Context, snap models.StatsSnapshot) error
	// Latest returns up to limit snapshots, newest first.
	Latest(ctx context.Context, limit int) ([]models.StatsSnapshot, error)
}
