package snapshotRepo

import (
	"context"
	"fmt"
	"time"

	"repairhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const snapshotsCollection = "stats_snapshots"

// MongoSnapshotRepo implements SnapshotRepository using MongoDB.
type MongoSnapshotRepo struct {
	coll *mongo.Collection
}

// NewMongoSnapshotRepo creates a SnapshotRepository on the given database.
func NewMongoSnapshotRepo(client *mongo.Client, dbName string) SnapshotRepository {
	return &MongoSnapshotRepo{coll: client.Database(dbName).Collection(snapshotsCollection)}
}

// EnsureIndexes creates the descending generatedAt index used by Latest.
func (r *MongoSnapshotRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "stats.generatedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create snapshot index: %w", err)
	}
	return nil
}

func (r *MongoSnapshotRepo) Save(ctx context.Context, snap models.StatsSnapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, snap); err != nil {
		return fmt.Errorf("failed to insert stats snapshot: %w", err)
	}
	return nil
}

func (r *MongoSnapshotRepo) Latest(ctx context.Context, limit int) ([]models.StatsSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "stats.generatedAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.StatsSnapshot
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode stats snapshots: %w", err)
	}
	return out, nil
}
