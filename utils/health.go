package utils

import (
	"context"
	"errors"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/api/iterator"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Firestore bool      `json:"firestore"`
	Mongo     bool      `json:"mongo"`
	Redis     bool      `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// HealthTargets lists the dependencies probed by the monitor. Nil members are skipped.
type HealthTargets struct {
	Firestore *firestore.Client
	Mongo     *mongo.Client
	Redis     *redis.Client
}

// CheckHealth probes every target once and stores the result.
func CheckHealth(ctx context.Context, t HealthTargets) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := HealthStatus{CheckedAt: time.Now()}
	if t.Firestore != nil {
		status.Firestore = pingFirestore(ctx, t.Firestore) == nil
	}
	if t.Mongo != nil {
		status.Mongo = t.Mongo.Ping(ctx, nil) == nil
	}
	if t.Redis != nil {
		status.Redis = t.Redis.Ping(ctx).Err() == nil
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is cancelled.
func StartHealthMonitor(ctx context.Context, t HealthTargets, every time.Duration) {
	go func() {
		CheckHealth(ctx, t)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, t)
			}
		}
	}()
}

// pingFirestore performs a lightweight check by attempting to iterate collections.
func pingFirestore(ctx context.Context, client *firestore.Client) error {
	iter := client.Collections(ctx)
	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil
	}
	return err
}
