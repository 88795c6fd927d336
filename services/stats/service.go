package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appointmentRepo "repairhub/database/repository/appointment"
	feedbackRepo "repairhub/database/repository/feedback"
	shopRepo "repairhub/database/repository/shop"
	snapshotRepo "repairhub/database/repository/snapshot"
	technicianRepo "repairhub/database/repository/technician"
	userRepo "repairhub/database/repository/user"
	"repairhub/models"
	"repairhub/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StatsService serves the admin dashboard statistics.
type StatsService interface {
	// GetStats returns the cached aggregate, computing it on a miss.
	GetStats(ctx context.Context) (models.Stats, error)
	// Refresh recomputes the aggregate and replaces the cached copy.
	Refresh(ctx context.Context) (models.Stats, error)
	// Invalidate drops the cached aggregate.
	Invalidate(ctx context.Context) error
	// SaveSnapshot computes the aggregate and stores it in the history.
	SaveSnapshot(ctx context.Context) (models.StatsSnapshot, error)
	// History lists stored snapshots, newest first.
	History(ctx context.Context, limit int) ([]models.StatsSnapshot, error)
}

// Repositories is the set of collections the aggregate is computed from.
type Repositories struct {
	Appointments appointmentRepo.AppointmentRepository
	Users        userRepo.UserRepository
	Technicians  technicianRepo.TechnicianRepository
	Shops        shopRepo.ShopRepository
	Feedback     feedbackRepo.FeedbackRepository
	Snapshots    snapshotRepo.SnapshotRepository
}

// DefaultStatsService loads every collection, aggregates and caches the
// result in Redis when cache is non-nil.
type DefaultStatsService struct {
	repos  Repositories
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewDefaultStatsService(repos Repositories, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *DefaultStatsService {
	return &DefaultStatsService{
		repos:  repos,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (s *DefaultStatsService) GetStats(ctx context.Context) (models.Stats, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, utils.StatsCacheKey).Result()
		switch {
		case err == nil:
			var cached models.Stats
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		case err != redis.Nil:
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
	}
	return s.Refresh(ctx)
}

func (s *DefaultStatsService) Refresh(ctx context.Context) (models.Stats, error) {
	in, err := s.load(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	st := Aggregate(in, s.now())

	if s.cache != nil {
		if b, err := json.Marshal(st); err == nil {
			if err := s.cache.Set(ctx, utils.StatsCacheKey, b, s.ttl).Err(); err != nil {
				s.logger.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	return st, nil
}

func (s *DefaultStatsService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, utils.StatsCacheKey).Err(); err != nil {
		return fmt.Errorf("delete stats cache: %w", err)
	}
	return nil
}

func (s *DefaultStatsService) SaveSnapshot(ctx context.Context) (models.StatsSnapshot, error) {
	st, err := s.Refresh(ctx)
	if err != nil {
		return models.StatsSnapshot{}, err
	}
	snap := models.StatsSnapshot{ID: uuid.NewString(), Stats: st}
	if err := s.repos.Snapshots.Save(ctx, snap); err != nil {
		return models.StatsSnapshot{}, err
	}
	return snap, nil
}

func (s *DefaultStatsService) History(ctx context.Context, limit int) ([]models.StatsSnapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = 24
	}
	return s.repos.Snapshots.Latest(ctx, limit)
}

// load reads all collections concurrently; any failure fails the whole load.
func (s *DefaultStatsService) load(ctx context.Context) (Input, error) {
	var in Input
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		in.Appointments, err = s.repos.Appointments.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Users, err = s.repos.Users.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Technicians, err = s.repos.Technicians.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Shops, err = s.repos.Shops.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Feedback, err = s.repos.Feedback.GetAllFeedback(gctx)
		return err
	})
	g.Go(func() (err error) {
		in.Ratings, err = s.repos.Feedback.GetAllRatings(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Input{}, fmt.Errorf("failed to load dashboard data: %w", err)
	}
	return in, nil
}
