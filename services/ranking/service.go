package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	technicianRepo "repairhub/database/repository/technician"
	userRepo "repairhub/database/repository/user"
	"repairhub/models"
	"repairhub/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RankingService serves the public "top rated technicians" list.
type RankingService interface {
	TopRated(ctx context.Context, viewerUID string, limit int) ([]models.RankedTechnician, error)
	// Invalidate drops every cached ranking.
	Invalidate(ctx context.Context) error
}

// DefaultRankingService ranks approved technicians, caching results in Redis
// when cache is non-nil.
type DefaultRankingService struct {
	technicians technicianRepo.TechnicianRepository
	users       userRepo.UserRepository
	ranker      *Ranker
	cache       *redis.Client
	ttl         time.Duration
	logger      *zap.Logger
}

func NewDefaultRankingService(
	technicians technicianRepo.TechnicianRepository,
	users userRepo.UserRepository,
	ranker *Ranker,
	cache *redis.Client,
	ttl time.Duration,
	logger *zap.Logger,
) *DefaultRankingService {
	return &DefaultRankingService{
		technicians: technicians,
		users:       users,
		ranker:      ranker,
		cache:       cache,
		ttl:         ttl,
		logger:      logger,
	}
}

// TopRated returns the ranking for viewerUID, who may be empty for anonymous
// callers. Distances are included only when the viewer has stored
// coordinates. The cache holds the viewer-independent order; distances are
// computed on every call.
func (s *DefaultRankingService) TopRated(ctx context.Context, viewerUID string, limit int) ([]models.RankedTechnician, error) {
	limit = NormalizeLimit(limit)
	viewer := s.viewerLocation(ctx, viewerUID)
	key := cacheKey(limit)

	entries, ok := s.fromCache(ctx, key)
	if !ok {
		techs, err := s.technicians.ListApproved(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load approved technicians: %w", err)
		}
		entries = s.ranker.Order(ctx, techs, limit)
		s.toCache(ctx, key, entries)
	}
	return s.ranker.WithDistances(viewer, entries), nil
}

func (s *DefaultRankingService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := s.cache.Scan(ctx, cursor, utils.RankingCachePrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("scan ranking cache: %w", err)
		}
		if len(keys) > 0 {
			if err := s.cache.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete ranking cache: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *DefaultRankingService) viewerLocation(ctx context.Context, uid string) *models.GeoPoint {
	if uid == "" || s.users == nil {
		return nil
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if !utils.IsNotFound(err) {
			s.logger.Warn("viewer lookup failed", zap.String("uid", uid), zap.Error(err))
		}
		return nil
	}
	loc, ok := u.Location()
	if !ok {
		return nil
	}
	return &loc
}

func (s *DefaultRankingService) fromCache(ctx context.Context, key string) ([]Entry, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("ranking cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	out, err := decodeEntries([]byte(raw))
	if err != nil {
		s.logger.Warn("ranking cache entry unreadable", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return out, true
}

func (s *DefaultRankingService) toCache(ctx context.Context, key string, entries []Entry) {
	if s.cache == nil {
		return
	}
	b, err := encodeEntries(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.ttl).Err(); err != nil {
		s.logger.Warn("ranking cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func encodeEntries(entries []Entry) ([]byte, error) {
	return json.Marshal(entries)
}

func decodeEntries(b []byte) ([]Entry, error) {
	var out []Entry
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func cacheKey(limit int) string {
	return fmt.Sprintf("%s%d", utils.RankingCachePrefix, limit)
}
