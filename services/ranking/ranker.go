package ranking

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"repairhub/models"
	"repairhub/services/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Limits of the "top rated" list.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Enricher reads the per-technician data that is not on the technician
// document.
type Enricher interface {
	ShopName(ctx context.Context, technicianID string) (string, error)
	CompletedRepairs(ctx context.Context, technicianID string) (int, error)
}

// Ranker orders technicians for the public "top rated" list.
type Ranker struct {
	enricher      Enricher
	media         storage.MediaService
	concurrency   int
	lookupTimeout time.Duration
	logger        *zap.Logger
	rnd           func() float64
}

// NewRanker builds a Ranker. media may be nil, in which case profile images
// are returned as stored.
func NewRanker(enricher Enricher, media storage.MediaService, concurrency int, lookupTimeout time.Duration, logger *zap.Logger) *Ranker {
	if concurrency <= 0 {
		concurrency = 8
	}
	if lookupTimeout <= 0 {
		lookupTimeout = 3 * time.Second
	}
	return &Ranker{
		enricher:      enricher,
		media:         media,
		concurrency:   concurrency,
		lookupTimeout: lookupTimeout,
		logger:        logger,
		rnd:           rand.Float64,
	}
}

// NormalizeLimit clamps a requested list size into [1, MaxLimit], mapping
// non-positive values to DefaultLimit.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

type enrichment struct {
	shopName  string
	completed int
}

// Entry is a ranked technician before distances are applied. It carries the
// stored location so the viewer-independent order can be cached and reused
// for any viewer.
type Entry struct {
	models.RankedTechnician
	Location *models.GeoPoint `json:"location,omitempty"`
}

// Rank enriches techs, sorts them by rating and completed repairs, and
// returns at most limit entries with distances to viewer. A failed lookup is
// logged and leaves the affected field empty; the technician is still ranked.
func (r *Ranker) Rank(ctx context.Context, viewer *models.GeoPoint, techs []models.Technician, limit int) []models.RankedTechnician {
	return r.WithDistances(viewer, r.Order(ctx, techs, limit))
}

// Order enriches and sorts techs without any viewer-specific data.
func (r *Ranker) Order(ctx context.Context, techs []models.Technician, limit int) []Entry {
	limit = NormalizeLimit(limit)
	extra := r.enrich(ctx, techs)

	out := make([]Entry, len(techs))
	for i, t := range techs {
		out[i].RankedTechnician = models.RankedTechnician{
			UID:              t.UID,
			Name:             t.Name,
			Rating:           t.EffectiveRating(),
			CompletedRepairs: extra[i].completed,
			ShopName:         extra[i].shopName,
			Categories:       t.Categories,
			AvatarURL:        r.avatar(t),
		}
		if out[i].Categories == nil {
			out[i].Categories = []string{}
		}
		if loc, ok := t.Location(); ok {
			out[i].Location = &loc
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].CompletedRepairs > out[j].CompletedRepairs
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// WithDistances copies entries and sets the haversine distance to viewer.
// Technicians without a location are measured from a freshly jittered
// default point. A nil viewer yields no distances.
func (r *Ranker) WithDistances(viewer *models.GeoPoint, entries []Entry) []models.RankedTechnician {
	out := make([]models.RankedTechnician, len(entries))
	for i, e := range entries {
		out[i] = e.RankedTechnician
		out[i].Distance = nil
		out[i].DistanceEstimated = false
		if viewer == nil {
			continue
		}
		var loc models.GeoPoint
		if e.Location != nil {
			loc = *e.Location
		} else {
			loc = jitteredDefault(r.rnd)
			out[i].DistanceEstimated = true
		}
		d := haversine(*viewer, loc)
		out[i].Distance = &d
	}
	return out
}

func (r *Ranker) enrich(ctx context.Context, techs []models.Technician) []enrichment {
	extra := make([]enrichment, len(techs))
	if r.enricher == nil {
		return extra
	}

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i := range techs {
		i := i
		uid := techs[i].UID
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
			defer cancel()

			name, err := r.enricher.ShopName(lctx, uid)
			if err != nil {
				r.logger.Warn("shop lookup failed", zap.String("technicianId", uid), zap.Error(err))
			}
			count, err := r.enricher.CompletedRepairs(lctx, uid)
			if err != nil {
				r.logger.Warn("completed repairs count failed", zap.String("technicianId", uid), zap.Error(err))
			}
			extra[i] = enrichment{shopName: name, completed: count}
			return nil
		})
	}
	_ = g.Wait()
	return extra
}

func (r *Ranker) avatar(t models.Technician) string {
	if r.media == nil {
		return t.ProfileImage
	}
	url, err := r.media.AvatarURL(t.ProfileImage)
	if err != nil {
		r.logger.Debug("avatar url failed", zap.String("technicianId", t.UID), zap.Error(err))
		return ""
	}
	return url
}
