package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	memoryRepo "repairhub/database/repository/memory"
	"repairhub/models"

	"go.uber.org/zap"
)

type fakeEnricher struct {
	mu        sync.Mutex
	shops     map[string]string
	completed map[string]int
	failShop  map[string]bool
	calls     int
}

func (f *fakeEnricher) ShopName(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failShop[id] {
		return "", errors.New("shop read failed")
	}
	return f.shops[id], nil
}

func (f *fakeEnricher) CompletedRepairs(ctx context.Context, id string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed[id], nil
}

func ptr(f float64) *float64 { return &f }

func tech(uid string, rating float64) models.Technician {
	return models.Technician{UID: uid, Name: uid, Status: models.TechnicianApproved, Submitted: true, Rating: rating}
}

func TestHaversine(t *testing.T) {
	cases := []struct {
		a, b models.GeoPoint
		want float64
	}{
		{models.GeoPoint{}, models.GeoPoint{}, 0},
		{models.GeoPoint{Latitude: 0, Longitude: 0}, models.GeoPoint{Latitude: 0, Longitude: 1}, 111.19},
		{models.GeoPoint{Latitude: 14.5995, Longitude: 120.9842}, models.GeoPoint{Latitude: 10.3157, Longitude: 123.8854}, 571.0},
	}
	for _, tc := range cases {
		got := haversine(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1 {
			t.Fatalf("haversine(%v,%v)=%.2f, want ~%.2f", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestJitteredDefaultBounds(t *testing.T) {
	for _, v := range []float64{0, 0.5, 0.999} {
		p := jitteredDefault(func() float64 { return v })
		if p.Latitude < DefaultLocation.Latitude || p.Latitude >= DefaultLocation.Latitude+defaultJitter {
			t.Fatalf("latitude %v out of range", p.Latitude)
		}
		if p.Longitude < DefaultLocation.Longitude || p.Longitude >= DefaultLocation.Longitude+defaultJitter {
			t.Fatalf("longitude %v out of range", p.Longitude)
		}
	}
}

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{-1: 10, 0: 10, 1: 1, 10: 10, 50: 50, 51: 50, 500: 50}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d)=%d, want %d", in, got, want)
		}
	}
}

func TestRankOrder(t *testing.T) {
	enr := &fakeEnricher{
		shops:     map[string]string{"b": "Fix Shop"},
		completed: map[string]int{"a": 3, "b": 9, "c": 3, "d": 1},
	}
	r := NewRanker(enr, nil, 2, time.Second, zap.NewNop())

	techs := []models.Technician{tech("a", 4.5), tech("b", 4.5), tech("c", 4.5), tech("d", 4.9)}
	got := r.Rank(context.Background(), nil, techs, 10)

	want := []string{"d", "b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("len=%d, want %d", len(got), len(want))
	}
	for i, uid := range want {
		if got[i].UID != uid {
			t.Fatalf("position %d: got %s, want %s (%+v)", i, got[i].UID, uid, got)
		}
	}
	if got[1].ShopName != "Fix Shop" || got[1].CompletedRepairs != 9 {
		t.Fatalf("enrichment missing: %+v", got[1])
	}
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.Rating < cur.Rating || (prev.Rating == cur.Rating && prev.CompletedRepairs < cur.CompletedRepairs) {
			t.Fatalf("order violated at %d: %+v then %+v", i, prev, cur)
		}
	}
	if got[0].Distance != nil {
		t.Fatalf("no viewer means no distance")
	}
}

func TestRankFallsBackToAverageRating(t *testing.T) {
	r := NewRanker(nil, nil, 1, time.Second, zap.NewNop())
	a := tech("a", 0)
	a.AverageRating = 4.8
	got := r.Rank(context.Background(), nil, []models.Technician{tech("b", 4.0), a}, 10)
	if got[0].UID != "a" || got[0].Rating != 4.8 {
		t.Fatalf("got %+v", got)
	}
}

func TestRankTruncates(t *testing.T) {
	r := NewRanker(&fakeEnricher{}, nil, 4, time.Second, zap.NewNop())
	var techs []models.Technician
	for i := 0; i < 60; i++ {
		techs = append(techs, tech(fmt.Sprintf("t%02d", i), float64(i%5)))
	}
	if got := r.Rank(context.Background(), nil, techs, 3); len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	if got := r.Rank(context.Background(), nil, techs, 0); len(got) != DefaultLimit {
		t.Fatalf("len=%d, want %d", len(got), DefaultLimit)
	}
	if got := r.Rank(context.Background(), nil, techs, 1000); len(got) != MaxLimit {
		t.Fatalf("len=%d, want %d", len(got), MaxLimit)
	}
}

func TestRankKeepsTechnicianWhenLookupFails(t *testing.T) {
	enr := &fakeEnricher{failShop: map[string]bool{"a": true}, completed: map[string]int{"a": 2}}
	r := NewRanker(enr, nil, 1, time.Second, zap.NewNop())
	got := r.Rank(context.Background(), nil, []models.Technician{tech("a", 4)}, 10)
	if len(got) != 1 {
		t.Fatalf("technician dropped after failed lookup")
	}
	if got[0].ShopName != "" || got[0].CompletedRepairs != 2 {
		t.Fatalf("got %+v", got[0])
	}
}

func TestRankDistances(t *testing.T) {
	r := NewRanker(nil, nil, 1, time.Second, zap.NewNop())
	seq := []float64{0.1, 0.2, 0.9, 0.8}
	n := 0
	r.rnd = func() float64 { v := seq[n%len(seq)]; n++; return v }

	located := tech("located", 4)
	located.Latitude, located.Longitude = ptr(14.6), ptr(121.0)
	viewer := &models.GeoPoint{Latitude: 14.6, Longitude: 121.0}

	first := r.Rank(context.Background(), viewer, []models.Technician{located, tech("nowhere", 3)}, 10)
	if first[0].Distance == nil || *first[0].Distance != 0 || first[0].DistanceEstimated {
		t.Fatalf("located technician: %+v", first[0])
	}
	if first[1].Distance == nil || !first[1].DistanceEstimated {
		t.Fatalf("technician without location should get an estimated distance: %+v", first[1])
	}

	second := r.Rank(context.Background(), viewer, []models.Technician{located, tech("nowhere", 3)}, 10)
	if *first[1].Distance == *second[1].Distance {
		t.Fatalf("estimated distance should change between calls, got %v twice", *first[1].Distance)
	}
}

func TestTopRatedUsesApprovedSetAndViewer(t *testing.T) {
	store := memoryRepo.NewStore()
	store.Technicians["ok"] = tech("ok", 4.2)
	blocked := tech("blocked", 5)
	blocked.IsBlocked = true
	store.Technicians["blocked"] = blocked
	pending := tech("pending", 5)
	pending.Status = models.TechnicianPending
	store.Technicians["pending"] = pending
	unsubmitted := tech("unsubmitted", 5)
	unsubmitted.Submitted = false
	store.Technicians["unsubmitted"] = unsubmitted
	store.Users["viewer"] = models.User{UID: "viewer", Latitude: ptr(14.6), Longitude: ptr(121.0)}

	enr := RepositoryEnricher{Shops: memoryRepo.ShopRepo{S: store}, Appointments: memoryRepo.AppointmentRepo{S: store}}
	svc := NewDefaultRankingService(
		memoryRepo.TechnicianRepo{S: store},
		memoryRepo.UserRepo{S: store},
		NewRanker(enr, nil, 4, time.Second, zap.NewNop()),
		nil, time.Minute, zap.NewNop(),
	)

	got, err := svc.TopRated(context.Background(), "viewer", 10)
	if err != nil {
		t.Fatalf("TopRated: %v", err)
	}
	if len(got) != 1 || got[0].UID != "ok" {
		t.Fatalf("got %+v, want only the approved technician", got)
	}
	if got[0].Distance == nil {
		t.Fatalf("viewer with location should receive distances")
	}

	anon, err := svc.TopRated(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("TopRated anonymous: %v", err)
	}
	if anon[0].Distance != nil {
		t.Fatalf("anonymous viewer should not receive distances")
	}
}

func TestTopRatedRepositoryError(t *testing.T) {
	store := memoryRepo.NewStore()
	store.Err = errors.New("unavailable")
	svc := NewDefaultRankingService(memoryRepo.TechnicianRepo{S: store}, nil, NewRanker(nil, nil, 1, time.Second, zap.NewNop()), nil, time.Minute, zap.NewNop())
	if _, err := svc.TopRated(context.Background(), "", 10); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCacheKey(t *testing.T) {
	if got := cacheKey(10); got != "ranking:top:10" {
		t.Fatalf("cacheKey(10)=%q", got)
	}
	if cacheKey(5) == cacheKey(10) {
		t.Fatalf("limits must not share a key")
	}
}

func TestCachedOrderGivesEachViewerOwnDistance(t *testing.T) {
	r := NewRanker(nil, nil, 1, time.Second, zap.NewNop())
	located := tech("located", 4)
	located.Latitude, located.Longitude = ptr(14.6), ptr(121.1)

	payload, err := encodeEntries(r.Order(context.Background(), []models.Technician{located}, 10))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(string(payload), "distance") {
		t.Fatalf("cached payload carries viewer data: %s", payload)
	}
	cached, err := decodeEntries(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	loc := models.GeoPoint{Latitude: 14.6, Longitude: 121.1}
	viewers := []models.GeoPoint{
		{Latitude: 14.5951, Longitude: 121.0},
		{Latitude: 14.6049, Longitude: 121.0},
	}
	var distances []float64
	for _, v := range viewers {
		v := v
		got := r.WithDistances(&v, cached)
		if len(got) != 1 || got[0].Distance == nil {
			t.Fatalf("viewer %+v got %+v", v, got)
		}
		if want := haversine(v, loc); *got[0].Distance != want {
			t.Fatalf("viewer %+v distance=%v want %v", v, *got[0].Distance, want)
		}
		distances = append(distances, *got[0].Distance)
	}
	if distances[0] == distances[1] {
		t.Fatalf("viewers 0.01 degrees apart got the same distance %v", distances[0])
	}

	if anon := r.WithDistances(nil, cached); anon[0].Distance != nil {
		t.Fatalf("anonymous viewer should not receive distances")
	}
}
