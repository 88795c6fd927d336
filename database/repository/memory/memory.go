// Package memoryRepo holds in-memory repository fakes for service and handler
// tests. It is not a storage backend and main does not wire it.
package memoryRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	reportRepo "repairhub/database/repository/report"
	"repairhub/models"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func notFound(kind, id string) error {
	return status.Errorf(codes.NotFound, "%s %s not found", kind, id)
}

// Store keeps every collection behind one mutex. Err, when set, is returned
// by every call.
type Store struct {
	mu           sync.Mutex
	Users        map[string]models.User
	Admins       map[string]bool
	Technicians  map[string]models.Technician
	Shops        map[string]models.Shop
	Appointments map[string]models.Appointment
	Reports      map[string]models.Report
	Feedback     []models.Feedback
	Ratings      []models.Rating
	Snapshots    []models.StatsSnapshot
	Err          error
}

func NewStore() *Store {
	return &Store{
		Users:        map[string]models.User{},
		Admins:       map[string]bool{},
		Technicians:  map[string]models.Technician{},
		Shops:        map[string]models.Shop{},
		Appointments: map[string]models.Appointment{},
		Reports:      map[string]models.Report{},
	}
}

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// Users

type UserRepo struct{ S *Store }

func (r UserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	out := make([]models.User, 0, len(r.S.Users))
	for _, u := range r.S.Users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r UserRepo) GetByID(ctx context.Context, uid string) (*models.User, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	u, ok := r.S.Users[uid]
	if !ok {
		return nil, notFound("user", uid)
	}
	return &u, nil
}

func (r UserRepo) Create(ctx context.Context, user *models.User) error {
	defer r.S.lock()()
	if r.S.Err != nil {
		return r.S.Err
	}
	if _, ok := r.S.Users[user.UID]; ok {
		return status.Errorf(codes.AlreadyExists, "user %s exists", user.UID)
	}
	r.S.Users[user.UID] = *user
	return nil
}

func (r UserRepo) IsAdmin(ctx context.Context, uid string) (bool, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return false, r.S.Err
	}
	return r.S.Admins[uid], nil
}

func (r UserRepo) Watch(ctx context.Context, fn func([]models.User)) error {
	all, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	fn(all)
	<-ctx.Done()
	return nil
}

// Technicians

type TechnicianRepo struct{ S *Store }

func (r TechnicianRepo) sorted() []models.Technician {
	out := make([]models.Technician, 0, len(r.S.Technicians))
	for _, t := range r.S.Technicians {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}

func (r TechnicianRepo) GetAll(ctx context.Context) ([]models.Technician, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	return r.sorted(), nil
}

func (r TechnicianRepo) List(ctx context.Context, filter models.TechnicianFilter) ([]models.Technician, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	var out []models.Technician
	for _, t := range r.sorted() {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if t.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r TechnicianRepo) ListApproved(ctx context.Context) ([]models.Technician, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	var out []models.Technician
	for _, t := range r.sorted() {
		if t.Rankable() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r TechnicianRepo) GetByID(ctx context.Context, uid string) (*models.Technician, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	t, ok := r.S.Technicians[uid]
	if !ok {
		return nil, notFound("technician", uid)
	}
	return &t, nil
}

func (r TechnicianRepo) Create(ctx context.Context, tech *models.Technician) error {
	defer r.S.lock()()
	if r.S.Err != nil {
		return r.S.Err
	}
	if _, ok := r.S.Technicians[tech.UID]; ok {
		return status.Errorf(codes.AlreadyExists, "technician %s exists", tech.UID)
	}
	r.S.Technicians[tech.UID] = *tech
	return nil
}

// UpdateFields understands the fields the services write.
func (r TechnicianRepo) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	defer r.S.lock()()
	if r.S.Err != nil {
		return r.S.Err
	}
	t, ok := r.S.Technicians[uid]
	if !ok {
		return notFound("technician", uid)
	}
	for k, v := range fields {
		switch k {
		case "status":
			t.Status = v.(string)
		case "isBlocked":
			t.IsBlocked = v.(bool)
		case "isBanned":
			t.IsBanned = v.(bool)
		case "isSuspended":
			t.IsSuspended = v.(bool)
		case "isDeleted":
			t.IsDeleted = v.(bool)
		case "totalReports":
			t.TotalReports = v.(int)
		}
	}
	r.S.Technicians[uid] = t
	return nil
}

func (r TechnicianRepo) Watch(ctx context.Context, fn func([]models.Technician)) error {
	all, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	fn(all)
	<-ctx.Done()
	return nil
}

// Shops

type ShopRepo struct{ S *Store }

func (r ShopRepo) GetAll(ctx context.Context) ([]models.Shop, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	out := make([]models.Shop, 0, len(r.S.Shops))
	for _, s := range r.S.Shops {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r ShopRepo) FindForTechnician(ctx context.Context, technicianID string) (*models.Shop, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.UID == technicianID {
			return &s, nil
		}
	}
	for _, s := range all {
		if s.TechnicianID == technicianID {
			return &s, nil
		}
	}
	return nil, nil
}

func (r ShopRepo) Watch(ctx context.Context, fn func([]models.Shop)) error {
	all, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	fn(all)
	<-ctx.Done()
	return nil
}

// Appointments

type AppointmentRepo struct{ S *Store }

func (r AppointmentRepo) GetAll(ctx context.Context) ([]models.Appointment, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	out := make([]models.Appointment, 0, len(r.S.Appointments))
	for _, a := range r.S.Appointments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r AppointmentRepo) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Appointment
	for _, a := range all {
		if filter.Status != "" && a.Status.Global != filter.Status {
			continue
		}
		if filter.TechnicianID != "" && a.TechnicianID != filter.TechnicianID {
			continue
		}
		out = append(out, a)
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r AppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	a, ok := r.S.Appointments[id]
	if !ok {
		return nil, notFound("appointment", id)
	}
	return &a, nil
}

func (r AppointmentRepo) UpdateStatus(ctx context.Context, id string, st models.AppointmentStatus) error {
	defer r.S.lock()()
	if r.S.Err != nil {
		return r.S.Err
	}
	a, ok := r.S.Appointments[id]
	if !ok {
		return notFound("appointment", id)
	}
	a.Status = st
	r.S.Appointments[id] = a
	return nil
}

func (r AppointmentRepo) CountCompletedByTechnician(ctx context.Context, technicianID string) (int, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return 0, r.S.Err
	}
	n := 0
	for _, a := range r.S.Appointments {
		if a.TechnicianID == technicianID && a.Status.Global == models.StatusCompleted {
			n++
		}
	}
	return n, nil
}

func (r AppointmentRepo) Watch(ctx context.Context, fn func([]models.Appointment)) error {
	all, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	fn(all)
	<-ctx.Done()
	return nil
}

// Reports

type ReportRepo struct{ S *Store }

// Submit holds the store lock for the whole read-decide-write sequence,
// which gives it the same serialisation as the Firestore transaction.
func (r ReportRepo) Submit(ctx context.Context, report models.Report, decide reportRepo.BlockDecision) (models.ReportOutcome, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return models.ReportOutcome{}, r.S.Err
	}
	t, ok := r.S.Technicians[report.TechnicianID]
	if !ok {
		return models.ReportOutcome{}, notFound("technician", report.TechnicianID)
	}
	if _, dup := r.S.Reports[report.ID]; dup {
		return models.ReportOutcome{}, status.Errorf(codes.AlreadyExists, "report %s exists", report.ID)
	}
	existing := 0
	for _, rep := range r.S.Reports {
		if rep.TechnicianID == report.TechnicianID {
			existing++
		}
	}
	total, block := decide(existing)
	r.S.Reports[report.ID] = report

	wasBlocked := t.IsBlocked
	t.TotalReports = total
	if block {
		t.IsBlocked = true
	}
	r.S.Technicians[t.UID] = t
	return models.ReportOutcome{Report: report, TotalReports: total, AutoBlocked: block && !wasBlocked}, nil
}

func (r ReportRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	rep, ok := r.S.Reports[id]
	if !ok {
		return nil, notFound("report", id)
	}
	return &rep, nil
}

func (r ReportRepo) UpdateStatus(ctx context.Context, id, st string) error {
	defer r.S.lock()()
	if r.S.Err != nil {
		return r.S.Err
	}
	rep, ok := r.S.Reports[id]
	if !ok {
		return notFound("report", id)
	}
	rep.Status = st
	r.S.Reports[id] = rep
	return nil
}

func (r ReportRepo) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	var out []models.Report
	for _, rep := range r.S.Reports {
		if filter.TechnicianID != "" && rep.TechnicianID != filter.TechnicianID {
			continue
		}
		if filter.Status != "" && rep.Status != filter.Status {
			continue
		}
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Feedback

type FeedbackRepo struct{ S *Store }

func (r FeedbackRepo) GetAllFeedback(ctx context.Context) ([]models.Feedback, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	return append([]models.Feedback(nil), r.S.Feedback...), nil
}

func (r FeedbackRepo) GetAllRatings(ctx context.Context) ([]models.Rating, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	return append([]models.Rating(nil), r.S.Ratings...), nil
}

func (r FeedbackRepo) WatchFeedback(ctx context.Context, collection string, fn func([]models.Feedback)) error {
	all, err := r.GetAllFeedback(ctx)
	if err != nil {
		return err
	}
	var part []models.Feedback
	for _, f := range all {
		if f.Source == collection {
			part = append(part, f)
		}
	}
	fn(part)
	<-ctx.Done()
	return nil
}

func (r FeedbackRepo) WatchRatings(ctx context.Context, fn func([]models.Rating)) error {
	all, err := r.GetAllRatings(ctx)
	if err != nil {
		return err
	}
	fn(all)
	<-ctx.Done()
	return nil
}

// Snapshots

type SnapshotRepo struct{ S *Store }

func (r SnapshotRepo) Save(ctx context.Context, snap models.StatsSnapshot) error {
	defer r.S.lock()()
	if r.S.Err != nil {
		return r.S.Err
	}
	r.S.Snapshots = append(r.S.Snapshots, snap)
	return nil
}

func (r SnapshotRepo) Latest(ctx context.Context, limit int) ([]models.StatsSnapshot, error) {
	defer r.S.lock()()
	if r.S.Err != nil {
		return nil, r.S.Err
	}
	out := append([]models.StatsSnapshot(nil), r.S.Snapshots...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stats.GeneratedAt.After(out[j].Stats.GeneratedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MustTechnician panics when uid is unknown. Test helper.
func (s *Store) MustTechnician(uid string) models.Technician {
	defer s.lock()()
	t, ok := s.Technicians[uid]
	if !ok {
		panic(fmt.Sprintf("technician %s not in store", uid))
	}
	return t
}
