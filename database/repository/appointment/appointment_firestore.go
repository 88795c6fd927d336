package appointmentRepo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"repairhub/database"
	"repairhub/models"

	"cloud.google.com/go/firestore"
)

// FirestoreAppointmentRepo implements AppointmentRepository on Firestore.
type FirestoreAppointmentRepo struct {
	client *firestore.Client
}

// NewFirestoreAppointmentRepo creates a new AppointmentRepository backed by Firestore.
func NewFirestoreAppointmentRepo(client *firestore.Client) AppointmentRepository {
	return &FirestoreAppointmentRepo{client: client}
}

func (r *FirestoreAppointmentRepo) coll() *firestore.CollectionRef {
	return r.client.Collection(database.AppointmentsCollection)
}

// newContext derives a bounded context for a single repository call.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func decodeAll(docs []*firestore.DocumentSnapshot) []models.Appointment {
	out := make([]models.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, decodeAppointment(d.Ref.ID, d.Data()))
	}
	return out
}

func (r *FirestoreAppointmentRepo) GetAll(ctx context.Context) ([]models.Appointment, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	docs, err := database.GetAll(ctx, r.coll().Query)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve appointments: %w", err)
	}
	return decodeAll(docs), nil
}

// List filters on the server and orders in memory, since createdAt is not
// stored with a consistent type.
func (r *FirestoreAppointmentRepo) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	q := r.coll().Query
	if filter.Status != "" {
		q = q.Where("status.global", "==", string(filter.Status))
	}
	if filter.TechnicianID != "" {
		q = q.Where("technicianId", "==", filter.TechnicianID)
	}

	docs, err := database.GetAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	out := decodeAll(docs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *FirestoreAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointment with id %s: %w", id, err)
	}
	a := decodeAppointment(snap.Ref.ID, snap.Data())
	return &a, nil
}

func (r *FirestoreAppointmentRepo) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll().Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: statusDocument(status)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to update status of appointment %s: %w", id, err)
	}
	return nil
}

// CountCompletedByTechnician decodes the technician's appointments and counts
// them with the same status normalization the list and stats reads use, so
// "completed" and legacy plain-string statuses are included.
func (r *FirestoreAppointmentRepo) CountCompletedByTechnician(ctx context.Context, technicianID string) (int, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	docs, err := database.GetAll(ctx, r.coll().Where("technicianId", "==", technicianID))
	if err != nil {
		return 0, fmt.Errorf("failed to count completed appointments for %s: %w", technicianID, err)
	}
	return countCompleted(decodeAll(docs)), nil
}

func (r *FirestoreAppointmentRepo) Watch(ctx context.Context, fn func([]models.Appointment)) error {
	return database.Watch(ctx, r.coll().Query, func(docs []*firestore.DocumentSnapshot) {
		fn(decodeAll(docs))
	})
}
