package technicianRepo

import (
	"context"
	"fmt"
	"time"

	"repairhub/database"
	"repairhub/models"

	"cloud.google.com/go/firestore"
)

// FirestoreTechnicianRepo implements TechnicianRepository on Firestore.
type FirestoreTechnicianRepo struct {
	client *firestore.Client
}

// NewFirestoreTechnicianRepo creates a new TechnicianRepository backed by Firestore.
func NewFirestoreTechnicianRepo(client *firestore.Client) TechnicianRepository {
	return &FirestoreTechnicianRepo{client: client}
}

func (r *FirestoreTechnicianRepo) coll() *firestore.CollectionRef {
	return r.client.Collection(database.TechniciansCollection)
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func decodeAll(docs []*firestore.DocumentSnapshot) []models.Technician {
	out := make([]models.Technician, 0, len(docs))
	for _, d := range docs {
		out = append(out, decodeTechnician(d.Ref.ID, d.Data()))
	}
	return out
}

func (r *FirestoreTechnicianRepo) GetAll(ctx context.Context) ([]models.Technician, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	docs, err := database.GetAll(ctx, r.coll().Query)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve technicians: %w", err)
	}
	return decodeAll(docs), nil
}

func (r *FirestoreTechnicianRepo) List(ctx context.Context, filter models.TechnicianFilter) ([]models.Technician, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	q := r.coll().Query
	if filter.Status != "" {
		q = q.Where("status", "==", filter.Status)
	}
	docs, err := database.GetAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}

	techs := decodeAll(docs)
	if filter.IncludeDeleted {
		return techs, nil
	}
	out := techs[:0]
	for _, t := range techs {
		if !t.IsDeleted {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListApproved queries on status and submitted; the moderation flags are
// checked in memory because older documents omit them.
func (r *FirestoreTechnicianRepo) ListApproved(ctx context.Context) ([]models.Technician, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	q := r.coll().
		Where("status", "==", models.TechnicianApproved).
		Where("submitted", "==", true)
	docs, err := database.GetAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved technicians: %w", err)
	}

	out := make([]models.Technician, 0, len(docs))
	for _, t := range decodeAll(docs) {
		if t.Rankable() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *FirestoreTechnicianRepo) GetByID(ctx context.Context, uid string) (*models.Technician, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.coll().Doc(uid).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch technician %s: %w", uid, err)
	}
	t := decodeTechnician(snap.Ref.ID, snap.Data())
	return &t, nil
}

func (r *FirestoreTechnicianRepo) Create(ctx context.Context, tech *models.Technician) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if tech.Categories == nil {
		tech.Categories = []string{}
	}
	if _, err := r.coll().Doc(tech.UID).Create(ctx, tech); err != nil {
		return fmt.Errorf("failed to create technician %s: %w", tech.UID, err)
	}
	return nil
}

func (r *FirestoreTechnicianRepo) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	updates := make([]firestore.Update, 0, len(fields)+1)
	for path, v := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: v})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	if _, err := r.coll().Doc(uid).Update(ctx, updates); err != nil {
		return fmt.Errorf("failed to update technician %s: %w", uid, err)
	}
	return nil
}

func (r *FirestoreTechnicianRepo) Watch(ctx context.Context, fn func([]models.Technician)) error {
	return database.Watch(ctx, r.coll().Query, func(docs []*firestore.DocumentSnapshot) {
		fn(decodeAll(docs))
	})
}
