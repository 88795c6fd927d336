package feedbackRepo

import (
	"context"
	"fmt"
	"time"

	"repairhub/database"
	"repairhub/models"

	"cloud.google.com/go/firestore"
	"golang.org/x/sync/errgroup"
)

// FeedbackCollections lists every collection feedback is read from.
var FeedbackCollections = []string{database.FeedbackCollection, database.FeedbacksCollection}

// FirestoreFeedbackRepo implements FeedbackRepository on Firestore.
type FirestoreFeedbackRepo struct {
	client *firestore.Client
}

// NewFirestoreFeedbackRepo creates a new FeedbackRepository backed by Firestore.
func NewFirestoreFeedbackRepo(client *firestore.Client) FeedbackRepository {
	return &FirestoreFeedbackRepo{client: client}
}

func decodeFeedback(source, id string, m map[string]interface{}) models.Feedback {
	msg := database.String(m, "message")
	if msg == "" {
		msg = database.String(m, "comment")
	}
	return models.Feedback{
		ID:           id,
		UserID:       database.String(m, "userId"),
		TechnicianID: database.String(m, "technicianId"),
		Message:      msg,
		Rating:       database.Float(m, "rating"),
		CreatedAt:    database.Time(m["createdAt"]),
		Source:       source,
	}
}

func decodeRating(id string, m map[string]interface{}) models.Rating {
	v, ok := database.FloatOK(m, "rating")
	if !ok {
		v = database.Float(m, "value")
	}
	return models.Rating{
		ID:           id,
		TechnicianID: database.String(m, "technicianId"),
		UserID:       database.String(m, "userId"),
		Value:        v,
		CreatedAt:    database.Time(m["createdAt"]),
	}
}

func feedbackFrom(source string, docs []*firestore.DocumentSnapshot) []models.Feedback {
	out := make([]models.Feedback, 0, len(docs))
	for _, d := range docs {
		out = append(out, decodeFeedback(source, d.Ref.ID, d.Data()))
	}
	return out
}

func ratingsFrom(docs []*firestore.DocumentSnapshot) []models.Rating {
	out := make([]models.Rating, 0, len(docs))
	for _, d := range docs {
		out = append(out, decodeRating(d.Ref.ID, d.Data()))
	}
	return out
}

func (r *FirestoreFeedbackRepo) GetAllFeedback(ctx context.Context) ([]models.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	parts := make([][]models.Feedback, len(FeedbackCollections))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range FeedbackCollections {
		i, name := i, name
		g.Go(func() error {
			docs, err := database.GetAll(gctx, r.client.Collection(name).Query)
			if err != nil {
				return fmt.Errorf("failed to retrieve %s: %w", name, err)
			}
			parts[i] = feedbackFrom(name, docs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []models.Feedback
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

func (r *FirestoreFeedbackRepo) GetAllRatings(ctx context.Context) ([]models.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	docs, err := database.GetAll(ctx, r.client.Collection(database.RatingsCollection).Query)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ratings: %w", err)
	}
	return ratingsFrom(docs), nil
}

func (r *FirestoreFeedbackRepo) WatchFeedback(ctx context.Context, collection string, fn func([]models.Feedback)) error {
	return database.Watch(ctx, r.client.Collection(collection).Query, func(docs []*firestore.DocumentSnapshot) {
		fn(feedbackFrom(collection, docs))
	})
}

func (r *FirestoreFeedbackRepo) WatchRatings(ctx context.Context, fn func([]models.Rating)) error {
	return database.Watch(ctx, r.client.Collection(database.RatingsCollection).Query, func(docs []*firestore.DocumentSnapshot) {
		fn(ratingsFrom(docs))
	})
}
