package feedbackRepo

import (
	"context"

	"repairhub/models"
)

// FeedbackRepository reads feedback and ratings. Feedback lives in two
// collections, "feedback" and the older "feedbacks"; both are always read.
type FeedbackRepository interface {
	// GetAllFeedback retrieves the entries of both feedback collections.
	GetAllFeedback(ctx context.Context) ([]models.Feedback, error)
	// GetAllRatings retrieves every rating.
	GetAllRatings(ctx context.Context) ([]models.Rating, error)
	// WatchFeedback pushes the full content of one feedback collection on
	// every change until ctx ends.
	WatchFeedback(ctx context.Context, collection string, fn func([]models.Feedback)) error
	// WatchRatings pushes the full rating set on every change until ctx ends.
	WatchRatings(ctx context.Context, fn func([]models.Rating)) error
}
