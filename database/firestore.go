package database

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names.
const (
	UsersCollection        = "users"
	TechniciansCollection  = "technicians"
	ShopsCollection        = "shops"
	AppointmentsCollection = "appointments"
	ReportsCollection      = "reports"
	FeedbackCollection     = "feedback"
	FeedbacksCollection    = "feedbacks"
	RatingsCollection      = "ratings"
	AdminsCollection       = "admins"
)

// GetAll runs q and returns every matching document.
func GetAll(ctx context.Context, q firestore.Query) ([]*firestore.DocumentSnapshot, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return docs, nil
}

// Watch pushes the full result of q to fn on every change until ctx is
// cancelled. It returns nil on cancellation and an error when the listener
// breaks.
func Watch(ctx context.Context, q firestore.Query, fn func([]*firestore.DocumentSnapshot)) error {
	it := q.Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
				return nil
			}
			return fmt.Errorf("snapshot listener: %w", err)
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			return fmt.Errorf("snapshot documents: %w", err)
		}
		fn(docs)
	}
}
