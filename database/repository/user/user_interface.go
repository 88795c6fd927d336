package userRepo

import (
	"context"

	"repairhub/models"
)

// UserRepository defines methods for user and admin data access.
type UserRepository interface {
	// GetAll retrieves every user document.
	GetAll(ctx context.Context) ([]models.User, error)
	// GetByID retrieves a user by uid.
	GetByID(ctx context.Context, uid string) (*models.User, error)
	// Create writes a new user profile keyed by uid.
	Create(ctx context.Context, user *models.User) error
	// IsAdmin reports whether uid has a document in the admins collection.
	IsAdmin(ctx context.Context, uid string) (bool, error)
	// Watch pushes the full user set on every change until ctx ends.
	Watch(ctx context.Context, fn func([]models.User)) error
}
