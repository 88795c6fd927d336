package userRepo

import (
	"context"
	"fmt"
	"time"

	"repairhub/database"
	"repairhub/models"
	"repairhub/utils"

	"cloud.google.com/go/firestore"
)

// FirestoreUserRepo implements UserRepository on Firestore.
type FirestoreUserRepo struct {
	client *firestore.Client
}

// NewFirestoreUserRepo creates a new UserRepository backed by Firestore.
func NewFirestoreUserRepo(client *firestore.Client) UserRepository {
	return &FirestoreUserRepo{client: client}
}

func (r *FirestoreUserRepo) coll() *firestore.CollectionRef {
	return r.client.Collection(database.UsersCollection)
}

func decodeUser(id string, m map[string]interface{}) models.User {
	u := models.User{
		UID:       id,
		Name:      database.String(m, "name"),
		Email:     database.String(m, "email"),
		Phone:     database.String(m, "phone"),
		Role:      database.String(m, "role"),
		IsDeleted: database.Bool(m, "isDeleted"),
		Latitude:  database.FloatPtr(m, "latitude"),
		Longitude: database.FloatPtr(m, "longitude"),
		FCMToken:  database.String(m, "fcmToken"),
		CreatedAt: database.Time(m["createdAt"]),
	}
	if u.Latitude == nil || u.Longitude == nil {
		if loc := database.Map(m, "location"); loc != nil {
			u.Latitude = database.FloatPtr(loc, "latitude")
			u.Longitude = database.FloatPtr(loc, "longitude")
		}
	}
	return u
}

func decodeAll(docs []*firestore.DocumentSnapshot) []models.User {
	out := make([]models.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, decodeUser(d.Ref.ID, d.Data()))
	}
	return out
}

func (r *FirestoreUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	docs, err := database.GetAll(ctx, r.coll().Query)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return decodeAll(docs), nil
}

func (r *FirestoreUserRepo) GetByID(ctx context.Context, uid string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.coll().Doc(uid).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", uid, err)
	}
	u := decodeUser(snap.Ref.ID, snap.Data())
	return &u, nil
}

func (r *FirestoreUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll().Doc(user.UID).Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.UID, err)
	}
	return nil
}

func (r *FirestoreUserRepo) IsAdmin(ctx context.Context, uid string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := r.client.Collection(database.AdminsCollection).Doc(uid).Get(ctx)
	if err != nil {
		if utils.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check admin membership for %s: %w", uid, err)
	}
	return snap.Exists(), nil
}

func (r *FirestoreUserRepo) Watch(ctx context.Context, fn func([]models.User)) error {
	return database.Watch(ctx, r.coll().Query, func(docs []*firestore.DocumentSnapshot) {
		fn(decodeAll(docs))
	})
}
