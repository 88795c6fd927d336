package shopRepo

import (
	"context"
	"fmt"
	"time"

	"repairhub/database"
	"repairhub/models"
	"repairhub/utils"

	"cloud.google.com/go/firestore"
)

// FirestoreShopRepo implements ShopRepository on Firestore.
type FirestoreShopRepo struct {
	client *firestore.Client
}

// NewFirestoreShopRepo creates a new ShopRepository backed by Firestore.
func NewFirestoreShopRepo(client *firestore.Client) ShopRepository {
	return &FirestoreShopRepo{client: client}
}

func (r *FirestoreShopRepo) coll() *firestore.CollectionRef {
	return r.client.Collection(database.ShopsCollection)
}

func decodeShop(id string, m map[string]interface{}) models.Shop {
	name := database.String(m, "name")
	if name == "" {
		name = database.String(m, "shopName")
	}
	return models.Shop{
		UID:          id,
		TechnicianID: database.String(m, "technicianId"),
		Name:         name,
		Address:      database.String(m, "address"),
		WorkingHours: database.String(m, "workingHours"),
		WorkingDays:  database.StringSlice(m, "workingDays"),
		IsDeleted:    database.Bool(m, "isDeleted"),
	}
}

func decodeAll(docs []*firestore.DocumentSnapshot) []models.Shop {
	out := make([]models.Shop, 0, len(docs))
	for _, d := range docs {
		out = append(out, decodeShop(d.Ref.ID, d.Data()))
	}
	return out
}

func (r *FirestoreShopRepo) GetAll(ctx context.Context) ([]models.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	docs, err := database.GetAll(ctx, r.coll().Query)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve shops: %w", err)
	}
	return decodeAll(docs), nil
}

func (r *FirestoreShopRepo) FindForTechnician(ctx context.Context, technicianID string) (*models.Shop, error) {
	snap, err := r.coll().Doc(technicianID).Get(ctx)
	switch {
	case err == nil:
		s := decodeShop(snap.Ref.ID, snap.Data())
		return &s, nil
	case !utils.IsNotFound(err):
		return nil, fmt.Errorf("failed to fetch shop %s: %w", technicianID, err)
	}

	docs, err := database.GetAll(ctx, r.coll().Where("technicianId", "==", technicianID).Limit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to find shop for technician %s: %w", technicianID, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	s := decodeShop(docs[0].Ref.ID, docs[0].Data())
	return &s, nil
}

func (r *FirestoreShopRepo) Watch(ctx context.Context, fn func([]models.Shop)) error {
	return database.Watch(ctx, r.coll().Query, func(docs []*firestore.DocumentSnapshot) {
		fn(decodeAll(docs))
	})
}
