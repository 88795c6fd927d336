package technicianRepo

import (
	"repairhub/database"
	"repairhub/models"
)

// decodeTechnician reads a technician document. Coordinates are taken from
// top-level latitude/longitude or from a nested location map.
func decodeTechnician(id string, m map[string]interface{}) models.Technician {
	t := models.Technician{
		UID:           id,
		Name:          firstNonEmpty(database.String(m, "name"), database.String(m, "fullName")),
		Email:         database.String(m, "email"),
		Phone:         database.String(m, "phone"),
		Status:        database.String(m, "status"),
		Submitted:     database.Bool(m, "submitted"),
		HasShop:       database.Bool(m, "hasShop"),
		Type:          database.String(m, "type"),
		Rating:        database.Float(m, "rating"),
		AverageRating: database.Float(m, "averageRating"),
		Categories:    database.StringSlice(m, "categories"),
		IsBlocked:     database.Bool(m, "isBlocked"),
		IsBanned:      database.Bool(m, "isBanned"),
		IsSuspended:   database.Bool(m, "isSuspended"),
		IsDeleted:     database.Bool(m, "isDeleted"),
		Latitude:      database.FloatPtr(m, "latitude"),
		Longitude:     database.FloatPtr(m, "longitude"),
		ProfileImage:  database.String(m, "profileImage"),
		FCMToken:      database.String(m, "fcmToken"),
		TotalReports:  database.Int(m, "totalReports"),
		CreatedAt:     database.Time(m["createdAt"]),
	}
	if t.Latitude == nil || t.Longitude == nil {
		if loc := database.Map(m, "location"); loc != nil {
			t.Latitude = database.FloatPtr(loc, "latitude")
			t.Longitude = database.FloatPtr(loc, "longitude")
		}
	}
	return t
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
