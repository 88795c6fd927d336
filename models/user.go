// models/user.go
package models

import "time"

// Roles stored on profile documents.
const (
	RoleUser       = "user"
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

// User is an end customer of the mobile app.
type User struct {
	UID       string     `firestore:"uid" json:"uid"`
	Name      string     `firestore:"name,omitempty" json:"name,omitempty"`
	Email     string     `firestore:"email,omitempty" json:"email,omitempty"`
	Phone     string     `firestore:"phone,omitempty" json:"phone,omitempty"`
	Role      string     `firestore:"role,omitempty" json:"role,omitempty"`
	IsDeleted bool       `firestore:"isDeleted" json:"isDeleted"`
	Latitude  *float64   `firestore:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64   `firestore:"longitude,omitempty" json:"longitude,omitempty"`
	FCMToken  string     `firestore:"fcmToken,omitempty" json:"-"`
	CreatedAt *time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Location returns the stored coordinates, if both are present.
func (u User) Location() (GeoPoint, bool) {
	if u.Latitude == nil || u.Longitude == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Latitude: *u.Latitude, Longitude: *u.Longitude}, true
}

// AccountRequest is the admin payload that creates a user or technician
// account.
type AccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// CreatedAccount is returned after an account is provisioned.
type CreatedAccount struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
