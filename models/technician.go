package models

import "time"

// Technician review states.
const (
	TechnicianPending  = "pending"
	TechnicianApproved = "approved"
	TechnicianRejected = "rejected"
)

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Technician is a repair professional. The moderation flags are independent
// booleans; there is no single state machine behind them.
type Technician struct {
	UID           string     `firestore:"uid" json:"uid"`
	Name          string     `firestore:"name,omitempty" json:"name,omitempty"`
	Email         string     `firestore:"email,omitempty" json:"email,omitempty"`
	Phone         string     `firestore:"phone,omitempty" json:"phone,omitempty"`
	Status        string     `firestore:"status" json:"status"`
	Submitted     bool       `firestore:"submitted" json:"submitted"`
	HasShop       bool       `firestore:"hasShop" json:"hasShop"`
	Type          string     `firestore:"type,omitempty" json:"type,omitempty"`
	Rating        float64    `firestore:"rating" json:"rating"`
	AverageRating float64    `firestore:"averageRating" json:"averageRating"`
	Categories    []string   `firestore:"categories" json:"categories"`
	IsBlocked     bool       `firestore:"isBlocked" json:"isBlocked"`
	IsBanned      bool       `firestore:"isBanned" json:"isBanned"`
	IsSuspended   bool       `firestore:"isSuspended" json:"isSuspended"`
	IsDeleted     bool       `firestore:"isDeleted" json:"isDeleted"`
	Latitude      *float64   `firestore:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude     *float64   `firestore:"longitude,omitempty" json:"longitude,omitempty"`
	ProfileImage  string     `firestore:"profileImage,omitempty" json:"profileImage,omitempty"`
	FCMToken      string     `firestore:"fcmToken,omitempty" json:"-"`
	TotalReports  int        `firestore:"totalReports" json:"totalReports"`
	CreatedAt     *time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// IsApproved reports whether the technician passed review and submitted the
// application.
func (t Technician) IsApproved() bool {
	return t.Status == TechnicianApproved && t.Submitted
}

// IsRestricted reports whether any moderation flag hides the technician.
func (t Technician) IsRestricted() bool {
	return t.IsBlocked || t.IsBanned || t.IsSuspended || t.IsDeleted
}

// Rankable reports whether the technician may appear in public rankings.
func (t Technician) Rankable() bool {
	return t.IsApproved() && !t.IsRestricted()
}

// EffectiveRating prefers the stored rating and falls back to the average.
func (t Technician) EffectiveRating() float64 {
	if t.Rating > 0 {
		return t.Rating
	}
	return t.AverageRating
}

// Location returns the stored coordinates, if both are present.
func (t Technician) Location() (GeoPoint, bool) {
	if t.Latitude == nil || t.Longitude == nil {
		return GeoPoint{}, false
	}
	return GeoPoint{Latitude: *t.Latitude, Longitude: *t.Longitude}, true
}

// TechnicianFilter narrows a technician listing.
type TechnicianFilter struct {
	Status         string
	IncludeDeleted bool
}

// ModerationAction is an admin operation on a technician.
type ModerationAction string

const (
	ActionApprove   ModerationAction = "approve"
	ActionReject    ModerationAction = "reject"
	ActionBlock     ModerationAction = "block"
	ActionUnblock   ModerationAction = "unblock"
	ActionBan       ModerationAction = "ban"
	ActionSuspend   ModerationAction = "suspend"
	ActionUnsuspend ModerationAction = "unsuspend"
	ActionDelete    ModerationAction = "delete"
)
