package models

// Shop is a technician's physical storefront.
type Shop struct {
	UID          string   `firestore:"uid" json:"uid"`
	TechnicianID string   `firestore:"technicianId" json:"technicianId"`
	Name         string   `firestore:"name" json:"name"`
	Address      string   `firestore:"address,omitempty" json:"address,omitempty"`
	WorkingHours string   `firestore:"workingHours,omitempty" json:"workingHours,omitempty"`
	WorkingDays  []string `firestore:"workingDays,omitempty" json:"workingDays,omitempty"`
	IsDeleted    bool     `firestore:"isDeleted" json:"isDeleted"`
}
