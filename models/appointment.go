package models

import (
	"strings"
	"time"
)

// GlobalStatus is the admin-facing lifecycle value of an appointment.
type GlobalStatus string

const (
	StatusScheduled GlobalStatus = "Scheduled"
	StatusAccepted  GlobalStatus = "Accepted"
	StatusRepairing GlobalStatus = "Repairing"
	StatusTesting   GlobalStatus = "Testing"
	StatusCompleted GlobalStatus = "Completed"
	StatusRejected  GlobalStatus = "Rejected"
	StatusCancelled GlobalStatus = "Cancelled"
)

// AllGlobalStatuses lists the known statuses in lifecycle order.
var AllGlobalStatuses = []GlobalStatus{
	StatusScheduled,
	StatusAccepted,
	StatusRepairing,
	StatusTesting,
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
}

// StatusBucket is the coarse split used on dashboards.
type StatusBucket string

const (
	BucketPending   StatusBucket = "pending"
	BucketCompleted StatusBucket = "completed"
	BucketCancelled StatusBucket = "cancelled"
	BucketOther     StatusBucket = "other"
)

var statusBuckets = map[GlobalStatus]StatusBucket{
	StatusScheduled: BucketPending,
	StatusAccepted:  BucketPending,
	StatusRepairing: BucketPending,
	StatusTesting:   BucketPending,
	StatusCompleted: BucketCompleted,
	StatusCancelled: BucketCancelled,
	StatusRejected:  BucketCancelled,
}

// BucketOf maps a global status to its dashboard bucket. This is the only
// place the mapping lives.
func BucketOf(s GlobalStatus) StatusBucket {
	if b, ok := statusBuckets[s]; ok {
		return b
	}
	return BucketOther
}

// ParseGlobalStatus matches s case-insensitively against the known statuses.
func ParseGlobalStatus(s string) (GlobalStatus, bool) {
	for _, gs := range AllGlobalStatuses {
		if strings.EqualFold(string(gs), strings.TrimSpace(s)) {
			return gs, true
		}
	}
	return "", false
}

// AppointmentStatus is stored as a nested map on the appointment document.
type AppointmentStatus struct {
	Global     GlobalStatus `firestore:"global" json:"global"`
	Technician string       `firestore:"technician,omitempty" json:"technician,omitempty"`
	UserView   string       `firestore:"userView,omitempty" json:"userView,omitempty"`
}

// Appointment is a repair request booked by a user.
type Appointment struct {
	ID                string            `json:"id"`
	UserID            string            `json:"userId"`
	TechnicianID      string            `json:"technicianId"`
	Status            AppointmentStatus `json:"status"`
	CreatedAt         *time.Time        `json:"createdAt,omitempty"`
	Category          string            `json:"category,omitempty"`
	DeviceType        string            `json:"deviceType,omitempty"`
	DiagnosisCategory string            `json:"diagnosisCategory,omitempty"`
}

// AppointmentFilter narrows an appointment listing.
type AppointmentFilter struct {
	Status       GlobalStatus
	TechnicianID string
	Limit        int
}
