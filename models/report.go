package models

import "time"

// Report review states.
const (
	ReportPending  = "pending"
	ReportReviewed = "reviewed"
	ReportResolved = "resolved"
)

// ValidReportStatus reports whether s is a known report status.
func ValidReportStatus(s string) bool {
	switch s {
	case ReportPending, ReportReviewed, ReportResolved:
		return true
	}
	return false
}

// Report is a user's complaint about a technician.
type Report struct {
	ID           string    `firestore:"id" json:"id"`
	TechnicianID string    `firestore:"technicianId" json:"technicianId"`
	UserID       string    `firestore:"userId" json:"userId"`
	Reason       string    `firestore:"reason" json:"reason"`
	Status       string    `firestore:"status" json:"status"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
}

// ReportFilter narrows a report listing.
type ReportFilter struct {
	TechnicianID string
	Status       string
	Limit        int
}

// ReportOutcome is the result of a report submission.
type ReportOutcome struct {
	Report       Report `json:"report"`
	TotalReports int    `json:"totalReports"`
	AutoBlocked  bool   `json:"autoBlocked"`
}
