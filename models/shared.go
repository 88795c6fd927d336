package models

// Notification targets.
const (
	TargetUser       = "user"
	TargetTechnician = "technician"
)

// NotificationPayload is the queued push message for a user or technician.
type NotificationPayload struct {
	ID     string            `json:"id"`     // userId or technicianId
	Target string            `json:"target"` // "user" or "technician"
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}
