package models

import "time"

// Feedback is free-form feedback. It is read from both the "feedback" and
// the legacy "feedbacks" collections; Source records which one.
type Feedback struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId,omitempty"`
	TechnicianID string     `json:"technicianId,omitempty"`
	Message      string     `json:"message,omitempty"`
	Rating       float64    `json:"rating,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	Source       string     `json:"source"`
}

// Rating is a single star rating left for a technician.
type Rating struct {
	ID           string     `json:"id"`
	TechnicianID string     `json:"technicianId"`
	UserID       string     `json:"userId"`
	Value        float64    `json:"value"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}
