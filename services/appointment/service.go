package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appointmentRepo "repairhub/database/repository/appointment"
	"repairhub/models"
	"repairhub/services/tasks"
	"repairhub/utils"

	"go.uber.org/zap"
)

// ErrAppointmentNotFound is returned for an unknown appointment id.
var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentService lists appointments and moves them between states.
type AppointmentService interface {
	List(ctx context.Context, status, technicianID string, limit int) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error)
}

// Invalidator drops cached views that depend on appointment state.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	repo        appointmentRepo.AppointmentRepository
	queue       tasks.Enqueuer
	invalidates []Invalidator
	logger      *zap.Logger
}

func NewDefaultAppointmentService(repo appointmentRepo.AppointmentRepository, queue tasks.Enqueuer, logger *zap.Logger, invalidates ...Invalidator) *DefaultAppointmentService {
	return &DefaultAppointmentService{repo: repo, queue: queue, invalidates: invalidates, logger: logger}
}

// List filters on an exact global status, so Rejected and Cancelled stay
// distinct here even though the dashboard counts both as cancelled.
func (s *DefaultAppointmentService) List(ctx context.Context, status, technicianID string, limit int) ([]models.Appointment, error) {
	filter := models.AppointmentFilter{TechnicianID: strings.TrimSpace(technicianID), Limit: limit}
	if status != "" {
		gs, ok := models.ParseGlobalStatus(status)
		if !ok {
			return nil, utils.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
		}
		filter.Status = gs
	}
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus sets the global status and mirrors it into the technician and
// user views.
func (s *DefaultAppointmentService) UpdateStatus(ctx context.Context, id, status string) (*models.Appointment, error) {
	gs, ok := models.ParseGlobalStatus(status)
	if !ok {
		return nil, utils.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ErrAppointmentNotFound, err)
		}
		return nil, err
	}

	next := models.AppointmentStatus{Global: gs, Technician: string(gs), UserView: userView(gs)}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	appt.Status = next

	for _, inv := range s.invalidates {
		if err := inv.Invalidate(ctx); err != nil {
			s.logger.Warn("cache invalidation failed", zap.Error(err))
		}
	}
	s.notify(appt)
	return appt, nil
}

// userView is the label the customer app shows for each state.
func userView(gs models.GlobalStatus) string {
	switch models.BucketOf(gs) {
	case models.BucketCompleted:
		return "Completed"
	case models.BucketCancelled:
		return string(gs)
	}
	switch gs {
	case models.StatusScheduled:
		return "Scheduled"
	case models.StatusAccepted:
		return "Accepted"
	default:
		return "In progress"
	}
}

func (s *DefaultAppointmentService) notify(a *models.Appointment) {
	if s.queue == nil || a.UserID == "" {
		return
	}
	err := tasks.EnqueueNotification(s.queue, models.NotificationPayload{
		ID:     a.UserID,
		Target: models.TargetUser,
		Title:  "Repair status updated",
		Body:   fmt.Sprintf("Your repair is now: %s", a.Status.UserView),
		Data: map[string]string{
			"type":          "appointment_status",
			"appointmentId": a.ID,
			"status":        string(a.Status.Global),
		},
	})
	if err != nil {
		s.logger.Error("failed to enqueue status notification", zap.String("appointmentId", a.ID), zap.Error(err))
	}
}
