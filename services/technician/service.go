package technician

import (
	"context"
	"errors"
	"fmt"
	"strings"

	technicianRepo "repairhub/database/repository/technician"
	"repairhub/models"
	"repairhub/services/tasks"
	"repairhub/utils"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// ErrTechnicianNotFound is returned for an unknown technician uid.
var ErrTechnicianNotFound = errors.New("technician not found")

// ModerationService applies admin actions to technicians.
type ModerationService interface {
	List(ctx context.Context, filter models.TechnicianFilter) ([]models.Technician, error)
	Apply(ctx context.Context, uid string, action models.ModerationAction) (*models.Technician, error)
}

// AuthUpdater is the part of *auth.Client used to disable deleted accounts.
type AuthUpdater interface {
	UpdateUser(ctx context.Context, uid string, user *auth.UserToUpdate) (*auth.UserRecord, error)
}

// Invalidator drops cached views that depend on technician state.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// DefaultModerationService is the production implementation.
type DefaultModerationService struct {
	repo        technicianRepo.TechnicianRepository
	auth        AuthUpdater
	queue       tasks.Enqueuer
	invalidates []Invalidator
	logger      *zap.Logger
}

func NewDefaultModerationService(
	repo technicianRepo.TechnicianRepository,
	authClient AuthUpdater,
	queue tasks.Enqueuer,
	logger *zap.Logger,
	invalidates ...Invalidator,
) *DefaultModerationService {
	return &DefaultModerationService{
		repo:        repo,
		auth:        authClient,
		queue:       queue,
		invalidates: invalidates,
		logger:      logger,
	}
}

// actionFields lists the document fields each action writes. The moderation
// flags are independent; an action only touches its own field.
var actionFields = map[models.ModerationAction]map[string]interface{}{
	models.ActionApprove:   {"status": models.TechnicianApproved},
	models.ActionReject:    {"status": models.TechnicianRejected},
	models.ActionBlock:     {"isBlocked": true},
	models.ActionUnblock:   {"isBlocked": false},
	models.ActionBan:       {"isBanned": true},
	models.ActionSuspend:   {"isSuspended": true},
	models.ActionUnsuspend: {"isSuspended": false},
	models.ActionDelete:    {"isDeleted": true},
}

var actionMessages = map[models.ModerationAction][2]string{
	models.ActionApprove: {"Application approved", "Your technician account has been approved."},
	models.ActionReject:  {"Application rejected", "Your technician application was not approved."},
	models.ActionBlock:   {"Account blocked", "Your technician account has been blocked by an administrator."},
	models.ActionUnblock: {"Account restored", "Your technician account is active again."},
	models.ActionSuspend: {"Account suspended", "Your technician account has been suspended."},
}

// ParseAction validates a path parameter as a moderation action,
// ignoring case.
func ParseAction(s string) (models.ModerationAction, bool) {
	a := models.ModerationAction(strings.ToLower(strings.TrimSpace(s)))
	_, ok := actionFields[a]
	return a, ok
}

func (s *DefaultModerationService) List(ctx context.Context, filter models.TechnicianFilter) ([]models.Technician, error) {
	switch filter.Status {
	case "", models.TechnicianPending, models.TechnicianApproved, models.TechnicianRejected:
	default:
		return nil, utils.NewValidationError("status", "must be one of pending, approved, rejected")
	}
	return s.repo.List(ctx, filter)
}

// Apply performs action on the technician and returns the updated record.
// Deletion is soft: the document stays and the Auth account is disabled.
func (s *DefaultModerationService) Apply(ctx context.Context, uid string, action models.ModerationAction) (*models.Technician, error) {
	fields, ok := actionFields[action]
	if !ok {
		return nil, utils.NewValidationError("action", fmt.Sprintf("unknown action %q", action))
	}

	if err := s.repo.UpdateFields(ctx, uid, fields); err != nil {
		if utils.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ErrTechnicianNotFound, err)
		}
		return nil, err
	}

	if action == models.ActionDelete && s.auth != nil {
		if _, err := s.auth.UpdateUser(ctx, uid, (&auth.UserToUpdate{}).Disabled(true)); err != nil {
			// The profile is already marked deleted; a missing Auth user is fine.
			if !auth.IsUserNotFound(err) {
				return nil, fmt.Errorf("failed to disable auth user %s: %w", uid, err)
			}
		}
	}

	s.logger.Info("technician moderated", zap.String("technicianId", uid), zap.String("action", string(action)))
	for _, inv := range s.invalidates {
		if err := inv.Invalidate(ctx); err != nil {
			s.logger.Warn("cache invalidation failed", zap.Error(err))
		}
	}
	s.notify(uid, action)

	return s.repo.GetByID(ctx, uid)
}

func (s *DefaultModerationService) notify(uid string, action models.ModerationAction) {
	msg, ok := actionMessages[action]
	if !ok || s.queue == nil {
		return
	}
	err := tasks.EnqueueNotification(s.queue, models.NotificationPayload{
		ID:     uid,
		Target: models.TargetTechnician,
		Title:  msg[0],
		Body:   msg[1],
		Data:   map[string]string{"type": "moderation", "action": string(action)},
	})
	if err != nil {
		s.logger.Error("failed to enqueue moderation notification", zap.String("technicianId", uid), zap.Error(err))
	}
}
