package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	reportRepo "repairhub/database/repository/report"
	"repairhub/models"
	"repairhub/services/tasks"
	"repairhub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxReasonLength bounds the free-text reason of a report.
const MaxReasonLength = 1000

// ReportService handles user complaints about technicians.
type ReportService interface {
	SubmitReport(ctx context.Context, technicianID, userID, reason string) (models.ReportOutcome, error)
	UpdateStatus(ctx context.Context, reportID, status string) error
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
}

// Invalidator drops cached views that depend on technician state.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// DefaultReportService is the production implementation.
type DefaultReportService struct {
	repo        reportRepo.ReportRepository
	queue       tasks.Enqueuer
	invalidates []Invalidator
	threshold   int
	logger      *zap.Logger
	now         func() time.Time
}

// NewDefaultReportService builds the service. queue may be nil, in which
// case no notification is sent on auto-block.
func NewDefaultReportService(repo reportRepo.ReportRepository, queue tasks.Enqueuer, threshold int, logger *zap.Logger, invalidates ...Invalidator) *DefaultReportService {
	if threshold <= 0 {
		threshold = DefaultBlockThreshold
	}
	return &DefaultReportService{
		repo:        repo,
		queue:       queue,
		invalidates: invalidates,
		threshold:   threshold,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitReport stores a pending report and bumps the technician's counter.
// The technician is blocked on the submission that brings the count to the
// threshold, whatever the reason says.
func (s *DefaultReportService) SubmitReport(ctx context.Context, technicianID, userID, reason string) (models.ReportOutcome, error) {
	technicianID = strings.TrimSpace(technicianID)
	userID = strings.TrimSpace(userID)
	reason = strings.TrimSpace(reason)
	switch {
	case technicianID == "":
		return models.ReportOutcome{}, utils.NewValidationError("technicianId", "is required")
	case userID == "":
		return models.ReportOutcome{}, utils.NewValidationError("userId", "is required")
	case reason == "":
		return models.ReportOutcome{}, utils.NewValidationError("reason", "is required")
	case len(reason) > MaxReasonLength:
		return models.ReportOutcome{}, utils.NewValidationError("reason", fmt.Sprintf("must be at most %d characters", MaxReasonLength))
	}

	rep := models.Report{
		ID:           uuid.NewString(),
		TechnicianID: technicianID,
		UserID:       userID,
		Reason:       reason,
		Status:       models.ReportPending,
		CreatedAt:    s.now().UTC(),
	}
	outcome, err := s.repo.Submit(ctx, rep, autoBlockDecision(s.threshold))
	if err != nil {
		if utils.IsNotFound(err) {
			return models.ReportOutcome{}, fmt.Errorf("%w: %w", ErrTechnicianNotFound, err)
		}
		return models.ReportOutcome{}, err
	}

	s.logger.Info("report submitted",
		zap.String("reportId", rep.ID),
		zap.String("technicianId", technicianID),
		zap.Int("totalReports", outcome.TotalReports),
		zap.Bool("autoBlocked", outcome.AutoBlocked),
	)
	if outcome.AutoBlocked {
		s.onBlocked(ctx, technicianID, outcome.TotalReports)
	}
	return outcome, nil
}

func (s *DefaultReportService) onBlocked(ctx context.Context, technicianID string, total int) {
	for _, inv := range s.invalidates {
		if err := inv.Invalidate(ctx); err != nil {
			s.logger.Warn("cache invalidation failed", zap.Error(err))
		}
	}
	if s.queue == nil {
		return
	}
	err := tasks.EnqueueNotification(s.queue, models.NotificationPayload{
		ID:     technicianID,
		Target: models.TargetTechnician,
		Title:  "Your account has been blocked",
		Body:   fmt.Sprintf("Your account was blocked after %d reports. Contact support to appeal.", total),
		Data:   map[string]string{"type": "auto_block"},
	})
	if err != nil {
		s.logger.Error("failed to enqueue auto-block notification", zap.String("technicianId", technicianID), zap.Error(err))
	}
}

func (s *DefaultReportService) UpdateStatus(ctx context.Context, reportID, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.ValidReportStatus(status) {
		return utils.NewValidationError("status", "must be one of pending, reviewed, resolved")
	}
	if err := s.repo.UpdateStatus(ctx, reportID, status); err != nil {
		if utils.IsNotFound(err) {
			return fmt.Errorf("%w: %w", ErrReportNotFound, err)
		}
		return err
	}
	return nil
}

func (s *DefaultReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	if filter.Status != "" && !models.ValidReportStatus(filter.Status) {
		return nil, utils.NewValidationError("status", "must be one of pending, reviewed, resolved")
	}
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
