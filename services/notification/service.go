package notification

import (
	"context"
	"fmt"

	technicianRepo "repairhub/database/repository/technician"
	userRepo "repairhub/database/repository/user"
	"repairhub/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	users       userRepo.UserRepository
	technicians technicianRepo.TechnicianRepository
	sender      Sender
	logger      *zap.Logger
}

func NewDefaultNotificationService(
	users userRepo.UserRepository,
	technicians technicianRepo.TechnicianRepository,
	sender Sender,
	logger *zap.Logger,
) (*DefaultNotificationService, error) {
	if users == nil || technicians == nil || sender == nil {
		return nil, fmt.Errorf("notification service initialization error: repository or sender is nil")
	}
	return &DefaultNotificationService{
		users:       users,
		technicians: technicians,
		sender:      sender,
		logger:      logger,
	}, nil
}

// SendUserPushNotification looks up a user's FCM token and sends a push. A
// user without a token is skipped.
func (s *DefaultNotificationService) SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		s.logger.Info("user has no FCM token, skipping push", zap.String("userId", userID))
		return nil
	}
	return s.send(ctx, u.FCMToken, title, body, withRole(data, models.TargetUser))
}

// SendTechnicianPushNotification looks up a technician's FCM token and sends
// a high priority push. A technician without a token is skipped.
func (s *DefaultNotificationService) SendTechnicianPushNotification(ctx context.Context, technicianID, title, body string, data map[string]string) error {
	t, err := s.technicians.GetByID(ctx, technicianID)
	if err != nil {
		return fmt.Errorf("SendTechnicianPushNotification: could not find technician %s: %w", technicianID, err)
	}
	if t.FCMToken == "" {
		s.logger.Info("technician has no FCM token, skipping push", zap.String("technicianId", technicianID))
		return nil
	}
	return s.send(ctx, t.FCMToken, title, body, withRole(data, models.TargetTechnician))
}

func (s *DefaultNotificationService) Deliver(ctx context.Context, p models.NotificationPayload) error {
	switch p.Target {
	case models.TargetTechnician:
		return s.SendTechnicianPushNotification(ctx, p.ID, p.Title, p.Body, p.Data)
	case models.TargetUser:
		return s.SendUserPushNotification(ctx, p.ID, p.Title, p.Body, p.Data)
	default:
		return fmt.Errorf("unknown notification target %q", p.Target)
	}
}

func (s *DefaultNotificationService) send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	s.logger.Debug("push sent", zap.String("messageId", id), zap.String("role", data["role"]))
	return nil
}

// withRole copies data and sets "role" unless the caller already did.
func withRole(data map[string]string, role string) map[string]string {
	out := make(map[string]string, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	if _, ok := out["role"]; !ok {
		out["role"] = role
	}
	return out
}
