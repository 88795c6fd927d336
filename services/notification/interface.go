package notification

import (
	"context"

	"repairhub/models"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, userID, title, body string, data map[string]string) error
	SendTechnicianPushNotification(ctx context.Context, technicianID, title, body string, data map[string]string) error
	// Deliver routes a queued payload to the matching Send method.
	Deliver(ctx context.Context, p models.NotificationPayload) error
}

// Sender is the part of *messaging.Client the service uses.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}
