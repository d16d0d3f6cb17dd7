package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// NotificationService sends device pushes.
type NotificationService interface {
	SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}

// FCMNotificationService is the production implementation on Firebase Cloud
// Messaging.
type FCMNotificationService struct {
	client *messaging.Client
}

func NewFCMNotificationService(client *messaging.Client) (*FCMNotificationService, error) {
	if client == nil {
		return nil, fmt.Errorf("notification service initialization error: messaging client is nil")
	}
	return &FCMNotificationService{client: client}, nil
}

func (s *FCMNotificationService) SendPush(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if deviceToken == "" {
		return fmt.Errorf("SendPush: empty device token")
	}
	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendPush: %w", err)
	}
	return nil
}
