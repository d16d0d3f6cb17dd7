package models

import (
	"errors"
	"time"
)

// SessionContext carries the authenticated user's identity into every
// service call. It is supplied explicitly by the caller; nothing in the
// services reads ambient session state.
type SessionContext struct {
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	DeviceToken string    `json:"deviceToken,omitempty"` // FCM token for pushes
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Validate checks the session at the service boundary.
func (s SessionContext) Validate() error {
	if s.UserID == "" {
		return errors.New("session has no user id")
	}
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return errors.New("session expired")
	}
	return nil
}
