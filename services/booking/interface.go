package booking

import (
	"context"

	"mindease/models"
)

// BookRequest is the slot and visit metadata for one booking attempt.
type BookRequest struct {
	ProviderRef  string           `json:"providerRef"` // canonical or clinic key, either format
	ProviderName string           `json:"providerName,omitempty"`
	SlotDate     string           `json:"slotDate"`
	SlotTime     string           `json:"slotTime"`
	Fee          float64          `json:"fee"`
	Visit        models.VisitMeta `json:"visit"`
}

// BookingService reserves slots, falling back to a local reservation when
// the clinic cannot accept the key or is unreachable.
type BookingService interface {
	Book(ctx context.Context, session models.SessionContext, req BookRequest) (*models.Reservation, error)
	// CancelReservation is the explicit user cancellation.
	CancelReservation(ctx context.Context, session models.SessionContext, reservationID string) error
}
