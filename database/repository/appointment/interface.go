package appointmentRepo

import (
	"context"

	"mindease/models"
)

// AppointmentRepository persists reservations and their denormalized
// summaries in the secondary store.
type AppointmentRepository interface {
	InsertReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, reservationID string) (*models.Reservation, error)
	// UpdateReservationStatus advances status only; origin and the rest of
	// the row are never touched after creation.
	UpdateReservationStatus(ctx context.Context, reservationID, status string) error
	InsertSummary(ctx context.Context, s *models.AppointmentSummary) error
}
