package upstream

import (
	"context"

	"mindease/models"
)

// BookingRequest is the payload sent to the clinic system-of-record when a
// slot is reserved there.
type BookingRequest struct {
	ProviderID string           `json:"docId"`
	UserID     string           `json:"userId"`
	SlotDate   string           `json:"slotDate"`
	SlotTime   string           `json:"slotTime"`
	Visit      models.VisitMeta `json:"visit"`
}

// BookingResult is the clinic's acknowledgement of a booking.
type BookingResult struct {
	AppointmentID string  `json:"appointmentId"`
	Fee           float64 `json:"fee"`
}

// Order is a gateway order minted by the clinic backend.
type Order struct {
	OrderID          string `json:"orderId"`
	AmountMinorUnits int64  `json:"amount"`
	Currency         string `json:"currency"`
}

// Client is the request/response interface to the clinic system-of-record.
// Every call honours the caller's context deadline; no call is retried here
// except the single alternate-encoding retry inside CreateBooking.
type Client interface {
	ListProviders(ctx context.Context) ([]models.ClinicProvider, error)
	CreateBooking(ctx context.Context, req BookingRequest) (*BookingResult, error)
	CreatePaymentOrder(ctx context.Context, reservationRef string) (*Order, error)
	VerifyPayment(ctx context.Context, orderID, txnID, signature string) (bool, error)
	// CancelBooking releases a slot hold, best-effort.
	CancelBooking(ctx context.Context, reservationRef string) error
}
