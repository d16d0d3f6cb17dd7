package payment

import (
	"context"

	"mindease/models"
)

// PaymentService drives a reservation through payment. One order per
// attempt; a failed order is terminal and a retry mints a new order.
type PaymentService interface {
	Initiate(ctx context.Context, session models.SessionContext, reservationID string) (*models.PaymentOrder, error)
	// Verify processes the checkout surface's asynchronous callback. It
	// accepts late callbacks for orders the user has already abandoned.
	Verify(ctx context.Context, session models.SessionContext, cb models.CheckoutCallback) (*models.PaymentOutcome, error)
	// Cancel releases the reservation's hold, best-effort.
	Cancel(ctx context.Context, session models.SessionContext, reservationID string) error
}

// OrderStore keeps in-flight orders between initiation and the callback.
type OrderStore interface {
	Save(ctx context.Context, order *models.PaymentOrder) error
	Get(ctx context.Context, orderID string) (*models.PaymentOrder, error)
}

// Gateway mints and confirms real orders. The simulated path for local
// reservations never touches a Gateway.
type Gateway interface {
	// CreateOrder returns the external order id, amount and currency.
	CreateOrder(ctx context.Context, res *models.Reservation) (externalID string, amountMinor int64, currency string, err error)
	// VerifyOrder confirms the callback's transaction identifiers.
	VerifyOrder(ctx context.Context, order *models.PaymentOrder, cb models.CheckoutCallback) (bool, error)
}
