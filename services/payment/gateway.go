package payment

import (
	"context"
	"fmt"
	"strings"

	"mindease/models"
	"mindease/services/upstream"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// ClinicGateway asks the clinic backend to mint the order and to confirm
// the gateway signature server-side. This is the default mode: the core
// never recomputes the cryptographic check itself.
type ClinicGateway struct {
	Clinic upstream.Client
}

func (g *ClinicGateway) CreateOrder(ctx context.Context, res *models.Reservation) (string, int64, string, error) {
	order, err := g.Clinic.CreatePaymentOrder(ctx, res.ReservationID)
	if err != nil {
		return "", 0, "", err
	}
	return order.OrderID, order.AmountMinorUnits, order.Currency, nil
}

func (g *ClinicGateway) VerifyOrder(ctx context.Context, order *models.PaymentOrder, cb models.CheckoutCallback) (bool, error) {
	return g.Clinic.VerifyPayment(ctx, order.ExternalOrderID, cb.TransactionID, cb.Signature)
}

// StripeGateway mints PaymentIntents directly when the deployment is
// configured PAYMENT_MODE=stripe.
type StripeGateway struct {
	Currency string
}

func (g *StripeGateway) CreateOrder(ctx context.Context, res *models.Reservation) (string, int64, string, error) {
	amount := minorUnits(res.Fee)
	if amount <= 0 {
		return "", 0, "", fmt.Errorf("reservation %s has no payable fee", res.ReservationID)
	}
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(g.Currency)),
	}
	params.AddMetadata("reservationId", res.ReservationID)
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", 0, "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return pi.ID, amount, g.Currency, nil
}

func (g *StripeGateway) VerifyOrder(ctx context.Context, order *models.PaymentOrder, cb models.CheckoutCallback) (bool, error) {
	params := &stripe.PaymentIntentParams{Params: stripe.Params{Context: ctx}}
	pi, err := paymentintent.Get(order.ExternalOrderID, params)
	if err != nil {
		return false, fmt.Errorf("failed to fetch payment intent: %w", err)
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}
