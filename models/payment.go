package models

import "time"

// Payment order providers.
const (
	PaymentProviderGateway   = "gateway"
	PaymentProviderSimulated = "simulated"
)

// Payment order statuses.
const (
	OrderCreated      = "Created"
	OrderAwaitingUser = "AwaitingUser"
	OrderVerifying    = "Verifying"
	OrderSucceeded    = "Succeeded"
	OrderFailed       = "Failed"
)

// PaymentOrder is one payment attempt for a reservation. Orders are
// ephemeral; a failed order is never retried, a new attempt mints a new one.
type PaymentOrder struct {
	OrderID          string    `json:"orderId"`
	ReservationID    string    `json:"reservationId"`
	AmountMinorUnits int64     `json:"amountMinorUnits"`
	Currency         string    `json:"currency"`
	Provider         string    `json:"provider"` // "gateway" or "simulated"
	Status           string    `json:"status"`
	ExternalOrderID  string    `json:"externalOrderId,omitempty"` // gateway-issued reference
	FailureReason    string    `json:"failureReason,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Checkout callback types delivered by the hosted checkout surface.
const (
	CallbackSuccess   = "success"
	CallbackFailure   = "failure"
	CallbackCancelled = "cancelled"
)

// CheckoutCallback is the single asynchronous message the checkout surface
// sends back once the user is done with an order.
type CheckoutCallback struct {
	Type          string `json:"type"` // success, failure or cancelled
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId,omitempty"`
	Signature     string `json:"signature,omitempty"`
	Message       string `json:"message,omitempty"`
}

// PaymentOutcome is the result of verifying an order.
type PaymentOutcome struct {
	OrderID       string `json:"orderId"`
	ReservationID string `json:"reservationId"`
	Status        string `json:"status"` // Succeeded or Failed
	UserCancelled bool   `json:"userCancelled,omitempty"`
	Message       string `json:"message,omitempty"`
}
