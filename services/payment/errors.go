package payment

import "fmt"

// InitiationError reports that a payment order could not be created.
type InitiationError struct {
	Message string
}

func (e *InitiationError) Error() string {
	return fmt.Sprintf("paymentInitiation: %s", e.Message)
}

func NewInitiationError(msg string) error {
	return &InitiationError{Message: msg}
}

// VerificationError reports that an order's transaction could not be
// confirmed. The reservation is left pending, never auto-cancelled.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("paymentVerification: %s", e.Message)
}

func NewVerificationError(msg string) error {
	return &VerificationError{Message: msg}
}
