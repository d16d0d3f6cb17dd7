package booking

import "fmt"

// BookingError kinds surfaced to callers. Identity mismatches and transport
// failures against the clinic are not here: those are recovered internally
// via the fallback path.
const (
	KindValidation = "validation"
	KindStore      = "store"
)

type BookingError struct {
	Kind    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewValidationError(msg string) error {
	return &BookingError{Kind: KindValidation, Message: msg}
}

func NewStoreError(msg string) error {
	return &BookingError{Kind: KindStore, Message: msg}
}
