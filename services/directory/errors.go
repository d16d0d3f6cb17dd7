package directory

import "fmt"

// DegradedReadError reports that the directory store was unreachable during
// reconciliation. The caller still receives whatever clinic data exists.
type DegradedReadError struct {
	Message string
}

func (e *DegradedReadError) Error() string {
	return fmt.Sprintf("degradedRead: %s", e.Message)
}

func NewDegradedReadError(msg string) error {
	return &DegradedReadError{Message: msg}
}
