package directory

import (
	"context"

	"mindease/models"
)

// Result is the reconciled directory handed to the caller. Degraded is set
// when our own store could not be read and only clinic data is included.
type Result struct {
	Providers []models.ProviderRecord `json:"providers"`
	Degraded  bool                    `json:"degraded"`
}

// DirectoryService produces the single canonical therapist list.
type DirectoryService interface {
	// Reconcile merges the clinic list with the directory store's visible
	// set. Idempotent; issues a background write-back as a side effect.
	Reconcile(ctx context.Context) (*Result, error)
}
