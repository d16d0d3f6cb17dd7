package directoryRepo

import (
	"context"

	"mindease/models"
)

// DirectoryRepository provides access to the admin-editable therapist
// directory (the secondary store).
type DirectoryRepository interface {
	// ListActive returns the visible set: rows flagged active.
	ListActive(ctx context.Context) ([]models.DirectoryProvider, error)
	// UpsertFromClinic writes one row per clinic record, keyed by
	// externalId. Identity fields follow the clinic value; protected
	// fields (fee, about) are only filled when the row has none yet.
	UpsertFromClinic(ctx context.Context, rows []models.ClinicProvider) error
}
