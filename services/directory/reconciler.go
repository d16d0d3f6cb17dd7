package directory

import (
	"context"

	directoryRepo "mindease/database/repository/directory"
	"mindease/models"
	"mindease/services/upstream"
	"mindease/tasks"

	"go.uber.org/zap"
)

// DefaultDirectoryService implements DirectoryService against the clinic
// client and the directory store.
type DefaultDirectoryService struct {
	Clinic upstream.Client
	Repo   directoryRepo.DirectoryRepository
	Queue  tasks.Queue
	Logger *zap.Logger
}

// Reconcile builds the canonical list. The clinic read is best-effort; only
// a directory-store read failure is escalated, and even then the caller
// still gets the clinic data marked degraded.
func (s *DefaultDirectoryService) Reconcile(ctx context.Context) (*Result, error) {
	clinicRows, err := s.Clinic.ListProviders(ctx)
	if err != nil {
		s.Logger.Warn("clinic list unavailable, reconciling without it", zap.Error(err))
		clinicRows = nil
	}

	visible, err := s.Repo.ListActive(ctx)
	if err != nil {
		s.Logger.Error("directory store read failed", zap.Error(err))
		return &Result{Providers: rawClinicRecords(clinicRows), Degraded: true},
			NewDegradedReadError(err.Error())
	}

	// The write-back self-heals the store from the clinic snapshot. Its
	// outcome must never affect this call's result.
	if len(clinicRows) > 0 {
		if err := s.Queue.Enqueue(tasks.TypeDirectoryWriteBack, tasks.WriteBackPayload{Rows: clinicRows}); err != nil {
			s.Logger.Warn("failed to enqueue directory write-back", zap.Error(err))
		}
	}

	// Full fallback: with no visible rows of our own, the raw clinic list
	// is the directory.
	if len(visible) == 0 {
		return &Result{Providers: rawClinicRecords(clinicRows)}, nil
	}

	byExternalID := make(map[string]*models.ClinicProvider, len(clinicRows))
	for i := range clinicRows {
		byExternalID[clinicRows[i].ID] = &clinicRows[i]
	}

	records := make([]models.ProviderRecord, 0, len(visible))
	for _, row := range visible {
		var clinic *models.ClinicProvider
		if row.ExternalID != "" {
			clinic = byExternalID[row.ExternalID]
		}
		records = append(records, mergeRecord(row, clinic))
	}
	return &Result{Providers: records}, nil
}

// rawClinicRecords maps clinic rows one-to-one, unmerged. The clinic key
// doubles as the canonical id because no directory row exists to supply one.
func rawClinicRecords(rows []models.ClinicProvider) []models.ProviderRecord {
	records := make([]models.ProviderRecord, 0, len(rows))
	for _, c := range rows {
		records = append(records, models.ProviderRecord{
			ID:         c.ID,
			ExternalID: c.ID,
			Name:       c.Name,
			Specialty:  c.Specialty,
			Degree:     c.Degree,
			Experience: c.Experience,
			About:      c.About,
			Fee:        c.Fee,
			ImageURL:   c.ImageURL,
			Location:   c.Address,
			Geo:        clinicGeo(&c),
			Available:  c.Available,
			Email:      c.Email,
		})
	}
	return records
}
