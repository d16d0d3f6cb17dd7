package directory

import (
	"context"
	"errors"
	"testing"

	"mindease/models"
	"mindease/services/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClinic struct {
	providers []models.ClinicProvider
	err       error
	calls     int
}

func (f *fakeClinic) ListProviders(ctx context.Context) ([]models.ClinicProvider, error) {
	f.calls++
	return f.providers, f.err
}

func (f *fakeClinic) CreateBooking(ctx context.Context, req upstream.BookingRequest) (*upstream.BookingResult, error) {
	panic("not used")
}

func (f *fakeClinic) CreatePaymentOrder(ctx context.Context, ref string) (*upstream.Order, error) {
	panic("not used")
}

func (f *fakeClinic) VerifyPayment(ctx context.Context, orderID, txnID, signature string) (bool, error) {
	panic("not used")
}

func (f *fakeClinic) CancelBooking(ctx context.Context, ref string) error { panic("not used") }

type fakeDirectoryRepo struct {
	rows    []models.DirectoryProvider
	listErr error
	upserts [][]models.ClinicProvider
}

func (f *fakeDirectoryRepo) ListActive(ctx context.Context) ([]models.DirectoryProvider, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rows, nil
}

func (f *fakeDirectoryRepo) UpsertFromClinic(ctx context.Context, rows []models.ClinicProvider) error {
	f.upserts = append(f.upserts, rows)
	return nil
}

type fakeQueue struct {
	enqueued []string
	err      error
}

func (f *fakeQueue) Enqueue(taskType string, payload any) error {
	f.enqueued = append(f.enqueued, taskType)
	return f.err
}

func newService(clinic *fakeClinic, repo *fakeDirectoryRepo, queue *fakeQueue) *DefaultDirectoryService {
	return &DefaultDirectoryService{
		Clinic: clinic,
		Repo:   repo,
		Queue:  queue,
		Logger: zap.NewNop(),
	}
}

func clinicProvider(id, name string, fee float64) models.ClinicProvider {
	return models.ClinicProvider{
		ID:        id,
		Name:      name,
		Specialty: "CBT",
		Fee:       fee,
		Available: true,
	}
}

func TestReconcileMergesProtectedAndIdentityFields(t *testing.T) {
	clinic := &fakeClinic{providers: []models.ClinicProvider{
		{
			ID:        "a1b2c3d4e5f6a7b8c9d0e1f2",
			Name:      "Dr. Amara Osei",
			Specialty: "Trauma Therapy",
			About:     "Clinic-sourced bio.",
			Fee:       500,
			Available: true,
		},
	}}
	repo := &fakeDirectoryRepo{rows: []models.DirectoryProvider{
		{
			ID:         "f47ac10b-58cc-4372-a567-0e02b2c3d479",
			ExternalID: "a1b2c3d4e5f6a7b8c9d0e1f2",
			Name:       "Stale Name",
			// Fee is an admin override and must survive; the empty
			// about is filled from the clinic.
			Fee:    750,
			About:  "",
			Active: true,
		},
	}}
	svc := newService(clinic, repo, &fakeQueue{})

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Providers, 1)
	rec := result.Providers[0]

	assert.Equal(t, "f47ac10b-58cc-4372-a567-0e02b2c3d479", rec.ID)
	assert.Equal(t, "a1b2c3d4e5f6a7b8c9d0e1f2", rec.ExternalID)
	// Identity fields follow the clinic.
	assert.Equal(t, "Dr. Amara Osei", rec.Name)
	assert.Equal(t, "Trauma Therapy", rec.Specialty)
	// Protected fee keeps the admin's value; empty about fills from clinic.
	assert.Equal(t, 750.0, rec.Fee)
	assert.Equal(t, "Clinic-sourced bio.", rec.About)
	assert.False(t, result.Degraded)
}

func TestReconcileProtectionHoldsAcrossRuns(t *testing.T) {
	clinic := &fakeClinic{providers: []models.ClinicProvider{
		clinicProvider("a1b2c3d4e5f6a7b8c9d0e1f2", "Dr. A", 500),
	}}
	repo := &fakeDirectoryRepo{rows: []models.DirectoryProvider{
		{ID: "u-1", ExternalID: "a1b2c3d4e5f6a7b8c9d0e1f2", Fee: 900, About: "Hand-written.", Active: true},
	}}
	svc := newService(clinic, repo, &fakeQueue{})

	first, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	second, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	// Idempotence: identical canonical output both times.
	assert.Equal(t, first.Providers, second.Providers)
	assert.Equal(t, 900.0, second.Providers[0].Fee)
	assert.Equal(t, "Hand-written.", second.Providers[0].About)
}

func TestReconcileFullFallbackWhenVisibleSetEmpty(t *testing.T) {
	providers := []models.ClinicProvider{
		clinicProvider("a1b2c3d4e5f6a7b8c9d0e1f2", "Dr. A", 400),
		clinicProvider("b1b2c3d4e5f6a7b8c9d0e1f2", "Dr. B", 500),
		clinicProvider("c1b2c3d4e5f6a7b8c9d0e1f2", "Dr. C", 600),
	}
	svc := newService(&fakeClinic{providers: providers}, &fakeDirectoryRepo{}, &fakeQueue{})

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Providers, 3)
	for i, rec := range result.Providers {
		// Raw clinic rows, unmerged and undefaulted.
		assert.Equal(t, providers[i].ID, rec.ID)
		assert.Equal(t, providers[i].ID, rec.ExternalID)
		assert.Equal(t, providers[i].Name, rec.Name)
		assert.Equal(t, providers[i].Fee, rec.Fee)
	}
}

func TestReconcileClinicFailureIsAbsorbed(t *testing.T) {
	clinic := &fakeClinic{err: &upstream.RequestError{Kind: upstream.KindNetwork, Message: "timeout"}}
	repo := &fakeDirectoryRepo{rows: []models.DirectoryProvider{
		{ID: "u-1", ExternalID: "a1b2c3d4e5f6a7b8c9d0e1f2", Name: "Dr. Own Copy", Active: true},
	}}
	queue := &fakeQueue{}
	svc := newService(clinic, repo, queue)

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Providers, 1)
	// Identity falls back to the row's own copy, protected to defaults.
	assert.Equal(t, "Dr. Own Copy", result.Providers[0].Name)
	assert.Equal(t, float64(models.DefaultFee), result.Providers[0].Fee)
	// Nothing to write back without a clinic snapshot.
	assert.Empty(t, queue.enqueued)
}

func TestReconcileSecondaryReadFailureIsDegraded(t *testing.T) {
	clinic := &fakeClinic{providers: []models.ClinicProvider{
		clinicProvider("a1b2c3d4e5f6a7b8c9d0e1f2", "Dr. A", 400),
	}}
	repo := &fakeDirectoryRepo{listErr: errors.New("connection refused")}
	svc := newService(clinic, repo, &fakeQueue{})

	result, err := svc.Reconcile(context.Background())
	require.Error(t, err)
	var degraded *DegradedReadError
	require.ErrorAs(t, err, &degraded)
	require.NotNil(t, result)
	assert.True(t, result.Degraded)
	assert.Len(t, result.Providers, 1)
}

func TestReconcileEnqueuesWriteBack(t *testing.T) {
	clinic := &fakeClinic{providers: []models.ClinicProvider{
		clinicProvider("a1b2c3d4e5f6a7b8c9d0e1f2", "Dr. A", 400),
	}}
	repo := &fakeDirectoryRepo{rows: []models.DirectoryProvider{
		{ID: "u-1", ExternalID: "a1b2c3d4e5f6a7b8c9d0e1f2", Active: true},
	}}
	queue := &fakeQueue{}
	svc := newService(clinic, repo, queue)

	_, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"directory:writeback"}, queue.enqueued)
}

func TestReconcileWriteBackFailureNeverSurfaces(t *testing.T) {
	clinic := &fakeClinic{providers: []models.ClinicProvider{
		clinicProvider("a1b2c3d4e5f6a7b8c9d0e1f2", "Dr. A", 400),
	}}
	repo := &fakeDirectoryRepo{rows: []models.DirectoryProvider{
		{ID: "u-1", ExternalID: "a1b2c3d4e5f6a7b8c9d0e1f2", Active: true},
	}}
	queue := &fakeQueue{err: errors.New("queue full")}
	svc := newService(clinic, repo, queue)

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Providers, 1)
}

func TestReconcileSecondaryOnlyProviderIsIncluded(t *testing.T) {
	repo := &fakeDirectoryRepo{rows: []models.DirectoryProvider{
		{ID: "u-1", Name: "Dr. Local Only", Fee: 650, Active: true},
	}}
	svc := newService(&fakeClinic{}, repo, &fakeQueue{})

	result, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Providers, 1)
	assert.Equal(t, "Dr. Local Only", result.Providers[0].Name)
	assert.Empty(t, result.Providers[0].ExternalID)
	assert.Equal(t, 650.0, result.Providers[0].Fee)
}
