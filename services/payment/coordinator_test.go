package payment

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

type memOrderStore struct {
	orders map[string]models.PaymentOrder
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[string]models.PaymentOrder)}
}

func (s *memOrderStore) Save(ctx context.Context, order *models.PaymentOrder) error {
	s.orders[order.OrderID] = *order
	return nil
}

func (s *memOrderStore) Get(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	if o, ok := s.orders[orderID]; ok {
		copied := o
		return &copied, nil
	}
	return nil, errors.New("order not found")
}

type fakeGateway struct {
	externalID  string
	createErr   error
	verified    bool
	verifyErr   error
	createCalls int
	verifyCalls int
}

func (g *fakeGateway) CreateOrder(ctx context.Context, res *models.Reservation) (string, int64, string, error) {
	g.createCalls++
	if g.createErr != nil {
		return "", 0, "", g.createErr
	}
	return g.externalID, int64(res.Fee * 100), "INR", nil
}

func (g *fakeGateway) VerifyOrder(ctx context.Context, order *models.PaymentOrder, cb models.CheckoutCallback) (bool, error) {
	g.verifyCalls++
	return g.verified, g.verifyErr
}

type fakeReservationRepo struct {
	byID     map[string]*models.Reservation
	statuses map[string]string
}

func (f *fakeReservationRepo) InsertReservation(ctx context.Context, r *models.Reservation) error {
	f.byID[r.ReservationID] = r
	return nil
}

func (f *fakeReservationRepo) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, errors.New("reservation not found")
}

func (f *fakeReservationRepo) UpdateReservationStatus(ctx context.Context, id, status string) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeReservationRepo) InsertSummary(ctx context.Context, s *models.AppointmentSummary) error {
	return nil
}

type fakeQueue struct {
	enqueued []string
}

func (f *fakeQueue) Enqueue(taskType string, payload any) error {
	f.enqueued = append(f.enqueued, taskType)
	return nil
}

type noopClinic struct{}

func (noopClinic) ListProviders(ctx context.Context) ([]models.ClinicProvider, error) {
	panic("not used")
}

func (noopClinic) CreateBooking(ctx context.Context, req upstream.BookingRequest) (*upstream.BookingResult, error) {
	panic("not used")
}

func (noopClinic) CreatePaymentOrder(ctx context.Context, ref string) (*upstream.Order, error) {
	panic("not used")
}

func (noopClinic) VerifyPayment(ctx context.Context, orderID, txnID, signature string) (bool, error) {
	panic("not used")
}

func (noopClinic) CancelBooking(ctx context.Context, ref string) error { return nil }

func reservation(origin models.ReservationOrigin) *models.Reservation {
	id := "507f1f77bcf86cd799439011"
	if origin == models.OriginLocalFallback {
		id = "local-f47ac10b-58cc-4372-a567-0e02b2c3d479"
	}
	return &models.Reservation{
		ReservationID: id,
		ProviderRef:   "a1b2c3d4e5f6a7b8c9d0e1f2",
		UserID:        "user-1",
		Origin:        origin,
		Status:        models.ReservationPending,
		Fee:           750,
	}
}

func newPaymentService(res *models.Reservation, gateway *fakeGateway) (*DefaultPaymentService, *fakeReservationRepo, *memOrderStore, *fakeQueue) {
	repo := &fakeReservationRepo{
		byID:     map[string]*models.Reservation{res.ReservationID: res},
		statuses: map[string]string{},
	}
	store := newMemOrderStore()
	queue := &fakeQueue{}
	svc := &DefaultPaymentService{
		Repo:    repo,
		Store:   store,
		Gateway: gateway,
		Clinic:  noopClinic{},
		Queue:   queue,
		Logger:  zap.NewNop(),
	}
	return svc, repo, store, queue
}

func paymentSession() models.SessionContext {
	return models.SessionContext{UserID: "user-1", Name: "Asha", DeviceToken: "fcm-token"}
}

func TestInitiateLocalFallbackIsSimulated(t *testing.T) {
	res := reservation(models.OriginLocalFallback)
	gateway := &fakeGateway{}
	svc, _, _, _ := newPaymentService(res, gateway)

	order, err := svc.Initiate(context.Background(), paymentSession(), res.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProviderSimulated, order.Provider)
	assert.Equal(t, models.OrderCreated, order.Status)
	assert.True(t, models.HasLocalMarker(order.OrderID))
	// A simulated order never contacts the gateway.
	assert.Zero(t, gateway.createCalls)
}

func TestInitiatePrimaryMintsGatewayOrder(t *testing.T) {
	res := reservation(models.OriginPrimary)
	gateway := &fakeGateway{externalID: "order_ext_1"}
	svc, _, _, _ := newPaymentService(res, gateway)

	order, err := svc.Initiate(context.Background(), paymentSession(), res.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProviderGateway, order.Provider)
	assert.Equal(t, models.OrderAwaitingUser, order.Status)
	assert.Equal(t, "order_ext_1", order.ExternalOrderID)
	assert.Equal(t, int64(75000), order.AmountMinorUnits)
}

func TestInitiateGatewayFailure(t *testing.T) {
	res := reservation(models.OriginPrimary)
	gateway := &fakeGateway{createErr: errors.New("gateway down")}
	svc, _, _, _ := newPaymentService(res, gateway)

	_, err := svc.Initiate(context.Background(), paymentSession(), res.ReservationID)
	require.Error(t, err)
	var ie *InitiationError
	assert.ErrorAs(t, err, &ie)
}

func TestInitiateAmountRoundsToNearestMinorUnit(t *testing.T) {
	res := reservation(models.OriginLocalFallback)
	res.Fee = 750.55
	svc, _, _, _ := newPaymentService(res, &fakeGateway{})

	order, err := svc.Initiate(context.Background(), paymentSession(), res.ReservationID)
	require.NoError(t, err)
	// 750.55 * 100 is 75054.999... in float; the amount must round, not
	// truncate.
	assert.Equal(t, int64(75055), order.AmountMinorUnits)
}

func TestVerifySimulatedAlwaysSucceeds(t *testing.T) {
	res := reservation(models.OriginLocalFallback)
	gateway := &fakeGateway{}
	svc, repo, _, queue := newPaymentService(res, gateway)

	order, err := svc.Initiate(context.Background(), paymentSession(), res.ReservationID)
	require.NoError(t, err)

	outcome, err := svc.Verify(context.Background(), paymentSession(), models.CheckoutCallback{
		Type:          models.CallbackSuccess,
		OrderID:       order.OrderID,
		TransactionID: "sim-txn",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderSucceeded, outcome.Status)
	assert.Zero(t, gateway.verifyCalls)
	assert.Equal(t, models.ReservationConfirmed, repo.statuses[res.ReservationID])
	assert.Contains(t, queue.enqueued, "push:confirmation")
}

func TestVerifyGatewayFailureLeavesReservationPending(t *testing.T) {
	res := reservation(models.OriginPrimary)
	gateway := &fakeGateway{externalID: "order_ext_1", verified: false}
	svc, repo, store, _ := newPaymentService(res, gateway)

	order, err := svc.Initiate(context.Background(), paymentSession(), res.ReservationID)
	require.NoError(t, err)

	outcome, err := svc.Verify(context.Background(), paymentSession(), models.CheckoutCallback{
		Type:          models.CallbackSuccess,
		OrderID:       order.OrderID,
		TransactionID: "txn-1",
		Signature:     "sig-1",
	})
	require.Error(t, err)
	var ve *VerificationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, models.OrderFailed, outcome.Status)
	// The reservation is never auto-cancelled.
	assert.Empty(t, repo.statuses[res.ReservationID])

	saved, err := store.Get(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderFailed, saved.Status)
}

func TestVerifyUserDismissalFails(t *testing.T) {
	res := reservation(models.OriginPrimary)
	gateway := &fakeGateway{externalID: "order_ext_1", verified: true}
	svc, _, _, _ := newPaymentService(res, gateway)

	order, err := svc.Initiate(context.Background(), paymentSession(), res.ReservationID)
	require.NoError(t, err)

	outcome, err := svc.Verify(context.Background(), paymentSession(), models.CheckoutCallback{
		Type:    models.CallbackCancelled,
		OrderID: order.OrderID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderFailed, outcome.Status)
	assert.True(t, outcome.UserCancelled)
	assert.Zero(t, gateway.verifyCalls)
}

func TestTerminalOrderNeverTransitionsAgain(t *testing.T) {
	res := reservation(models.OriginPrimary)
	gateway := &fakeGateway{externalID: "order_ext_1", verified: true}
	svc, _, _, _ := newPaymentService(res, gateway)

	order, err := svc.Initiate(context.Background(), paymentSession(), res.ReservationID)
	require.NoError(t, err)

	// User dismisses; the order is terminal.
	_, err = svc.Verify(context.Background(), paymentSession(), models.CheckoutCallback{
		Type:    models.CallbackCancelled,
		OrderID: order.OrderID,
	})
	require.NoError(t, err)

	// A late success callback for the same order must not resurrect it.
	outcome, err := svc.Verify(context.Background(), paymentSession(), models.CheckoutCallback{
		Type:          models.CallbackSuccess,
		OrderID:       order.OrderID,
		TransactionID: "txn-late",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderFailed, outcome.Status)
	assert.Zero(t, gateway.verifyCalls)
}

func TestRetryMintsFreshOrder(t *testing.T) {
	res := reservation(models.OriginPrimary)
	gateway := &fakeGateway{externalID: "order_ext_1", verified: true}
	svc, _, _, _ := newPaymentService(res, gateway)
	session := paymentSession()

	first, err := svc.Initiate(context.Background(), session, res.ReservationID)
	require.NoError(t, err)
	_, err = svc.Verify(context.Background(), session, models.CheckoutCallback{
		Type:    models.CallbackFailure,
		OrderID: first.OrderID,
		Message: "card declined",
	})
	require.NoError(t, err)

	second, err := svc.Initiate(context.Background(), session, res.ReservationID)
	require.NoError(t, err)
	assert.NotEqual(t, first.OrderID, second.OrderID)
	assert.Equal(t, models.OrderAwaitingUser, second.Status)
}

func TestLateCallbackAfterAbandonStillConfirms(t *testing.T) {
	res := reservation(models.OriginPrimary)
	gateway := &fakeGateway{externalID: "order_ext_1", verified: true}
	svc, repo, _, _ := newPaymentService(res, gateway)
	session := paymentSession()

	order, err := svc.Initiate(context.Background(), session, res.ReservationID)
	require.NoError(t, err)

	// The user abandons the checkout; the hold release is best-effort and
	// must not touch the order's state machine.
	require.NoError(t, svc.Cancel(context.Background(), session, res.ReservationID))

	outcome, err := svc.Verify(context.Background(), session, models.CheckoutCallback{
		Type:          models.CallbackSuccess,
		OrderID:       order.OrderID,
		TransactionID: "txn-1",
		Signature:     "sig-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderSucceeded, outcome.Status)
	assert.Equal(t, models.ReservationConfirmed, repo.statuses[res.ReservationID])
}
