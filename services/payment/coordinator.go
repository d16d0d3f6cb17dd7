package payment

import (
	"context"
	"fmt"
	"math"
	"time"

	appointmentRepo "mindease/database/repository/appointment"
	"mindease/models"
	"mindease/services/upstream"
	"mindease/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPaymentService implements PaymentService.
type DefaultPaymentService struct {
	Repo    appointmentRepo.AppointmentRepository
	Store   OrderStore
	Gateway Gateway
	Clinic  upstream.Client
	Queue   tasks.Queue
	Logger  *zap.Logger
}

// Initiate mints one order for the reservation. A local-fallback reservation
// gets a simulated order without any network call; a primary reservation
// gets a real gateway order or fails with an InitiationError.
func (s *DefaultPaymentService) Initiate(ctx context.Context, session models.SessionContext, reservationID string) (*models.PaymentOrder, error) {
	if err := session.Validate(); err != nil {
		return nil, NewInitiationError(err.Error())
	}
	res, err := s.Repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, NewInitiationError(err.Error())
	}
	if res.Status != models.ReservationPending {
		return nil, NewInitiationError(fmt.Sprintf("reservation is %s, not payable", res.Status))
	}

	now := time.Now()
	order := &models.PaymentOrder{
		ReservationID: res.ReservationID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if res.Origin == models.OriginLocalFallback {
		// No money moves for a local reservation: the caller shows a
		// short processing screen and verifies with a synthesized
		// callback.
		order.OrderID = models.LocalMarker + uuid.New().String()
		order.Provider = models.PaymentProviderSimulated
		order.Status = models.OrderCreated
		order.AmountMinorUnits = minorUnits(res.Fee)
		order.Currency = "NONE"
	} else {
		externalID, amount, currency, err := s.Gateway.CreateOrder(ctx, res)
		if err != nil {
			s.Logger.Error("gateway order creation failed",
				zap.String("reservationId", res.ReservationID), zap.Error(err))
			return nil, NewInitiationError(err.Error())
		}
		order.OrderID = uuid.New().String()
		order.Provider = models.PaymentProviderGateway
		order.Status = models.OrderAwaitingUser
		order.ExternalOrderID = externalID
		order.AmountMinorUnits = amount
		order.Currency = currency
	}

	if err := s.Store.Save(ctx, order); err != nil {
		return nil, NewInitiationError(err.Error())
	}
	return order, nil
}

// Verify processes the checkout surface's callback. The state machine, not
// the UI, is the source of truth: a callback for an abandoned order is
// handled exactly like any other.
func (s *DefaultPaymentService) Verify(ctx context.Context, session models.SessionContext, cb models.CheckoutCallback) (*models.PaymentOutcome, error) {
	if err := session.Validate(); err != nil {
		return nil, NewVerificationError(err.Error())
	}
	order, err := s.Store.Get(ctx, cb.OrderID)
	if err != nil {
		return nil, NewVerificationError(err.Error())
	}

	// Terminal orders never transition again; report what was recorded.
	if order.Status == models.OrderSucceeded || order.Status == models.OrderFailed {
		return s.outcome(order, false), nil
	}

	// Dismissal and gateway-reported failure differ only in messaging.
	if cb.Type == models.CallbackCancelled || cb.Type == models.CallbackFailure {
		order.Status = models.OrderFailed
		order.FailureReason = cb.Message
		if err := s.Store.Save(ctx, order); err != nil {
			s.Logger.Warn("failed to persist failed order", zap.Error(err))
		}
		return s.outcome(order, cb.Type == models.CallbackCancelled), nil
	}

	order.Status = models.OrderVerifying
	if err := s.Store.Save(ctx, order); err != nil {
		s.Logger.Warn("failed to persist verifying order", zap.Error(err))
	}

	verified := true
	if order.Provider == models.PaymentProviderGateway {
		verified, err = s.Gateway.VerifyOrder(ctx, order, cb)
		if err != nil || !verified {
			order.Status = models.OrderFailed
			order.FailureReason = "transaction could not be confirmed"
			if err != nil {
				order.FailureReason = err.Error()
			}
			if saveErr := s.Store.Save(ctx, order); saveErr != nil {
				s.Logger.Warn("failed to persist failed order", zap.Error(saveErr))
			}
			// The reservation stays pending: the user retries
			// explicitly with a fresh order.
			return s.outcome(order, false), NewVerificationError(order.FailureReason)
		}
	}

	order.Status = models.OrderSucceeded
	if err := s.Store.Save(ctx, order); err != nil {
		s.Logger.Warn("failed to persist succeeded order", zap.Error(err))
	}
	if err := s.Repo.UpdateReservationStatus(ctx, order.ReservationID, models.ReservationConfirmed); err != nil {
		s.Logger.Error("payment succeeded but reservation not marked confirmed",
			zap.String("reservationId", order.ReservationID), zap.Error(err))
	}
	s.enqueueConfirmationPush(session, order)
	return s.outcome(order, false), nil
}

// Cancel releases the reservation's hold. Cleanup path: every error is
// swallowed after logging.
func (s *DefaultPaymentService) Cancel(ctx context.Context, session models.SessionContext, reservationID string) error {
	if err := session.Validate(); err != nil {
		return nil
	}
	res, err := s.Repo.GetReservation(ctx, reservationID)
	if err != nil {
		s.Logger.Warn("cancel: reservation lookup failed", zap.Error(err))
		return nil
	}
	if res.Origin == models.OriginPrimary {
		if err := s.Clinic.CancelBooking(ctx, res.ReservationID); err != nil {
			s.Logger.Warn("cancel: clinic hold release failed", zap.Error(err))
		}
	}
	return nil
}

// minorUnits converts a major-unit fee to the gateway's integer minor units,
// rounded to the nearest unit.
func minorUnits(fee float64) int64 {
	return int64(math.Round(fee * 100))
}

func (s *DefaultPaymentService) outcome(order *models.PaymentOrder, userCancelled bool) *models.PaymentOutcome {
	out := &models.PaymentOutcome{
		OrderID:       order.OrderID,
		ReservationID: order.ReservationID,
		Status:        order.Status,
		UserCancelled: userCancelled,
	}
	if order.Status == models.OrderFailed {
		out.Message = order.FailureReason
	}
	return out
}

func (s *DefaultPaymentService) enqueueConfirmationPush(session models.SessionContext, order *models.PaymentOrder) {
	if session.DeviceToken == "" {
		return
	}
	payload := tasks.PushPayload{
		DeviceToken: session.DeviceToken,
		Title:       "Appointment confirmed",
		Body:        "Your session is booked. See you there!",
		Data: map[string]string{
			"reservationId": order.ReservationID,
			"orderId":       order.OrderID,
		},
	}
	if err := s.Queue.Enqueue(tasks.TypeConfirmationPush, payload); err != nil {
		s.Logger.Warn("failed to enqueue confirmation push", zap.Error(err))
	}
}
