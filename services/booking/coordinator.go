package booking

import (
	"context"
	"time"

	appointmentRepo "mindease/database/repository/appointment"
	"mindease/models"
	"mindease/services/upstream"
	"mindease/tasks"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Clinic upstream.Client
	Repo   appointmentRepo.AppointmentRepository
	Queue  tasks.Queue
	Logger *zap.Logger
}

// Book reserves a slot. Keys shaped like clinic keys go to the clinic first;
// a clinic identity rejection or transport failure falls through to a local
// reservation so the user keeps their slot. Origin is fixed here and never
// changes afterwards.
func (s *DefaultBookingService) Book(ctx context.Context, session models.SessionContext, req BookRequest) (*models.Reservation, error) {
	if err := session.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	if Classify(req.ProviderRef) == KeyPrimary {
		result, err := s.Clinic.CreateBooking(ctx, upstream.BookingRequest{
			ProviderID: req.ProviderRef,
			UserID:     session.UserID,
			SlotDate:   req.SlotDate,
			SlotTime:   req.SlotTime,
			Visit:      req.Visit,
		})
		switch {
		case err == nil:
			return s.finishBooking(ctx, session, req, result)
		case upstream.IsIdentityMismatchErr(err):
			// The classifier guessed wrong: the key is ours, not the
			// clinic's. Recover on the local path.
			s.Logger.Info("clinic rejected key as foreign, using local reservation",
				zap.String("providerRef", req.ProviderRef))
		case upstream.IsNetwork(err):
			s.Logger.Warn("clinic unreachable, using local reservation", zap.Error(err))
		default:
			return nil, NewValidationError(err.Error())
		}
	}

	return s.localReservation(ctx, session, req)
}

// finishBooking records a clinic-accepted reservation.
func (s *DefaultBookingService) finishBooking(ctx context.Context, session models.SessionContext, req BookRequest, result *upstream.BookingResult) (*models.Reservation, error) {
	res := newReservation(session, req, models.OriginPrimary)
	res.ReservationID = result.AppointmentID
	if result.Fee > 0 {
		res.Fee = result.Fee
	}

	// Local mirror row so payment confirmation can find the reservation;
	// the clinic stays authoritative for a primary-origin lifecycle.
	if err := s.Repo.InsertReservation(ctx, res); err != nil {
		s.Logger.Warn("failed to mirror clinic reservation", zap.Error(err))
	}
	s.enqueueSummary(session, res, req.ProviderName)
	return res, nil
}

// localReservation writes the reservation entirely into our own store. This
// path never calls the clinic.
func (s *DefaultBookingService) localReservation(ctx context.Context, session models.SessionContext, req BookRequest) (*models.Reservation, error) {
	res := newReservation(session, req, models.OriginLocalFallback)
	res.ReservationID = models.LocalMarker + uuid.New().String()

	if err := s.Repo.InsertReservation(ctx, res); err != nil {
		return nil, NewStoreError(err.Error())
	}
	s.enqueueSummary(session, res, req.ProviderName)
	return res, nil
}

// CancelReservation marks the reservation cancelled and, for primary-origin
// reservations, releases the clinic hold best-effort.
func (s *DefaultBookingService) CancelReservation(ctx context.Context, session models.SessionContext, reservationID string) error {
	if err := session.Validate(); err != nil {
		return NewValidationError(err.Error())
	}
	res, err := s.Repo.GetReservation(ctx, reservationID)
	if err != nil {
		return NewStoreError(err.Error())
	}
	if res.UserID != session.UserID {
		return NewValidationError("reservation does not belong to this user")
	}
	if err := s.Repo.UpdateReservationStatus(ctx, reservationID, models.ReservationCancelled); err != nil {
		return NewStoreError(err.Error())
	}
	if res.Origin == models.OriginPrimary {
		if err := s.Clinic.CancelBooking(ctx, reservationID); err != nil {
			s.Logger.Warn("failed to release clinic hold", zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultBookingService) enqueueSummary(session models.SessionContext, res *models.Reservation, providerName string) {
	summary := models.AppointmentSummary{
		ReservationID: res.ReservationID,
		ProviderRef:   res.ProviderRef,
		ProviderName:  providerName,
		UserID:        session.UserID,
		UserName:      session.Name,
		UserEmail:     session.Email,
		SlotDate:      res.SlotDate,
		SlotTime:      res.SlotTime,
		SessionType:   res.Visit.SessionType,
		Origin:        string(res.Origin),
		Fee:           res.Fee,
		CreatedAt:     res.CreatedAt,
	}
	if err := s.Queue.Enqueue(tasks.TypeAppointmentSummary, summary); err != nil {
		s.Logger.Warn("failed to enqueue appointment summary", zap.Error(err))
	}
}

func newReservation(session models.SessionContext, req BookRequest, origin models.ReservationOrigin) *models.Reservation {
	return &models.Reservation{
		ProviderRef: req.ProviderRef,
		UserID:      session.UserID,
		SlotDate:    req.SlotDate,
		SlotTime:    req.SlotTime,
		Visit:       req.Visit,
		Origin:      origin,
		Status:      models.ReservationPending,
		Fee:         req.Fee,
		CreatedAt:   time.Now(),
	}
}

func validateRequest(req *BookRequest) error {
	if req.ProviderRef == "" {
		return NewValidationError("missing provider reference")
	}
	if req.SlotDate == "" || req.SlotTime == "" {
		return NewValidationError("missing slot date or time")
	}
	if req.Visit.SessionType != models.SessionOnline && req.Visit.SessionType != models.SessionInPerson {
		return NewValidationError("unsupported session type")
	}
	// Communication method only applies to online sessions.
	if req.Visit.SessionType != models.SessionOnline {
		req.Visit.CommunicationMethod = ""
	} else if req.Visit.CommunicationMethod == "" {
		return NewValidationError("online sessions require a communication method")
	}
	if !req.Visit.ConsentGiven {
		return NewValidationError("consent is required to book a session")
	}
	return nil
}
