package handlers

import (
	"errors"
	"net/http"

	"mindease/middleware"
	"mindease/services/booking"
	"mindease/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking coordinator.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBooking reserves a slot. Clinic outages and key-format mismatches
// are absorbed by the service's fallback path, so from here a booking
// either validates and succeeds or fails with a user-facing message.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}

	var req booking.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", err.Error())
		return
	}

	reservation, err := h.Service.Book(c.Request.Context(), session, req)
	if err != nil {
		status := http.StatusInternalServerError
		var be *booking.BookingError
		if errors.As(err, &be) && be.Kind == booking.KindValidation {
			status = http.StatusBadRequest
		}
		utils.JSONError(c, status, "Booking failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// CancelReservation is the explicit user cancellation.
func (h *BookingHandler) CancelReservation(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	reservationID := c.Param("reservationId")
	if reservationID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing reservation id", "")
		return
	}

	if err := h.Service.CancelReservation(c.Request.Context(), session, reservationID); err != nil {
		status := http.StatusInternalServerError
		var be *booking.BookingError
		if errors.As(err, &be) && be.Kind == booking.KindValidation {
			status = http.StatusBadRequest
		}
		utils.JSONError(c, status, "Cancellation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
