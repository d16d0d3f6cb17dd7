package handlers

import (
	"errors"
	"net/http"

	"mindease/middleware"
	"mindease/models"
	"mindease/services/payment"
	"mindease/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the payment coordinator.
type PaymentHandler struct {
	Service payment.PaymentService
	Logger  *zap.Logger
}

func NewPaymentHandler(svc payment.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Service: svc, Logger: logger}
}

type initiateRequest struct {
	ReservationID string `json:"reservationId" binding:"required"`
}

// Initiate mints a payment order for a reservation.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid payment request", err.Error())
		return
	}

	order, err := h.Service.Initiate(c.Request.Context(), session, req.ReservationID)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Could not start payment", err.Error())
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Verify receives the checkout surface's asynchronous callback.
func (h *PaymentHandler) Verify(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var cb models.CheckoutCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid payment callback", err.Error())
		return
	}

	outcome, err := h.Service.Verify(c.Request.Context(), session, cb)
	if err != nil {
		var ve *payment.VerificationError
		if errors.As(err, &ve) && outcome != nil {
			// Explicit failure: the user retries with a fresh order.
			c.JSON(http.StatusPaymentRequired, outcome)
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "Payment verification failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, outcome)
}

type cancelRequest struct {
	ReservationID string `json:"reservationId" binding:"required"`
}

// Cancel releases a reservation hold, best-effort.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
		return
	}
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid cancel request", err.Error())
		return
	}
	_ = h.Service.Cancel(c.Request.Context(), session, req.ReservationID)
	c.JSON(http.StatusOK, gin.H{"status": "released"})
}
