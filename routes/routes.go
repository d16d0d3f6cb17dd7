package routes

import (
	"mindease/handlers"
	"mindease/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints of the coordination service.
func RegisterRoutes(
	r *gin.Engine,
	directoryHandler *handlers.DirectoryHandler,
	bookingHandler *handlers.BookingHandler,
	paymentHandler *handlers.PaymentHandler,
) {
	r.GET("/health", handlers.HealthHandler)

	api := r.Group("/api")
	api.Use(middleware.SessionMiddleware())
	{
		api.GET("/directory", directoryHandler.GetDirectory)

		api.POST("/booking", bookingHandler.CreateBooking)
		api.POST("/booking/:reservationId/cancel", bookingHandler.CancelReservation)

		api.POST("/payment/initiate", paymentHandler.Initiate)
		api.POST("/payment/verify", paymentHandler.Verify)
		api.POST("/payment/cancel", paymentHandler.Cancel)
	}
}
