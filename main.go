// File: mindease/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindease/config"
	"mindease/cron"
	"mindease/database"
	appointmentRepo "mindease/database/repository/appointment"
	directoryRepo "mindease/database/repository/directory"
	"mindease/handlers"
	"mindease/middleware"
	"mindease/routes"
	"mindease/services/booking"
	"mindease/services/directory"
	"mindease/services/notification"
	"mindease/services/payment"
	"mindease/services/upstream"
	"mindease/tasks"
	"mindease/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitOrderCache()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	dirRepo := directoryRepo.NewMongoDirectoryRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()

	// background queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	queue := tasks.NewAsynqQueue(asynqClient)

	// clinic system-of-record client.
	clinicClient := upstream.NewClinicClient(config.AppConfig.ClinicBaseURL, config.AppConfig.ClinicAPIKey, logger)

	// services.
	directoryService := &directory.DefaultDirectoryService{
		Clinic: clinicClient,
		Repo:   dirRepo,
		Queue:  queue,
		Logger: logger,
	}
	bookingService := &booking.DefaultBookingService{
		Clinic: clinicClient,
		Repo:   apptRepo,
		Queue:  queue,
		Logger: logger,
	}

	var gateway payment.Gateway
	if config.AppConfig.PaymentMode == "stripe" {
		gateway = &payment.StripeGateway{Currency: config.AppConfig.DefaultCurrency}
	} else {
		gateway = &payment.ClinicGateway{Clinic: clinicClient}
	}
	paymentService := &payment.DefaultPaymentService{
		Repo:    apptRepo,
		Store:   payment.NewRedisOrderStore(utils.GetOrderCacheClient()),
		Gateway: gateway,
		Clinic:  clinicClient,
		Queue:   queue,
		Logger:  logger,
	}

	notificationService, err := notification.NewFCMNotificationService(utils.FCMClient)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}
	cron.InitBackgroundWorker(dirRepo, apptRepo, notificationService)

	// handlers.
	directoryHandler := handlers.NewDirectoryHandler(directoryService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)

	routes.RegisterRoutes(router, directoryHandler, bookingHandler, paymentHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
