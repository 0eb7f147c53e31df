package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lovihub/lovi-backend/config"
	"github.com/lovihub/lovi-backend/controllers"
	"github.com/lovihub/lovi-backend/repository"
	"github.com/lovihub/lovi-backend/routes"
	"github.com/lovihub/lovi-backend/services"
	"github.com/lovihub/lovi-backend/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.LogError("Error initializing database: %v", err)
		log.Fatal("Error initializing database:", err)
	}
	if err := config.SeedDefaults(db); err != nil {
		utils.LogError("Error seeding defaults: %v", err)
		log.Fatal("Error seeding defaults:", err)
	}

	// Repositories
	dealRepo := repository.NewDealRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reportRepo := repository.NewReportRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Services
	clock := services.SystemClock{}
	notifier := services.NewNotificationService(services.LogMessageSender{}, userRepo, businessRepo, cfg.SendDelay)
	var mailer services.ReportMailer
	if cfg.SMTPHost != "" {
		mailer = services.NewSMTPReportMailer(services.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}
	dealService := services.NewDealService(dealRepo, bookingRepo, reportRepo, businessRepo, notifier, mailer, clock, cfg.CommissionRate)
	bookingService := services.NewBookingService(bookingRepo, dealRepo, userRepo, businessRepo, reviewRepo,
		dealService, notifier, clock, cfg.CodePrefix, cfg.CodeValidityDays)
	antifraudService := services.NewAntifraudService(businessRepo, complaintRepo, reportRepo)
	userService := services.NewUserService(userRepo, catalogRepo)
	businessService := services.NewBusinessService(businessRepo, catalogRepo, dealRepo, dealService, bookingService, antifraudService)
	adminService := services.NewAdminService(adminRepo, statsRepo, clock)

	// Background sweeps
	scheduler := services.NewScheduler(dealService, bookingRepo, dealRepo, notifier, clock, services.SchedulerConfig{
		ActivationInterval: cfg.ActivationInterval,
		ExpiryInterval:     cfg.ExpiryInterval,
		ReviewInterval:     cfg.ReviewInterval,
		ReminderInterval:   cfg.ReminderInterval,
		ReviewGracePeriod:  cfg.ReviewGracePeriod,
		ReminderWindowMin:  cfg.ReminderWindowMin,
		ReminderWindowMax:  cfg.ReminderWindowMax,
	})
	scheduler.Start()
	defer scheduler.Stop()

	// Router
	router := routes.SetupRouter(routes.Controllers{
		Auth:     controllers.NewAuthController(userService, adminService),
		User:     controllers.NewUserController(userService),
		Deal:     controllers.NewDealController(dealService, bookingService),
		Booking:  controllers.NewBookingController(bookingService, antifraudService),
		Business: controllers.NewBusinessController(businessService, bookingService, dealService),
		Report:   controllers.NewReportController(reportRepo, dealRepo),
		Admin:    controllers.NewAdminController(adminService, antifraudService),
	}, routes.Repos{
		Users:      userRepo,
		Businesses: businessRepo,
		Admins:     adminRepo,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.LogError("Error starting server: %v", err)
			log.Fatal("Error starting server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		utils.LogError("Server shutdown: %v", err)
	}
}
