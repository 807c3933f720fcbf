package main

import (
	"github.com/hopefund/backend/internal/config"
	"github.com/hopefund/backend/internal/handlers"
	"github.com/hopefund/backend/internal/models"
	"github.com/hopefund/backend/internal/services"
	"github.com/hopefund/backend/internal/storage"
	"github.com/hopefund/backend/internal/utils"
	"github.com/hopefund/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	taskQueue       services.TaskQueue
	worker          *services.Worker
	authHandler     *handlers.AuthHandler
	adminHandler    *handlers.AdminHandler
	projectHandler  *handlers.ProjectHandler
	donationHandler *handlers.DonationHandler
}

// bootstrap initializes all application dependencies: database, services,
// task queue, upload storage.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	db, err := models.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Services
	google := services.NewGoogleClient(&cfg.Google)
	authService := services.NewAuthService(db, &cfg.JWT, google)
	projectService := services.NewProjectService(db)
	donationService := services.NewDonationService(db, cfg.Razorpay.Currency)
	userService := services.NewUserService(db)
	payments := services.NewRazorpayClient(&cfg.Razorpay)
	impactService := services.NewImpactService(&cfg.Gemini)
	scorer := services.NewImpactScorer(impactService, projectService)

	// Upload storage for project media
	uploads, err := storage.NewStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
	if err != nil {
		logger.Fatalf("Failed to prepare upload storage: %v", err)
	}

	// Task queue for impact analysis (Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(scorer.Process)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if taskQueue.IsAsync() {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(scorer.Process)
			worker.Start()
		}
	}

	// Seed the admin account
	if cfg.Admin.Email != "" {
		if err := authService.EnsureAdmin(cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Warn().Err(err).Msg("Failed to seed admin account")
		}
	}

	return &appServices{
		taskQueue:       taskQueue,
		worker:          worker,
		authHandler:     handlers.NewAuthHandler(authService, userService, google, cfg.Frontend.URL),
		adminHandler:    handlers.NewAdminHandler(authService, projectService),
		projectHandler:  handlers.NewProjectHandler(projectService, uploads, taskQueue),
		donationHandler: handlers.NewDonationHandler(payments, donationService, cfg.Razorpay.Currency),
	}
}

// shutdown gracefully stops the worker and queue.
func (s *appServices) shutdown() {
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("Shutdown complete")
}
