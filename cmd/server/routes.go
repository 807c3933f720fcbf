package main

import (
	"github.com/gin-gonic/gin"
	"github.com/hopefund/backend/internal/config"
	"github.com/hopefund/backend/internal/middleware"
	"github.com/hopefund/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(cfg.Frontend.URL))

	// Rate limiter for payment routes
	paymentLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "hopefund"})
	})

	// Uploaded project media
	r.Static("/static", cfg.Upload.Dir)

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", svc.authHandler.Register)
		auth.POST("/login", svc.authHandler.Login)
		auth.GET("/google", svc.authHandler.GoogleAuthURL)
		auth.GET("/google/callback", svc.authHandler.GoogleCallback)
		auth.POST("/google", svc.authHandler.GoogleLogin)
	}

	// Authenticated account routes
	me := r.Group("/auth", middleware.AuthRequired())
	{
		me.GET("/me", svc.authHandler.Me)
		me.GET("/me/stats", svc.authHandler.MyStats)
		me.POST("/verify-token", svc.authHandler.VerifyToken)
	}

	// Projects
	projects := r.Group("/projects")
	{
		projects.GET("/", svc.projectHandler.List)
		projects.GET("/:id/donor-count", svc.projectHandler.DonorCount)
		projects.POST("/", middleware.AuthRequired(), svc.projectHandler.Create)
	}

	// Donations (public: guest giving is permitted; rate limited)
	donations := r.Group("/donations", paymentLimiter.Middleware())
	{
		donations.POST("/order", svc.donationHandler.CreateOrder)
		donations.POST("/verify", svc.donationHandler.Verify)
	}

	// Admin
	admin := r.Group("/admin")
	{
		admin.POST("/login", svc.adminHandler.Login)

		moderation := admin.Group("/projects", middleware.AuthRequired(), middleware.AdminRequired())
		{
			moderation.GET("/pending", svc.adminHandler.PendingProjects)
			moderation.PUT("/:id/approve", svc.adminHandler.ApproveProject)
		}
	}
}
