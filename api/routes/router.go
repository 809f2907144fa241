package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tourly/internal/analytics"
	"tourly/internal/auth"
	"tourly/internal/bookings"
	"tourly/internal/payments"
	"tourly/internal/seats"
	"tourly/internal/shared/config"
	"tourly/internal/shared/database"
	"tourly/internal/tours"
	"tourly/pkg/cache"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	cacheService cache.Service

	// Services shared across feature packages
	tourService    tours.Service
	seatService    seats.Service
	bookingService bookings.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config:       cfg,
		db:           db,
		cacheService: cache.NewService(db.GetRedisClient()),
	}
}

// BookingService exposes the booking service for background jobs
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupTourRoutes(api)
		r.setupSeatRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "tourly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "tourly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupTourRoutes configures tour management routes
func (r *Router) setupTourRoutes(rg *gin.RouterGroup) {
	tourRepo := tours.NewRepository(r.db.GetPostgreSQL())
	tourService := tours.NewService(tourRepo)
	tourService.SetCacheService(r.cacheService)
	tourController := tours.NewController(tourService)

	// Kept for the seat and booking services
	r.tourService = tourService

	tours.SetupTourRoutes(rg, tourController)
}

// setupSeatRoutes configures the live seat map and reservation routes
func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL())
	seatStore := seats.NewRedisStore(r.db.GetRedisClient())
	seatService := seats.NewService(seatRepo, seatStore, r.tourService, r.config)
	seatService.SetCacheService(r.cacheService)
	seatController := seats.NewController(seatService)

	r.seatService = seatService

	seats.SetupSeatRoutes(rg, seatController)
}

// setupBookingRoutes configures the booking lifecycle routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.seatService, r.tourService, r.config)
	bookingController := bookings.NewController(bookingService)

	r.bookingService = bookingService

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupPaymentRoutes configures payment settings routes
func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	paymentService := payments.NewService(paymentRepo)
	paymentService.SetCacheService(r.cacheService)
	paymentController := payments.NewController(paymentService)

	payments.SetupPaymentRoutes(rg, paymentController)
}

// setupAnalyticsRoutes configures admin analytics routes
func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsRepo := analytics.NewRepository(r.db.GetPostgreSQL())
	analyticsService := analytics.NewService(analyticsRepo)
	analyticsService.SetCacheService(r.cacheService)
	analyticsController := analytics.NewController(analyticsService)

	analytics.SetupAnalyticsRoutes(rg, analyticsController)
}
