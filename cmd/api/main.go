package main

import (
	"os"
	"time"

	"github.com/cargolink/cargolink-backend/internal/database"
	"github.com/cargolink/cargolink-backend/internal/handlers"
	"github.com/cargolink/cargolink-backend/internal/middleware"
	"github.com/cargolink/cargolink-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment")
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if os.Getenv("LOG_LEVEL") == "debug" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Initialize database
	db, err := database.InitDB()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to get database instance")
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis (config cache and booking event pub/sub are best-effort)
	if err := services.InitRedis(); err != nil {
		logrus.WithError(err).Warn("Redis unavailable, running without cache")
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Company routes
			companies := protected.Group("/companies")
			{
				companies.GET("/me", handlers.GetOwnCompany(db))
				companies.PUT("/me", handlers.UpdateOwnCompany(db))
				companies.GET("/:id", handlers.GetCompanyProfile(db))
			}

			// Vehicle routes
			vehicles := protected.Group("/vehicles")
			{
				vehicles.POST("", handlers.CreateVehicle(db))
				vehicles.GET("", handlers.GetAvailableVehicles(db))
				vehicles.GET("/company", handlers.GetCompanyVehicles(db))
				vehicles.PATCH("/:id/status", handlers.UpdateVehicleStatus(db))
				vehicles.DELETE("/:id", handlers.DeleteVehicle(db))
			}

			// Shipment routes
			shipments := protected.Group("/shipments")
			{
				shipments.POST("", handlers.CreateShipment(db))
				shipments.GET("", handlers.GetOpenShipments(db))
				shipments.GET("/company", handlers.GetCompanyShipments(db))
				shipments.PATCH("/:id/status", handlers.UpdateShipmentStatus(db))
			}

			// Booking routes
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db))
				bookings.GET("/my-bookings", handlers.GetMyBookings(db))
				bookings.GET("/:id", handlers.GetBooking(db))
				bookings.PATCH("/:id/status", handlers.UpdateBookingStatus(db, hub))
			}

			// Review routes
			reviews := protected.Group("/reviews")
			{
				reviews.POST("", handlers.CreateReview(db))
				reviews.GET("/company/:companyId", handlers.GetCompanyReviews(db))
				reviews.GET("/booking/:bookingId", handlers.GetBookingReviews(db))
			}

			// Platform configuration routes
			platformConfig := protected.Group("/platform-config")
			{
				platformConfig.GET("", handlers.GetPlatformConfig(db))
				platformConfig.PATCH("", handlers.UpdatePlatformConfig(db))
				platformConfig.GET("/history", handlers.GetConfigHistory(db))
				platformConfig.POST("/rollback/:version", handlers.RollbackPlatformConfig(db))
				platformConfig.PUT("/geo-restrictions", handlers.SetGeoRestrictions(db))
				platformConfig.PUT("/payment-methods", handlers.SetPaymentMethods(db))
			}

			// Pricing routes
			pricing := protected.Group("/pricing")
			{
				pricing.GET("/quote", handlers.GetBookingQuote(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}
