package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tracknship-api/config"
	"tracknship-api/handlers"
	"tracknship-api/leaderboard"
	"tracknship-api/lifecycle"
	"tracknship-api/payments"
	"tracknship-api/routes"
	"tracknship-api/store"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.DebugMode)
	}

	db, err := config.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	log.Println("Database connected and migrated successfully")

	users := store.NewUserStore(db)
	bookings := store.NewBookingStore(db)
	reviews := store.NewReviewStore(db)
	paymentStore := store.NewPaymentStore(db)

	counter := lifecycle.NewDeliveryCounter(users)
	engine := lifecycle.NewEngine(bookings, users, counter)
	agg := leaderboard.NewAggregator(users, bookings, reviews)
	gateway := payments.NewStripeGateway(cfg.StripeSecretKey)

	secret := []byte(cfg.JWTSecret)
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "TrackNShip Parcel Delivery API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the TrackNShip Parcel Delivery API",
			"health":  "/health",
			"roles":   []string{"customer", "deliveryman", "admin"},
		})
	})

	routes.SetupRoutes(r, routes.Deps{
		Auth:        handlers.NewAuthHandler(users, secret, ttl),
		Bookings:    handlers.NewBookingHandler(engine, bookings),
		Users:       handlers.NewUserHandler(users),
		Reviews:     handlers.NewReviewHandler(reviews, bookings),
		Payments:    handlers.NewPaymentHandler(paymentStore, bookings, gateway),
		Leaderboard: handlers.NewLeaderboardHandler(agg),
		UserStore:   users,
		JWTSecret:   secret,
	})

	log.Printf("Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
