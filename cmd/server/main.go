package main

import (
	"context"
	"log"

	"github.com/cliniclink/telehealth-server/config"
	"github.com/cliniclink/telehealth-server/internal/handlers"
	"github.com/cliniclink/telehealth-server/internal/janitor"
	"github.com/cliniclink/telehealth-server/internal/middleware"
	"github.com/cliniclink/telehealth-server/internal/relay"
	"github.com/cliniclink/telehealth-server/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	st, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()
	log.Printf("Using %s store", cfg.StoreBackend)

	// Signaling core, one instance for the process lifetime
	svc := relay.NewService()

	jan := janitor.New(svc, cfg.RoomIdleTTL)
	if err := jan.Start(cfg.SweepSchedule); err != nil {
		log.Fatalf("Failed to start janitor: %v", err)
	}
	defer jan.Stop()

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Global CORS middleware (runs before routing)
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	{
		// Demo login (public); pairs with the client's user-card picker
		apiGroup.POST("/auth/login", handlers.Login(st, cfg.JWTSecret))

		// User lookup (public)
		apiGroup.GET("/users/:id", handlers.GetUser(st))

		// Appointment listing (public), booking requires JWT
		apiGroup.GET("/appointments", handlers.ListAppointments(st))
		apiGroup.POST("/appointments", middleware.JWTAuth(cfg.JWTSecret), handlers.CreateAppointment(st))
	}

	// WebSocket signaling endpoint; peers join rooms by message, no auth
	wsGroup := router.Group("/ws")
	{
		wsGroup.GET("/signal", handlers.HandleSignaling(svc))
	}

	// Start server
	log.Printf("Starting telehealth server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "redis":
		return store.NewRedis(context.Background(), cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	default:
		return store.NewMemory(), nil
	}
}
