package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/vishnu6512/Guardian-Grid/internal/auth"
	"github.com/vishnu6512/Guardian-Grid/internal/cache"
	"github.com/vishnu6512/Guardian-Grid/internal/config"
	"github.com/vishnu6512/Guardian-Grid/internal/database"
	"github.com/vishnu6512/Guardian-Grid/internal/db"
	"github.com/vishnu6512/Guardian-Grid/internal/geo"
	"github.com/vishnu6512/Guardian-Grid/internal/handlers"
	"github.com/vishnu6512/Guardian-Grid/internal/health"
	h "github.com/vishnu6512/Guardian-Grid/internal/http"
	"github.com/vishnu6512/Guardian-Grid/internal/middleware"
	"github.com/vishnu6512/Guardian-Grid/internal/monitoring"
	"github.com/vishnu6512/Guardian-Grid/internal/repositories"
	"github.com/vishnu6512/Guardian-Grid/internal/services"
	"github.com/vishnu6512/Guardian-Grid/internal/sms"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (cooldowns fall back to the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool, cache.GetClient())

	// Start monitoring server in background
	go monitoring.NewMonitoringServer(pool, 9090).Start()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	volunteerRepo := repositories.NewVolunteerRepository(pool)
	requestRepo := repositories.NewRequestRepository(pool)
	otpRepo := repositories.NewOTPRepository(pool)
	smsLogRepo := repositories.NewSMSLogRepository(pool)

	// Use Fast2SMS for production, fall back to MockSMS if the key is not set
	var smsProvider sms.Provider
	if cfg.SMS.Fast2SMSAPIKey != "" {
		log.Println("Using Fast2SMS for OTP delivery")
		smsProvider = sms.NewFast2SMSService(cfg.SMS.Fast2SMSAPIKey)
	} else {
		log.Println("WARNING: FAST2SMS_API_KEY not set, using MockSMS (codes only print to logs)")
		smsProvider = sms.NewMockSMSService()
	}
	smsProvider.SetLogRepository(smsLogRepo)

	// Distance provider: Google when a key is configured, straight-line
	// estimates otherwise
	var distanceProvider geo.DistanceProvider
	var placesClient *geo.PlacesClient
	if cfg.Google.MapsAPIKey != "" {
		log.Println("Using Google Distance Matrix for proximity ranking")
		distanceProvider = geo.NewGoogleDistanceMatrix(cfg.Google.MapsAPIKey)
	} else {
		log.Println("WARNING: GOOGLE_MAPS_API_KEY not set, using haversine estimates")
		distanceProvider = geo.HaversineProvider{}
	}
	placesClient = geo.NewPlacesClient(cfg.Google.MapsAPIKey)
	ranker := geo.NewRanker(distanceProvider)

	// Initialize services
	otpService := services.NewOTPService(otpRepo, smsProvider, jwtManager)
	volunteerService := services.NewVolunteerService(volunteerRepo, jwtManager)
	requestService := services.NewRequestService(requestRepo, volunteerRepo)
	matchingService := services.NewMatchingService(requestRepo, volunteerRepo, ranker)
	dashboardService := services.NewDashboardService(requestRepo, volunteerRepo)
	totpService := services.NewTOTPService(volunteerRepo)

	// Initialize middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, volunteerRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	authHandler := handlers.NewAuthHandler(volunteerService, totpService, jwtManager)
	otpHandler := handlers.NewOTPHandler(otpService)
	requestHandler := handlers.NewRequestHandler(requestService, jwtManager)
	volunteerHandler := handlers.NewVolunteerHandler(volunteerService)
	matchingHandler := handlers.NewMatchingHandler(matchingService, placesClient)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	totpHandler := handlers.NewTOTPHandler(totpService, volunteerRepo)
	smsHandler := handlers.NewSMSHandler(smsLogRepo)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		otpHandler,
		requestHandler,
		volunteerHandler,
		matchingHandler,
		dashboardHandler,
		totpHandler,
		smsHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery, metrics and CORS middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Guardian Grid API running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
