package main // Entry point package

import (
	"context" // Context for startup deadlines
	"log"     // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/cinebook/booking/internal/booking"    // Booking orchestrator
	"github.com/cinebook/booking/internal/config"     // Internal config loader
	"github.com/cinebook/booking/internal/database"   // MySQL connection and schema
	"github.com/cinebook/booking/internal/handler"    // HTTP handlers
	"github.com/cinebook/booking/internal/queue"      // Broker consumer
	"github.com/cinebook/booking/internal/report"     // Read-side projections
	"github.com/cinebook/booking/internal/repository" // Data access layer
	"github.com/cinebook/booking/internal/router"     // Internal router setup
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient() // May be nil; caching and rate limiting degrade gracefully
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	ledger := repository.NewBookingRepo(db)
	catalog := repository.NewCatalogRepo(db)
	customers := repository.NewCustomerRepo(db)

	svc := booking.NewService(ledger, catalog, customers, nil, nil)
	projector := report.NewProjector(ledger, catalog, customers)
	h := handler.NewBookingHandler(svc, projector)

	e := echo.New()          // Create Echo instance
	router.RegisterRoutes(e) // Health check
	router.RegisterBookings(e, h, cfg.JWTSecret, rdb)

	// Broker consumer runs for the lifetime of the process and
	// reconnects on its own; failures must not take the API down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
