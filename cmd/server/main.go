package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/nutripoints/backend/config"
	httpDelivery "github.com/nutripoints/backend/internal/delivery/http"
	"github.com/nutripoints/backend/internal/infrastructure/postgres"
	"github.com/nutripoints/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting NutriPoints Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Scoring formula: %s", cfg.Scoring.Formula)

	// Connect to the nutrition store
	ctx := context.Background()
	pool, err := postgres.Connect(ctx, postgres.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	log.Printf("Database pool ready (max_conns=%d)", cfg.Database.MaxConns)

	foodRepo := postgres.NewFoodRepository(pool, cfg.Database.QueryTimeout)

	// Initialize usecase layer
	formula, err := usecase.NewScoringFormula(cfg.Scoring.Formula)
	if err != nil {
		log.Fatalf("Failed to select scoring formula: %v", err)
	}

	pointsService := usecase.NewPointsService(foodRepo, formula, usecase.PointsServiceConfig{})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(pointsService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
