package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/resolva/claims-backend/internal/api"
	"github.com/resolva/claims-backend/internal/cache"
	"github.com/resolva/claims-backend/internal/config"
	"github.com/resolva/claims-backend/internal/database"
	"github.com/resolva/claims-backend/internal/engine"
	"github.com/resolva/claims-backend/internal/metrics"
	"github.com/resolva/claims-backend/internal/middleware"
	"github.com/resolva/claims-backend/internal/service"
)

func main() {
	// Local development convenience; deployed environments set real env.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL (or database.url in config) must be set")
	}

	db, err := database.Open(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer db.Close()

	store := database.NewStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	cancel()

	// Redis is optional: without it, every read goes to Postgres.
	var claimCache service.ClaimCache
	resolutionCache, err := cache.New(
		cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLMinutes)*time.Minute)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, running without cache: %v", err)
	} else {
		defer resolutionCache.Close()
		claimCache = resolutionCache
	}

	eng := engine.New(metrics.New())
	svc := service.NewClaimsService(store, claimCache, eng)
	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewServer(svc, eng, limiter, db).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM (Cloud Run) / Ctrl-C.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("🚀 Claims API listening on :%s (env=%s)", cfg.Server.Port, cfg.Server.Env)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}
