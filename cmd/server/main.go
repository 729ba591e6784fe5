// Package main is the entry point for the Bleu IMS materials service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations

	"bleuims/internal/domain/batch"
	"bleuims/internal/domain/material"
	"bleuims/internal/domain/sale"
	v1 "bleuims/internal/infrastructure/http/v1"
	"bleuims/internal/infrastructure/identity"
	"bleuims/internal/infrastructure/storage/postgres"
	"bleuims/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting materials service")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")

	if getEnv("RUN_MIGRATIONS", "true") == "true" {
		if err := runMigrations(dsn, getEnv("MIGRATIONS_DIR", "migrations")); err != nil {
			log.Fatalw("failed to run migrations", "error", err)
		}
		log.Info("database migrations applied")
	}

	poolCfg := postgres.DefaultPoolConfig(dsn)
	if maxConns := getEnvInt("DB_MAX_CONNS", 25); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	materialRepo := postgres.NewMaterialRepo(txManager)
	batchRepo := postgres.NewBatchRepo(txManager)
	recipeRepo := postgres.NewRecipeRepo(txManager)

	// --- Services ---
	materialService := material.NewService(materialRepo, txManager)
	batchService := batch.NewService(batchRepo, materialRepo, txManager)
	saleService := sale.NewService(recipeRepo, materialRepo, txManager)

	// --- Identity service client ---
	authURL := mustEnv("AUTH_SERVICE_URL")
	authTimeout := getEnvDuration("AUTH_TIMEOUT", 5*time.Second)
	introspector := identity.NewClient(authURL, authTimeout)
	log.Infow("identity client initialized", "url", authURL, "timeout", authTimeout)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		Introspector:    introspector,
		MaterialService: materialService,
		BatchService:    batchService,
		SaleService:     saleService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8003")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// runMigrations applies pending goose migrations through database/sql.
func runMigrations(dsn, dir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	return goose.Up(db, dir)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
