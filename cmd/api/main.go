package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"localshop/internal/config"
	"localshop/internal/database"
	"localshop/internal/logger"
	"localshop/internal/pricing"
	"localshop/internal/repository"
	"localshop/internal/repository/memory"
	"localshop/internal/server"
	"localshop/internal/service"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// in-flight requests get 30 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

// openStorage returns the repositories for the configured driver. The
// database service is nil for the memory driver.
func openStorage(cfg *config.Config, log *zap.Logger) (*repository.Repositories, database.Service, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Info("Using in-memory storage")
		return memory.New().Repositories(), nil, nil
	}

	dbService, err := database.New(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Database health check", zap.Any("health", dbService.Health()))

	if err := database.RunMigrations(dbService.DB(), cfg.Storage.MigrationsDir, log); err != nil {
		dbService.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("Database migrations completed successfully")

	return repository.NewPostgres(dbService.DB()), dbService, nil
}

// connectRedis returns nil when Redis cannot be reached
func connectRedis(cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable", zap.String("addr", client.Options().Addr), zap.Error(err))
		client.Close()
		return nil
	}
	return client
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting localshop API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	repos, dbService, err := openStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}

	if cfg.Storage.Seed {
		if err := service.SeedDemoData(context.Background(), repos, pricing.NewCalculator(cfg.Pricing.TaxRate)); err != nil {
			log.Fatal("Failed to seed demo data", zap.Error(err))
		}
		log.Info("Demo data seeded")
	}

	srv := server.NewServer(cfg, log, server.Dependencies{
		Repos: repos,
		DB:    dbService,
		Redis: connectRedis(cfg.Redis, log),
	})

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
