package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/service"
	"storefront/internal/stats"
	"storefront/internal/store"
	"storefront/internal/tasks"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	st := store.NewGorm(db.DB)

	// Background side effects never block a response.
	runner := tasks.NewRunner(logger, cfg.TaskQueueSize, cfg.TaskWorkers, 15*time.Second)

	activity := service.NewActivity(cfg, st, logger, runner)

	// Catalog list cache; fall back to no caching when Redis is absent.
	cache := catalog.NewNoopCache()
	if opts, err := redis.ParseURL(cfg.RedisURL); err == nil {
		cache = catalog.NewRedisCache(redis.NewClient(opts))
	} else {
		logger.Warn("Invalid REDIS_URL, catalog cache disabled: %v", err)
	}

	tracker := stats.Tracker{
		PopularityThreshold: cfg.PopularityThreshold,
		TrendingThreshold:   cfg.TrendingThreshold,
	}
	cat := catalog.New(st, cache, logger, tracker)

	// Publish product events to Kafka when brokers are configured,
	// otherwise apply them in-process.
	var publisher events.Publisher
	if cfg.KafkaBrokers != "" {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
	}
	dispatcher := events.NewDispatcher(publisher, activity, runner, logger)

	// Initialize API server
	server := api.New(cfg, logger, cat, activity, dispatcher)

	go func() {
		logger.Info("Starting API server on port " + cfg.APIPort)
		if err := server.Start(); err != nil {
			logger.Error("Server stopped: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Shutdown failed: %v", err)
	}

	// Drain in-flight side effects before exit.
	runner.Close()
}
