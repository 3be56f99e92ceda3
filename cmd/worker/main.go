package main

import (
	"os"
	"os/signal"
	"syscall"

	"oabpe-web/internal/config"
	"oabpe-web/internal/database"
	"oabpe-web/internal/utils"
	"oabpe-web/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

func main() {
	log := utils.GetLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Initialize database
	db, err := database.NewMySQL(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	srv := worker.NewServer(cfg)

	// Register task handlers
	mux := asynq.NewServeMux()
	if err := worker.RegisterHandlers(mux, db, redisClient, cfg); err != nil {
		log.Fatalf("Failed to register handlers: %v", err)
	}

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down worker...")
		srv.Shutdown()
	}()

	// Start worker
	log.Infof("Worker starting with concurrency: %d", cfg.WorkerConcurrency)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Info("Worker exited")
}
