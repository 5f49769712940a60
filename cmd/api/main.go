package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ezchef/ezchef/backend/config"
	"github.com/ezchef/ezchef/backend/internal/database"
	"github.com/ezchef/ezchef/backend/internal/logger"
	"github.com/ezchef/ezchef/backend/internal/server"
	"github.com/ezchef/ezchef/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting EzChef API", zap.String("env", string(config.GetEnvironment())))

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			// rate limiting is optional
			logger.Warn("continuing without Redis", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var store service.ObjectStore
	if cfg.StorageEnabled() {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			logger.Warn("continuing without image storage", zap.Error(err))
		} else {
			store = s3cfg
		}
	}

	srv := server.New(cfg, db, redisClient, store)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
