package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/cmd"
	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs := getConfigs()

	appLogger, err := logger.New(os.Stdout, configs.LogLevel, configs.LogFormat)
	if err != nil {
		log.Fatalf("Invalid logger configuration: %v", err)
	}
	slog.SetDefault(appLogger)

	gormDB := mustOpenDatabase(configs)
	redisClient := mustOpenRedis(ctx, configs)

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, appLogger)
	if warmer := app.ZoneCacheWarmer(); warmer != nil {
		if count, err := warmer.Warm(ctx); err != nil {
			appLogger.Warn("Initial zone cache warmup failed", "error", err)
		} else {
			appLogger.Info("Zone cache warmed", "zones", count)
		}
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs, appLogger)

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// getConfigs reads an optional .env file, then the environment.
func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.LoadConfig(os.LookupEnv)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return config
}

func mustOpenDatabase(configs cmd.Config) *gorm.DB {
	gormDB, err := postgres.Open(configs.Postgres())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = postgres.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return gormDB
}

// mustOpenRedis returns nil when REDIS_ADDR is not set.
func mustOpenRedis(ctx context.Context, configs cmd.Config) *redis.Client {
	if !configs.RedisEnabled() {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       configs.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", configs.RedisAddr, err)
	}
	return client
}

func startWebServer(ctx context.Context, app cmd.CompositionRoot, configs cmd.Config, appLogger *slog.Logger) {
	e := httpin.NewEcho(appLogger)
	app.CreateHTTPServer().Register(e)

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		appLogger.Info("HTTP server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	}
}
