// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"hospital-booking/cmd"
	"hospital-booking/internal/adaptor"
	"hospital-booking/internal/data/repository"
	"hospital-booking/internal/wire"
	"hospital-booking/pkg/cache"
	"hospital-booking/pkg/database"
	"hospital-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("timezone", config.App.Location().String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis is optional, the slot cache falls back to a no-op
	rdb, err := cache.NewRedisClient(config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, slot cache disabled", zap.Error(err))
	}

	var redisPinger adaptor.Pinger
	if rdb != nil {
		defer rdb.Close()
		redisPinger = adaptor.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	}

	slots := cache.NewSlotCache(rdb, config.Redis.SlotCacheTTL, logger)
	health := adaptor.NewHealthHandler(db, redisPinger, config.App.Name, logger)

	// Initialize all repositories
	repos := repository.NewRepository(db, logger, config.Database.LockTimeout)

	// Wire all dependencies
	app := wire.Wiring(repos, slots, health, config, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Info("Server stopped")
}
