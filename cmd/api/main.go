// @title           Room Relay Service API
// @version         1.0
// @description     Relay between HTTP/WebSocket clients and a video-conferencing provider

// @host      localhost:3000
// @BasePath  /

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "room-relay-service/docs" // Swagger docs import

	"room-relay-service/internal/client"
	"room-relay-service/internal/config"
	"room-relay-service/internal/database"
	"room-relay-service/internal/metrics"
	"room-relay-service/internal/repository"
	"room-relay-service/internal/router"
	"room-relay-service/internal/websocket"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Room Relay Service",
		zap.Int("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Env),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("ws_path", cfg.Server.WSPath),
		zap.String("provider", cfg.Provider.Driver),
	)

	// Initialize database
	db, err := database.New(database.Config{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Debug:           cfg.Server.LogLevel == "debug",
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Redis is optional and only backs the readiness check
	redisClient, err := database.NewRedis(cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without it", zap.Error(err))
		redisClient = nil
	}

	// Initialize metrics
	m := metrics.NewWithLogger(logger)
	logger.Info("Metrics initialized")

	provider, err := client.NewRoomProvider(cfg, logger, m)
	if err != nil {
		logger.Fatal("Failed to initialize room provider", zap.Error(err))
	}

	hub := websocket.NewHub(logger, m)

	collector, err := metrics.NewBusinessMetricsCollector(
		repository.NewRoomRepository(db), m, cfg.Metrics.CollectSchedule, logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize metrics collector", zap.Error(err))
	}
	collector.Start()

	r := router.Setup(router.Config{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		Metrics:        m,
		Hub:            hub,
		Provider:       provider,
		BasePath:       cfg.Server.BasePath,
		WSPath:         cfg.Server.WSPath,
		SwaggerEnabled: cfg.Swagger.Enabled,
	})

	// WriteTimeout stays unset; websocket connections are long-lived
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	go func() {
		logger.Info("Room Relay Service started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	collector.Stop()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}

	if err := database.Close(db); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
