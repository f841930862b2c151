package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"room-relay-service/internal/client"
	"room-relay-service/internal/handler"
	"room-relay-service/internal/metrics"
	"room-relay-service/internal/middleware"
	"room-relay-service/internal/repository"
	"room-relay-service/internal/service"
	"room-relay-service/internal/websocket"
)

// Config holds everything Setup wires together
type Config struct {
	DB       *gorm.DB
	Redis    *redis.Client // optional
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // defaults to prometheus.DefaultGatherer
	Hub      *websocket.Hub
	Provider client.RoomProvider

	BasePath       string
	WSPath         string
	SwaggerEnabled bool
}

// Setup builds the HTTP engine: room API under BasePath, WebSocket at WSPath,
// health, metrics and swagger at the root.
func Setup(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hub := cfg.Hub
	if hub == nil {
		hub = websocket.NewHub(logger, cfg.Metrics)
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	wsPath := cfg.WSPath
	if wsPath == "" {
		wsPath = "/ws"
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Initialize repositories
	roomRepo := repository.NewRoomRepository(cfg.DB)

	// Initialize services
	roomService := service.NewRoomService(cfg.Provider, roomRepo, hub, cfg.Metrics, logger)

	// Initialize handlers
	roomHandler := handler.NewRoomHandler(roomService, logger)
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Redis)
	wsHandler := handler.NewWSHandler(hub, logger)

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET(wsPath, wsHandler.HandleWebSocket)

	api := r.Group(cfg.BasePath)
	{
		rooms := api.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("", roomHandler.ListRooms)
			rooms.POST("/:roomId/token", roomHandler.IssueToken)
			rooms.POST("/:roomId/participants", roomHandler.AnnounceParticipantAction)
		}
	}

	return r
}
