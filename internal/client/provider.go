package client

import (
	"context"
	"fmt"

	"room-relay-service/internal/config"
	"room-relay-service/internal/domain"
	"room-relay-service/internal/metrics"

	"go.uber.org/zap"
)

// RoomProvider is the external video provider. Each call is attempted once.
type RoomProvider interface {
	// CreateRoom creates a room and returns the provider's descriptor, which always has an "id"
	CreateRoom(ctx context.Context) (domain.Descriptor, error)
	// GenerateToken mints an access token for userID in roomID; the descriptor always has a "token"
	GenerateToken(ctx context.Context, roomID, userID string) (domain.Descriptor, error)
}

// NewRoomProvider builds the provider selected by cfg.Provider.Driver
func NewRoomProvider(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (RoomProvider, error) {
	switch cfg.Provider.Driver {
	case config.DriverREST, "":
		return NewRESTProvider(cfg.Provider, logger, m)
	case config.DriverLiveKit:
		return NewLiveKitProvider(cfg.LiveKit, cfg.Provider.TokenTTL, logger, m)
	default:
		return nil, fmt.Errorf("unknown provider driver: %s", cfg.Provider.Driver)
	}
}
