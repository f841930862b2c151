package client

import (
	"context"
	"errors"
	"time"

	"room-relay-service/internal/config"
	"room-relay-service/internal/domain"
	"room-relay-service/internal/metrics"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"go.uber.org/zap"
)

const livekitCreateRoomEndpoint = "/twirp/livekit.RoomService/CreateRoom"

// livekitRoomAPI is the subset of lksdk.RoomServiceClient used here
type livekitRoomAPI interface {
	CreateRoom(ctx context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error)
}

type liveKitProvider struct {
	rooms     livekitRoomAPI
	apiKey    string
	apiSecret string
	wsURL     string
	tokenTTL  time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewLiveKitProvider creates a provider backed by a LiveKit server.
// Tokens are signed locally; only CreateRoom reaches the server.
func NewLiveKitProvider(cfg config.LiveKitConfig, tokenTTL time.Duration, logger *zap.Logger, m *metrics.Metrics) (RoomProvider, error) {
	if cfg.Host == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("livekit host, api key and api secret are required")
	}
	rooms := lksdk.NewRoomServiceClient(cfg.Host, cfg.APIKey, cfg.APISecret)
	return newLiveKitProvider(rooms, cfg, tokenTTL, logger, m), nil
}

func newLiveKitProvider(rooms livekitRoomAPI, cfg config.LiveKitConfig, tokenTTL time.Duration, logger *zap.Logger, m *metrics.Metrics) *liveKitProvider {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &liveKitProvider{
		rooms:     rooms,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		wsURL:     cfg.WSUrl,
		tokenTTL:  tokenTTL,
		logger:    logger,
		metrics:   m,
	}
}

func (p *liveKitProvider) CreateRoom(ctx context.Context) (domain.Descriptor, error) {
	startTime := time.Now()
	room, err := p.rooms.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:         uuid.NewString(),
		EmptyTimeout: 300, // 5 minutes
	})
	duration := time.Since(startTime)

	if err != nil {
		p.metrics.RecordExternalAPICall(livekitCreateRoomEndpoint, "POST", 0, duration, err)
		p.logger.Error("Failed to create LiveKit room", zap.Error(err))
		return nil, &domain.ProviderError{Op: "create room", Err: err}
	}
	p.metrics.RecordExternalAPICall(livekitCreateRoomEndpoint, "POST", 200, duration, nil)

	if room.GetName() == "" {
		return nil, &domain.ProviderError{Op: "create room", Err: domain.ErrMissingRoomID}
	}

	return domain.Descriptor{
		"id":              room.GetName(),
		"sid":             room.GetSid(),
		"name":            room.GetName(),
		"emptyTimeout":    room.GetEmptyTimeout(),
		"maxParticipants": room.GetMaxParticipants(),
		"creationTime":    room.GetCreationTime(),
	}, nil
}

func (p *liveKitProvider) GenerateToken(ctx context.Context, roomID, userID string) (domain.Descriptor, error) {
	at := auth.NewAccessToken(p.apiKey, p.apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     roomID,
	}
	at.AddGrant(grant).
		SetIdentity(userID).
		SetValidFor(p.tokenTTL)

	token, err := at.ToJWT()
	if err != nil {
		return nil, &domain.ProviderError{Op: "generate token", Err: err}
	}

	return domain.Descriptor{
		"token":  token,
		"roomId": roomID,
		"userId": userID,
		"wsUrl":  p.wsURL,
	}, nil
}
