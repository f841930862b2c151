package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"room-relay-service/internal/client"
	"room-relay-service/internal/domain"
	"room-relay-service/internal/metrics"
	"room-relay-service/internal/repository"
)

// Broadcaster fans a message out to every connected real-time client
type Broadcaster interface {
	Broadcast(msg []byte) int
}

// RoomService defines the interface for room business logic
type RoomService interface {
	CreateRoom(ctx context.Context) (domain.Descriptor, error)
	IssueToken(ctx context.Context, roomID, userID string) (domain.Descriptor, error)
	ListRooms(ctx context.Context) ([]domain.RoomSummary, error)
	AnnounceParticipantAction(ctx context.Context, roomID, action, userID string) (*domain.ParticipantActionResponse, error)
}

// roomServiceImpl is the implementation of RoomService
type roomServiceImpl struct {
	provider    client.RoomProvider
	repo        repository.RoomRepository
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewRoomService creates a new instance of RoomService
func NewRoomService(
	provider client.RoomProvider,
	repo repository.RoomRepository,
	broadcaster Broadcaster,
	m *metrics.Metrics,
	logger *zap.Logger,
) RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &roomServiceImpl{
		provider:    provider,
		repo:        repo,
		broadcaster: broadcaster,
		metrics:     m,
		logger:      logger,
	}
}

// CreateRoom creates a room at the provider, then records it locally.
// A failed local write does not undo the provider room.
func (s *roomServiceImpl) CreateRoom(ctx context.Context) (domain.Descriptor, error) {
	desc, err := s.provider.CreateRoom(ctx)
	if err != nil {
		return nil, err
	}

	providerData, err := json.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider response: %w", err)
	}

	if err := s.repo.InsertRoom(ctx, desc.ID(), providerData); err != nil {
		s.metrics.RecordOrphaned("room")
		s.logger.Warn("Provider room created but not persisted",
			zap.String("roomId", desc.ID()),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.IncrementRoomCreated()
	s.logger.Info("Room created", zap.String("roomId", desc.ID()))

	return desc, nil
}

// IssueToken mints a token at the provider, then records the participant.
// roomID is not checked against persisted rooms.
func (s *roomServiceImpl) IssueToken(ctx context.Context, roomID, userID string) (domain.Descriptor, error) {
	desc, err := s.provider.GenerateToken(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.InsertParticipant(ctx, userID, desc.Token(), roomID); err != nil {
		s.metrics.RecordOrphaned("token")
		s.logger.Warn("Provider token issued but participant not persisted",
			zap.String("roomId", roomID),
			zap.String("userId", userID),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.IncrementTokenIssued()
	s.logger.Info("Token issued", zap.String("roomId", roomID), zap.String("userId", userID))

	return desc, nil
}

func (s *roomServiceImpl) ListRooms(ctx context.Context) ([]domain.RoomSummary, error) {
	return s.repo.ListRoomsWithCounts(ctx)
}

// AnnounceParticipantAction broadcasts {roomId, action, userId} to every open client.
// Nothing is validated or persisted.
func (s *roomServiceImpl) AnnounceParticipantAction(ctx context.Context, roomID, action, userID string) (*domain.ParticipantActionResponse, error) {
	payload, err := json.Marshal(domain.ParticipantEvent{
		RoomID: roomID,
		Action: action,
		UserID: userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode participant event: %w", err)
	}

	delivered := s.broadcaster.Broadcast(payload)
	s.logger.Debug("Participant action broadcast",
		zap.String("roomId", roomID),
		zap.String("action", action),
		zap.String("userId", userID),
		zap.Int("delivered", delivered),
	)

	return &domain.ParticipantActionResponse{
		Message: fmt.Sprintf("Participant %s successfully", action),
	}, nil
}
