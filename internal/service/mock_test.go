package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"room-relay-service/internal/domain"
)

// MockRoomProvider is a mock implementation of client.RoomProvider
type MockRoomProvider struct {
	mock.Mock
}

func (m *MockRoomProvider) CreateRoom(ctx context.Context) (domain.Descriptor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Descriptor), args.Error(1)
}

func (m *MockRoomProvider) GenerateToken(ctx context.Context, roomID, userID string) (domain.Descriptor, error) {
	args := m.Called(ctx, roomID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Descriptor), args.Error(1)
}

// MockRoomRepository is a mock implementation of repository.RoomRepository
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) InsertRoom(ctx context.Context, roomID string, providerData []byte) error {
	args := m.Called(ctx, roomID, providerData)
	return args.Error(0)
}

func (m *MockRoomRepository) InsertParticipant(ctx context.Context, userID, token, roomID string) error {
	args := m.Called(ctx, userID, token, roomID)
	return args.Error(0)
}

func (m *MockRoomRepository) ListRoomsWithCounts(ctx context.Context) ([]domain.RoomSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RoomSummary), args.Error(1)
}

func (m *MockRoomRepository) CountRooms(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoomRepository) CountParticipants(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// recordingBroadcaster captures broadcast payloads
type recordingBroadcaster struct {
	mu        sync.Mutex
	messages  [][]byte
	delivered int
}

func (b *recordingBroadcaster) Broadcast(msg []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
	return b.delivered
}
