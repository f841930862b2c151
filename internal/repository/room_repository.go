package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"room-relay-service/internal/domain"
)

// RoomRepository defines the interface for room and participant data access
type RoomRepository interface {
	InsertRoom(ctx context.Context, roomID string, providerData []byte) error
	InsertParticipant(ctx context.Context, userID, token, roomID string) error
	ListRoomsWithCounts(ctx context.Context) ([]domain.RoomSummary, error)
	CountRooms(ctx context.Context) (int64, error)
	CountParticipants(ctx context.Context) (int64, error)
}

// roomRepositoryImpl is the GORM implementation of RoomRepository
type roomRepositoryImpl struct {
	db *gorm.DB
}

// NewRoomRepository creates a new instance of RoomRepository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepositoryImpl{db: db}
}

// InsertRoom creates a room record with no participants
func (r *roomRepositoryImpl) InsertRoom(ctx context.Context, roomID string, providerData []byte) error {
	room := &domain.Room{
		RoomID:       roomID,
		ProviderData: providerData,
	}
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.PersistenceError{Op: "insert room", Err: domain.ErrDuplicateRoom}
		}
		return &domain.PersistenceError{Op: "insert room", Err: err}
	}
	return nil
}

// InsertParticipant stores a token grant. userID is required; roomID is not checked against existing rooms.
func (r *roomRepositoryImpl) InsertParticipant(ctx context.Context, userID, token, roomID string) error {
	if userID == "" {
		return &domain.PersistenceError{Op: "insert participant", Err: domain.ErrMissingUserID}
	}
	participant := &domain.Participant{
		UserID: userID,
		Token:  token,
		RoomID: roomID,
	}
	if err := r.db.WithContext(ctx).Create(participant).Error; err != nil {
		return &domain.PersistenceError{Op: "insert participant", Err: err}
	}
	return nil
}

// ListRoomsWithCounts returns every room with the number of participants linked to it by room id
func (r *roomRepositoryImpl) ListRoomsWithCounts(ctx context.Context) ([]domain.RoomSummary, error) {
	summaries := make([]domain.RoomSummary, 0)
	err := r.db.WithContext(ctx).
		Model(&domain.Room{}).
		Select("rooms.room_id AS room_id, COUNT(participants.id) AS participants_count").
		Joins("LEFT JOIN participants ON participants.room_id = rooms.room_id").
		Group("rooms.id, rooms.room_id").
		Order("rooms.id").
		Scan(&summaries).Error
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list rooms", Err: err}
	}
	return summaries, nil
}

// CountRooms returns the number of stored rooms
func (r *roomRepositoryImpl) CountRooms(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Room{}).Count(&count).Error; err != nil {
		return 0, &domain.PersistenceError{Op: "count rooms", Err: err}
	}
	return count, nil
}

// CountParticipants returns the number of stored participant grants
func (r *roomRepositoryImpl) CountParticipants(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Participant{}).Count(&count).Error; err != nil {
		return 0, &domain.PersistenceError{Op: "count participants", Err: err}
	}
	return count, nil
}
