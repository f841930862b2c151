package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"room-relay-service/internal/database"
	"room-relay-service/internal/domain"
)

func setupRoomTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(false))
	require.NoError(t, err, "failed to open database")

	// every pooled connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestRoomRepository_InsertRoom(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	err := repo.InsertRoom(ctx, "room_abc", []byte(`{"id":"room_abc"}`))
	require.NoError(t, err)

	var room domain.Room
	require.NoError(t, db.Preload("Participants").Where("room_id = ?", "room_abc").First(&room).Error)
	assert.Equal(t, "room_abc", room.RoomID)
	assert.Empty(t, room.Participants)
	assert.JSONEq(t, `{"id":"room_abc"}`, string(room.ProviderData))
}

func TestRoomRepository_InsertRoom_Duplicate(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.InsertRoom(ctx, "room_abc", nil))

	err := repo.InsertRoom(ctx, "room_abc", nil)
	require.Error(t, err)

	var persistenceErr *domain.PersistenceError
	assert.True(t, errors.As(err, &persistenceErr))
	assert.True(t, errors.Is(err, domain.ErrDuplicateRoom))

	count, err := repo.CountRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRoomRepository_InsertParticipant_UnknownRoom(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	err := repo.InsertParticipant(ctx, "u1", "tok_xyz", "room_missing")
	require.NoError(t, err)

	var participant domain.Participant
	require.NoError(t, db.First(&participant).Error)
	assert.Equal(t, "u1", participant.UserID)
	assert.Equal(t, "tok_xyz", participant.Token)
	assert.Equal(t, "room_missing", participant.RoomID)
}

func TestRoomRepository_InsertParticipant_EmptyUserID(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)

	err := repo.InsertParticipant(context.Background(), "", "tok_xyz", "room_a")
	require.Error(t, err)

	var perr *domain.PersistenceError
	assert.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, domain.ErrMissingUserID)

	count, err := repo.CountParticipants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRoomRepository_ListRoomsWithCounts(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.InsertRoom(ctx, "room_a", nil))
	require.NoError(t, repo.InsertRoom(ctx, "room_b", nil))
	require.NoError(t, repo.InsertParticipant(ctx, "u1", "t1", "room_a"))
	require.NoError(t, repo.InsertParticipant(ctx, "u2", "t2", "room_a"))
	// grants for rooms that were never stored do not create entries
	require.NoError(t, repo.InsertParticipant(ctx, "u3", "t3", "room_ghost"))

	rooms, err := repo.ListRoomsWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	counts := make(map[string]int64)
	for _, r := range rooms {
		counts[r.RoomID] = r.ParticipantsCount
	}
	assert.Equal(t, int64(2), counts["room_a"])
	assert.Equal(t, int64(0), counts["room_b"])

	participants, err := repo.CountParticipants(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), participants)
}

func TestRoomRepository_ListRoomsWithCounts_Empty(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)

	rooms, err := repo.ListRoomsWithCounts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rooms)
	assert.Empty(t, rooms)
}

func TestRoomRepository_StorageFailure(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.ListRoomsWithCounts(context.Background())
	var persistenceErr *domain.PersistenceError
	assert.True(t, errors.As(err, &persistenceErr))

	err = repo.InsertParticipant(context.Background(), "u1", "t1", "room_a")
	assert.True(t, errors.As(err, &persistenceErr))
}
