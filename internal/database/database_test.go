package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"room-relay-service/internal/config"
	"room-relay-service/internal/domain"
)

func TestAutoMigrate_UniqueRoomID(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig(false))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&domain.Room{}))
	assert.True(t, db.Migrator().HasTable(&domain.Participant{}))

	require.NoError(t, db.Create(&domain.Room{RoomID: "r1"}).Error)
	err = db.Create(&domain.Room{RoomID: "r1"}).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	// participants are not tied to existing rooms
	require.NoError(t, db.Create(&domain.Participant{UserID: "u1", Token: "t", RoomID: "missing"}).Error)

	require.NoError(t, Close(db))
}

func TestNewRedis_Disabled(t *testing.T) {
	client, err := NewRedis(config.RedisConfig{}, zap.NewNop())

	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedis_Unreachable(t *testing.T) {
	client, err := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: 1}, zap.NewNop())

	assert.Error(t, err)
	assert.Nil(t, client)
}
