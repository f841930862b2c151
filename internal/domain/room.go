package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Room represents a room created at the video provider
type Room struct {
	ID           uint           `gorm:"primaryKey" json:"-"`
	RoomID       string         `gorm:"size:255;not null;uniqueIndex" json:"roomId"`
	ProviderData datatypes.JSON `json:"providerData,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`

	// Relations
	Participants []Participant `gorm:"foreignKey:RoomID;references:RoomID" json:"participants,omitempty"`
}

// Participant is an access-token grant for a user in a room.
// RoomID is stored by value; it is not checked against the rooms table.
type Participant struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"size:255;not null" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"token"`
	RoomID    string    `gorm:"size:255;index" json:"roomId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Descriptor is an opaque JSON object returned by the video provider
type Descriptor map[string]interface{}

// ID returns the provider room id, or "" when absent
func (d Descriptor) ID() string {
	return d.stringField("id")
}

// Token returns the access token, or "" when absent
func (d Descriptor) Token() string {
	return d.stringField("token")
}

func (d Descriptor) stringField(key string) string {
	if d == nil {
		return ""
	}
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// DTOs
type IssueTokenRequest struct {
	UserID string `json:"userId"`
}

type ParticipantActionRequest struct {
	Action string `json:"action"`
	UserID string `json:"userId"`
}

// ParticipantEvent is the payload broadcast to every connected websocket client
type ParticipantEvent struct {
	RoomID string `json:"roomId,omitempty"`
	Action string `json:"action,omitempty"`
	UserID string `json:"userId,omitempty"`
}

type ParticipantActionResponse struct {
	Message string `json:"message"`
}

type RoomSummary struct {
	RoomID            string `json:"roomId"`
	ParticipantsCount int64  `json:"participantsCount"`
}
