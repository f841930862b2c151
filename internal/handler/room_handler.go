package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"room-relay-service/internal/domain"
	"room-relay-service/internal/service"
)

type RoomHandler struct {
	roomService service.RoomService
	logger      *zap.Logger
}

func NewRoomHandler(roomService service.RoomService, logger *zap.Logger) *RoomHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomHandler{
		roomService: roomService,
		logger:      logger,
	}
}

// CreateRoom godoc
// @Summary Create a new room at the video provider
// @Description Creates a provider room and records it locally. Returns the provider's room descriptor unchanged.
// @Tags rooms
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	room, err := h.roomService.CreateRoom(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to create room", err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// IssueToken godoc
// @Summary Issue an access token for a user in a room
// @Description The room id is passed through to the provider; it is not checked against stored rooms.
// @Tags rooms
// @Accept json
// @Produce json
// @Param roomId path string true "Provider room ID"
// @Param request body domain.IssueTokenRequest true "User to admit"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /rooms/{roomId}/token [post]
func (h *RoomHandler) IssueToken(c *gin.Context) {
	roomID := c.Param("roomId")

	var req domain.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Token request body not decoded", zap.String("roomId", roomID), zap.Error(err))
	}

	token, err := h.roomService.IssueToken(c.Request.Context(), roomID, req.UserID)
	if err != nil {
		respondError(c, h.logger, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// ListRooms godoc
// @Summary List stored rooms with participant counts
// @Tags rooms
// @Produce json
// @Success 200 {array} domain.RoomSummary
// @Failure 500 {object} ErrorResponse
// @Router /rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "Failed to list rooms", err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// AnnounceParticipantAction godoc
// @Summary Broadcast a participant action to every connected WebSocket client
// @Description Always succeeds. The room and user are not validated.
// @Tags participants
// @Accept json
// @Produce json
// @Param roomId path string true "Room ID"
// @Param request body domain.ParticipantActionRequest true "Action and user"
// @Success 200 {object} domain.ParticipantActionResponse
// @Router /rooms/{roomId}/participants [post]
func (h *RoomHandler) AnnounceParticipantAction(c *gin.Context) {
	roomID := c.Param("roomId")

	var req domain.ParticipantActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Participant action body not decoded", zap.String("roomId", roomID), zap.Error(err))
	}

	resp, err := h.roomService.AnnounceParticipantAction(c.Request.Context(), roomID, req.Action, req.UserID)
	if err != nil {
		h.logger.Error("Failed to broadcast participant action", zap.Error(err))
		resp = &domain.ParticipantActionResponse{Message: "Participant " + req.Action + " successfully"}
	}

	c.JSON(http.StatusOK, resp)
}
