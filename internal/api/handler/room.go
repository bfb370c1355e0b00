package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2exd/suit-streak-server/internal/api/middleware"
	"github.com/2exd/suit-streak-server/internal/api/request"
	"github.com/2exd/suit-streak-server/internal/api/response"
	"github.com/2exd/suit-streak-server/internal/model"
	"github.com/2exd/suit-streak-server/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	roomController *room.Controller
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomController *room.Controller) *RoomHandler {
	return &RoomHandler{
		roomController: roomController,
	}
}

// List handles GET /api/v1/rooms
// Only rooms that are waiting and not full are returned.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomController.AvailableRooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomListFromModel(rooms))
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	var req request.CreateRoomRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	created, err := h.roomController.CreateRoom(r.Context(), userID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["id"])

	found, err := h.roomController.GetRoom(r.Context(), roomID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(found))
}

// GetCurrent handles GET /api/v1/rooms/current
func (h *RoomHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	current, err := h.roomController.CurrentRoom(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(current))
}

// Join handles POST /api/v1/rooms/{id}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())
	roomID := model.RoomID(mux.Vars(r)["id"])

	joined, err := h.roomController.JoinRoom(r.Context(), userID, roomID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(joined))
}

// Leave handles POST /api/v1/rooms/leave
// Leaving while not in a room succeeds with no effect.
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	if err := h.roomController.LeaveRoom(r.Context(), userID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ToggleReady handles POST /api/v1/rooms/ready
func (h *RoomHandler) ToggleReady(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	updated, err := h.roomController.ToggleReady(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if updated == nil {
		response.NoContent(w)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(updated))
}

// Start handles POST /api/v1/rooms/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.MustGetUserID(r.Context())

	started, err := h.roomController.StartGame(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(started))
}
