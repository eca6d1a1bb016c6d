package handler

import (
	"context"
	"errors"
	"net/http"

	"nodewars/internal/model"
	"nodewars/internal/room"

	"github.com/gorilla/mux"
)

// RoomReader exposes read-only room state
type RoomReader interface {
	GetRoom(ctx context.Context, roomID string) (*model.RoomState, error)
	Stats() (rooms, conns int)
}

// SocketCounter reports live websocket routing state
type SocketCounter interface {
	Stats() (conns, rooms int)
}

// RoomHandler handles room endpoints
type RoomHandler struct {
	rooms   RoomReader
	sockets SocketCounter
}

// NewRoomHandler creates a new room handler. sockets may be nil.
func NewRoomHandler(rooms RoomReader, sockets SocketCounter) *RoomHandler {
	return &RoomHandler{rooms: rooms, sockets: sockets}
}

// Get handles GET /v1/rooms/{roomId}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	state, err := h.rooms.GetRoom(r.Context(), roomID)
	if errors.Is(err, room.ErrRoomNotFound) {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Stats handles GET /v1/rooms
func (h *RoomHandler) Stats(w http.ResponseWriter, r *http.Request) {
	rooms, conns := h.rooms.Stats()
	stats := map[string]int{
		"rooms":       rooms,
		"connections": conns,
	}
	if h.sockets != nil {
		sockets, _ := h.sockets.Stats()
		stats["sockets"] = sockets
	}
	writeJSON(w, http.StatusOK, stats)
}
