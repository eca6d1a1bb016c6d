package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"

	"nodewars/internal/model"
	"nodewars/internal/room"
)

// Coordinator is the room logic the router dispatches to
type Coordinator interface {
	CreateRoom(ctx context.Context, connID string, req model.CreateRoomRequest) error
	JoinRoom(ctx context.Context, connID, identity string, req model.JoinRoomRequest) (*model.JoinAck, error)
	Chat(ctx context.Context, connID string, msg model.ChatMessage)
	Message(ctx context.Context, connID, text string)
	RequestDraw(ctx context.Context, connID, roomID string) error
	RespondDraw(ctx context.Context, connID string, req model.RespondDrawRequest) error
	Forfeit(ctx context.Context, connID, roomID string) error
	Disconnect(ctx context.Context, connID string)
}

// EventHandler handles one inbound event. A nil return means no ack.
type EventHandler func(ctx context.Context, conn *Connection, payload json.RawMessage) interface{}

// Router dispatches inbound events by name
type Router struct {
	coordinator Coordinator
	handlers    map[string]EventHandler
}

// NewRouter creates a router with every room event registered
func NewRouter(c Coordinator) *Router {
	r := &Router{
		coordinator: c,
		handlers:    make(map[string]EventHandler),
	}
	r.Handle(model.EventCreateRoom, r.createRoom)
	r.Handle(model.EventJoinRoom, r.joinRoom)
	r.Handle(model.EventChatMessage, r.chatMessage)
	r.Handle(model.EventMessage, r.message)
	r.Handle(model.EventRequestDraw, r.requestDraw)
	r.Handle(model.EventRespondDraw, r.respondDraw)
	r.Handle(model.EventForfeit, r.forfeit)
	return r
}

// Handle registers h for the named event
func (r *Router) Handle(event string, h EventHandler) {
	r.handlers[event] = h
}

// Dispatch decodes one frame and runs its handler. The returned bytes are
// the encoded ack, or nil when no ack is owed.
func (r *Router) Dispatch(ctx context.Context, conn *Connection, data []byte) []byte {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Malformed frame from %s: %v", conn.ID, err)
		return nil
	}

	var ack interface{}
	if h, ok := r.handlers[string(msg.Type)]; ok {
		ack = h(ctx, conn, msg.Payload)
	} else {
		log.Printf("Unknown event %q from %s", msg.Type, conn.ID)
		ack = model.AckUnknownEvent
	}

	if ack == nil || msg.AckID == nil {
		return nil
	}
	out, err := encode(MsgAck, msg.AckID, ack)
	if err != nil {
		log.Printf("Failed to encode ack for %s: %v", conn.ID, err)
		return nil
	}
	return out
}

// Disconnect releases the connection's room slots
func (r *Router) Disconnect(ctx context.Context, conn *Connection) {
	r.coordinator.Disconnect(ctx, conn.ID)
}

func (r *Router) createRoom(ctx context.Context, conn *Connection, payload json.RawMessage) interface{} {
	var req model.CreateRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return model.AckError
	}
	if err := r.coordinator.CreateRoom(ctx, conn.ID, req); err != nil {
		log.Printf("create_room %s from %s failed: %v", req.RoomID, conn.ID, err)
		return model.AckError
	}
	return model.AckSuccess
}

func (r *Router) joinRoom(ctx context.Context, conn *Connection, payload json.RawMessage) interface{} {
	var req model.JoinRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return model.AckError
	}
	ack, err := r.coordinator.JoinRoom(ctx, conn.ID, conn.Username, req)
	if err != nil {
		log.Printf("join_room %s from %s failed: %v", req.RoomID, conn.ID, err)
		if errors.Is(err, room.ErrRoomFull) {
			return model.AckRoomFull
		}
		return model.AckError
	}
	return ack
}

func (r *Router) chatMessage(ctx context.Context, conn *Connection, payload json.RawMessage) interface{} {
	var msg model.ChatMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil
	}
	r.coordinator.Chat(ctx, conn.ID, msg)
	return nil
}

func (r *Router) message(ctx context.Context, conn *Connection, payload json.RawMessage) interface{} {
	var text string
	if err := json.Unmarshal(payload, &text); err != nil {
		return nil
	}
	r.coordinator.Message(ctx, conn.ID, text)
	return nil
}

func (r *Router) requestDraw(ctx context.Context, conn *Connection, payload json.RawMessage) interface{} {
	roomID, ok := decodeRoomID(payload)
	if !ok {
		return model.AckNotInRoom
	}
	if err := r.coordinator.RequestDraw(ctx, conn.ID, roomID); err != nil {
		return model.AckNotInRoom
	}
	return nil
}

func (r *Router) respondDraw(ctx context.Context, conn *Connection, payload json.RawMessage) interface{} {
	var req model.RespondDrawRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil
	}
	if err := r.coordinator.RespondDraw(ctx, conn.ID, req); err != nil {
		log.Printf("respond_draw %s from %s failed: %v", req.RoomID, conn.ID, err)
	}
	return nil
}

func (r *Router) forfeit(ctx context.Context, conn *Connection, payload json.RawMessage) interface{} {
	roomID, ok := decodeRoomID(payload)
	if !ok {
		return nil
	}
	if err := r.coordinator.Forfeit(ctx, conn.ID, roomID); err != nil {
		log.Printf("forfeit %s from %s failed: %v", roomID, conn.ID, err)
	}
	return nil
}

// decodeRoomID accepts a bare string, an object with roomId, or no payload
func decodeRoomID(payload json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", true
	}
	var id string
	if err := json.Unmarshal(trimmed, &id); err == nil {
		return id, true
	}
	var req model.RoomRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return "", false
	}
	return req.RoomID, true
}
