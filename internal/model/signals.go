package model

// Inbound event names
const (
	EventCreateRoom  = "create_room"
	EventJoinRoom    = "join_room"
	EventChatMessage = "chat_message"
	EventMessage     = "message"
	EventRequestDraw = "request_draw"
	EventRespondDraw = "respond_draw"
	EventForfeit     = "forfeit"
)

// Outbound broadcast names
const (
	EventRoomUpdate    = "room_update"
	EventRoomMessage   = "room_message"
	EventDrawRequested = "draw_requested"
	EventGameDraw      = "game_draw"
	EventDrawRejected  = "draw_rejected"
	EventGameForfeit   = "game_forfeit"
	EventTimerUpdate   = "timer_update"
	EventTimerEnded    = "timer_ended"
)

// Ack payloads sent back to the triggering connection
const (
	AckSuccess      = "success"
	AckError        = "error"
	AckRoomFull     = "error: room full"
	AckNotInRoom    = "error: client not in room"
	AckUnknownEvent = "error: unknown event"
)

// CreateRoomRequest is the create_room payload
type CreateRoomRequest struct {
	RoomID string `json:"roomId"`
	Slug   string `json:"slug"`
}

// JoinRoomRequest is the join_room payload
type JoinRoomRequest struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username,omitempty"`
}

// ChatMessage is relayed verbatim to the room
type ChatMessage struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

// RoomRequest carries an optional room id for draw requests and forfeits
type RoomRequest struct {
	RoomID string `json:"roomId,omitempty"`
}

// RespondDrawRequest is the respond_draw payload
type RespondDrawRequest struct {
	RoomID   string `json:"roomId"`
	Accepted bool   `json:"accepted"`
}

// ForfeitNotice is broadcast when a player forfeits
type ForfeitNotice struct {
	Message string `json:"message"`
	By      string `json:"by,omitempty"`
}
