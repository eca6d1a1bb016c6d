package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgType string, payload interface{})
	JoinRoom(roomID, connID string)
	LeaveRoom(roomID, connID string)
	EvictRoom(roomID string)
}
