package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// MsgAck marks a reply correlated to an inbound event
const MsgAck MessageType = "ack"

// Message is the WebSocket envelope format. AckID is set by clients that
// expect an acknowledgment and echoed back on the reply.
type Message struct {
	Type    MessageType     `json:"type"`
	AckID   *int64          `json:"ackId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Connection represents a WebSocket connection
type Connection struct {
	ID       string
	Username string
	Send     chan []byte
}

// send queues data without blocking; the message is dropped if the buffer
// is full
func (c *Connection) send(data []byte) {
	select {
	case c.Send <- data:
	default:
	}
}

type commandKind int

const (
	cmdRegister commandKind = iota
	cmdUnregister
	cmdJoin
	cmdLeave
	cmdEvict
	cmdBroadcast
)

// command is one hub operation. All operations flow through a single
// channel so a broadcast queued before an eviction reaches the evicted
// connections.
type command struct {
	kind   commandKind
	conn   *Connection
	connID string
	roomID string
	data   []byte
}

// Hub routes room broadcasts to WebSocket connections
type Hub struct {
	conns map[string]*Connection            // connID -> conn
	rooms map[string]map[string]*Connection // roomID -> connID -> conn
	joins map[string]map[string]struct{}    // connID -> roomIDs

	mu sync.RWMutex

	commands chan command
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:    make(map[string]*Connection),
		rooms:    make(map[string]map[string]*Connection),
		joins:    make(map[string]map[string]struct{}),
		commands: make(chan command, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for cmd := range h.commands {
		h.mu.Lock()
		switch cmd.kind {
		case cmdRegister:
			h.conns[cmd.conn.ID] = cmd.conn
			log.Printf("Connection %s registered for %s", cmd.conn.ID, cmd.conn.Username)

		case cmdUnregister:
			if existing, ok := h.conns[cmd.conn.ID]; ok && existing == cmd.conn {
				for roomID := range h.joins[cmd.conn.ID] {
					h.leave(roomID, cmd.conn.ID)
				}
				delete(h.joins, cmd.conn.ID)
				delete(h.conns, cmd.conn.ID)
				close(cmd.conn.Send)
				log.Printf("Connection %s unregistered", cmd.conn.ID)
			}

		case cmdJoin:
			if conn, ok := h.conns[cmd.connID]; ok {
				if h.rooms[cmd.roomID] == nil {
					h.rooms[cmd.roomID] = make(map[string]*Connection)
				}
				h.rooms[cmd.roomID][cmd.connID] = conn
				if h.joins[cmd.connID] == nil {
					h.joins[cmd.connID] = make(map[string]struct{})
				}
				h.joins[cmd.connID][cmd.roomID] = struct{}{}
			}

		case cmdLeave:
			h.leave(cmd.roomID, cmd.connID)

		case cmdEvict:
			for connID := range h.rooms[cmd.roomID] {
				h.leave(cmd.roomID, connID)
			}
			delete(h.rooms, cmd.roomID)

		case cmdBroadcast:
			for _, conn := range h.rooms[cmd.roomID] {
				conn.send(cmd.data)
			}
		}
		h.mu.Unlock()
	}
}

// leave must be called with h.mu held
func (h *Hub) leave(roomID, connID string) {
	if members, ok := h.rooms[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if rooms, ok := h.joins[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(h.joins, connID)
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.commands <- command{kind: cmdRegister, conn: conn}
}

// Unregister removes a connection and closes its send channel
func (h *Hub) Unregister(conn *Connection) {
	h.commands <- command{kind: cmdUnregister, conn: conn}
}

// JoinRoom routes room broadcasts to connID (implements service.Broadcaster)
func (h *Hub) JoinRoom(roomID, connID string) {
	h.commands <- command{kind: cmdJoin, roomID: roomID, connID: connID}
}

// LeaveRoom stops routing room broadcasts to connID (implements service.Broadcaster)
func (h *Hub) LeaveRoom(roomID, connID string) {
	h.commands <- command{kind: cmdLeave, roomID: roomID, connID: connID}
}

// EvictRoom removes every connection from a room without closing them
// (implements service.Broadcaster)
func (h *Hub) EvictRoom(roomID string) {
	h.commands <- command{kind: cmdEvict, roomID: roomID}
}

// BroadcastToRoom sends a message to every connection in a room (implements service.Broadcaster)
func (h *Hub) BroadcastToRoom(roomID string, msgType string, payload interface{}) {
	data, err := encode(MessageType(msgType), nil, payload)
	if err != nil {
		log.Printf("Failed to encode %s for room %s: %v", msgType, roomID, err)
		return
	}
	h.commands <- command{kind: cmdBroadcast, roomID: roomID, data: data}
}

// Stats returns the number of registered connections and routed rooms
func (h *Hub) Stats() (conns, rooms int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns), len(h.rooms)
}

func encode(msgType MessageType, ackID *int64, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Message{
		Type:    msgType,
		AckID:   ackID,
		Payload: raw,
	})
}
