package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn(id string) *Connection {
	return &Connection{
		ID:       id,
		Username: id,
		Send:     make(chan []byte, 16),
	}
}

func recv(t *testing.T, c *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatalf("no message for %s", c.ID)
		return Message{}
	}
}

// flush waits until every command queued before it has been applied
func flush(t *testing.T, h *Hub) {
	t.Helper()
	marker := newTestConn("marker")
	h.Register(marker)
	h.JoinRoom("flush-room", marker.ID)
	h.BroadcastToRoom("flush-room", "marker", nil)
	recv(t, marker)
	h.Unregister(marker)
	select {
	case _, ok := <-marker.Send:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("flush connection not unregistered")
	}
}

func TestHub_BroadcastToRoom(t *testing.T) {
	h := NewHub()
	a, b, c := newTestConn("a"), newTestConn("b"), newTestConn("c")
	for _, conn := range []*Connection{a, b, c} {
		h.Register(conn)
	}
	h.JoinRoom("r1", "a")
	h.JoinRoom("r1", "b")
	h.JoinRoom("r2", "c")

	h.BroadcastToRoom("r1", "timer_update", 42)
	flush(t, h)

	for _, conn := range []*Connection{a, b} {
		msg := recv(t, conn)
		assert.Equal(t, MessageType("timer_update"), msg.Type)
		assert.Nil(t, msg.AckID)
		assert.JSONEq(t, `42`, string(msg.Payload))
	}
	assert.Empty(t, c.Send)
}

func TestHub_JoinUnknownConnection(t *testing.T) {
	h := NewHub()
	h.JoinRoom("r1", "ghost")
	flush(t, h)

	_, rooms := h.Stats()
	assert.Equal(t, 0, rooms)
}

func TestHub_BroadcastBeforeEvictIsDelivered(t *testing.T) {
	h := NewHub()
	a, b := newTestConn("a"), newTestConn("b")
	h.Register(a)
	h.Register(b)
	h.JoinRoom("r1", "a")
	h.JoinRoom("r1", "b")

	h.BroadcastToRoom("r1", "game_draw", "Draw agreed")
	h.EvictRoom("r1")
	h.BroadcastToRoom("r1", "timer_update", 1)
	flush(t, h)

	for _, conn := range []*Connection{a, b} {
		msg := recv(t, conn)
		assert.Equal(t, MessageType("game_draw"), msg.Type)
		assert.JSONEq(t, `"Draw agreed"`, string(msg.Payload))
		assert.Empty(t, conn.Send)
	}

	conns, rooms := h.Stats()
	assert.Equal(t, 2, conns)
	assert.Equal(t, 0, rooms)
}

func TestHub_LeaveRoom(t *testing.T) {
	h := NewHub()
	a, b := newTestConn("a"), newTestConn("b")
	h.Register(a)
	h.Register(b)
	h.JoinRoom("r1", "a")
	h.JoinRoom("r1", "b")
	h.LeaveRoom("r1", "a")

	h.BroadcastToRoom("r1", "room_message", "hi")
	flush(t, h)

	assert.Empty(t, a.Send)
	assert.Equal(t, MessageType("room_message"), recv(t, b).Type)
}

func TestHub_Unregister(t *testing.T) {
	h := NewHub()
	a := newTestConn("a")
	h.Register(a)
	h.JoinRoom("r1", "a")
	h.Unregister(a)

	select {
	case _, ok := <-a.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}

	flush(t, h)
	conns, rooms := h.Stats()
	assert.Equal(t, 0, conns)
	assert.Equal(t, 0, rooms)
}

func TestHub_UnregisterStaleConnection(t *testing.T) {
	h := NewHub()
	stale := newTestConn("a")
	fresh := newTestConn("a")
	h.Register(stale)
	h.Register(fresh)
	h.Unregister(stale)
	flush(t, h)

	conns, _ := h.Stats()
	assert.Equal(t, 1, conns)

	h.JoinRoom("r1", "a")
	h.BroadcastToRoom("r1", "room_message", "still here")
	flush(t, h)
	assert.Equal(t, MessageType("room_message"), recv(t, fresh).Type)
}

func TestConnection_SendDropsWhenFull(t *testing.T) {
	c := &Connection{ID: "a", Send: make(chan []byte, 1)}
	c.send([]byte("one"))
	c.send([]byte("two"))

	assert.Equal(t, []byte("one"), <-c.Send)
	assert.Empty(t, c.Send)
}
