package room

import "sync"

// Registry is the reverse index from a connection to the rooms it occupies.
// Room ids are kept in join order so the first entry is the connection's
// primary room.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string][]string // connID -> roomIDs
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string][]string),
	}
}

// Add records that connID occupies roomID. Adding twice is a no-op.
func (r *Registry) Add(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.rooms[connID] {
		if id == roomID {
			return
		}
	}
	r.rooms[connID] = append(r.rooms[connID], roomID)
}

// Remove drops a single membership
func (r *Registry) Remove(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.rooms[connID]
	for i, id := range ids {
		if id == roomID {
			ids = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(r.rooms, connID)
		return
	}
	r.rooms[connID] = ids
}

// Take removes and returns every membership of connID
func (r *Registry) Take(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.rooms[connID]
	delete(r.rooms, connID)
	return ids
}

// Primary returns the earliest joined room of connID
func (r *Registry) Primary(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.rooms[connID]
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// Len returns the number of connections holding at least one membership
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
