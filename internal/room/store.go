package room

import (
	"context"
	"sync"
	"time"

	"nodewars/internal/model"
)

const (
	DefaultCapacity = 2
	DefaultDuration = 900
	DefaultTick     = time.Second
)

// Store is the authoritative room state. All mutations of one room are
// serialized; different rooms are mutated independently.
type Store interface {
	Create(ctx context.Context, id, slug string) error
	Join(ctx context.Context, id, connID, username string, seated SeatFunc) (*JoinResult, error)
	Disconnect(ctx context.Context, connID string) []DisconnectResult
	Resolve(ctx context.Context, id string, settle SettleFunc) ([]model.Occupant, error)
	Get(ctx context.Context, id string) (*model.RoomState, error)
	Member(ctx context.Context, id, connID string) (string, error)
	PrimaryRoom(ctx context.Context, connID string) (string, bool)
	Stats() (rooms, conns int)
	SetTimerListener(l TimerListener)
}

// SeatFunc runs inside the room's critical section after a successful join,
// so membership changes it queues are ordered against any later resolution
type SeatFunc func(res *JoinResult)

// SettleFunc runs after a room is resolved and its countdown has exited,
// while the id is still reserved
type SettleFunc func(occupants []model.Occupant)

// JoinResult describes a successful join
type JoinResult struct {
	State *model.RoomState
	// Reconnected is true when the username already held a slot
	Reconnected bool
	// ReplacedConn is the connection displaced by a reconnect, if any
	ReplacedConn string
	// TimerStarted is true when this join started the countdown
	TimerStarted bool
}

// DisconnectResult describes the effect of a lost connection on one room
type DisconnectResult struct {
	RoomID    string
	Username  string
	Occupancy int
	// TimerStopped is true when the countdown was paused by this disconnect
	TimerStopped bool
}

// Options configures a MemoryStore
type Options struct {
	Capacity  int
	Duration  int
	Tick      time.Duration
	NewTicker TickerFunc
}

type entry struct {
	mu sync.Mutex

	id           string
	slug         string
	slots        []model.Occupant
	remaining    int
	timerRunning bool
	timer        *countdown
	tasks        []*countdown // every task not yet known to have exited
	phase        model.RoomPhase
}

func (e *entry) occupancy() int {
	n := 0
	for _, o := range e.slots {
		if o.Connected {
			n++
		}
	}
	return n
}

func (e *entry) slotByName(username string) int {
	for i, o := range e.slots {
		if o.Username == username {
			return i
		}
	}
	return -1
}

func (e *entry) slotByConn(connID string) int {
	for i, o := range e.slots {
		if o.ConnID == connID {
			return i
		}
	}
	return -1
}

// snapshot must be called with e.mu held
func (e *entry) snapshot() *model.RoomState {
	occupants := make([]model.Occupant, len(e.slots))
	copy(occupants, e.slots)
	return &model.RoomState{
		ID:               e.id,
		Slug:             e.slug,
		Occupants:        occupants,
		RemainingSeconds: e.remaining,
		TimerRunning:     e.timerRunning,
		Phase:            e.phase,
	}
}

// MemoryStore keeps every room in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*entry

	registry *Registry

	capacity  int
	duration  int
	tick      time.Duration
	newTicker TickerFunc

	listenerMu sync.RWMutex
	listener   TimerListener
}

// NewMemoryStore creates an in-memory store
func NewMemoryStore(opts Options) *MemoryStore {
	if opts.Capacity <= 0 || opts.Capacity > DefaultCapacity {
		opts.Capacity = DefaultCapacity
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewStdTicker
	}
	return &MemoryStore{
		rooms:     make(map[string]*entry),
		registry:  NewRegistry(),
		capacity:  opts.Capacity,
		duration:  opts.Duration,
		tick:      opts.Tick,
		newTicker: opts.NewTicker,
		listener:  noopListener{},
	}
}

// SetTimerListener sets the receiver of countdown events
func (s *MemoryStore) SetTimerListener(l TimerListener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	if l == nil {
		l = noopListener{}
	}
	s.listener = l
}

func (s *MemoryStore) timerListener() TimerListener {
	s.listenerMu.RLock()
	defer s.listenerMu.RUnlock()
	return s.listener
}

func (s *MemoryStore) lookup(id string) *entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[id]
}

// Create adds an empty room
func (s *MemoryStore) Create(ctx context.Context, id, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; ok {
		return ErrDuplicateRoom
	}
	s.rooms[id] = &entry{
		id:        id,
		slug:      slug,
		remaining: s.duration,
		phase:     model.RoomCreated,
	}
	return nil
}

// Join seats username in the room under connID. A username that already
// holds a slot is rebound to the new connection. seated may be nil.
func (s *MemoryStore) Join(ctx context.Context, id, connID, username string, seated SeatFunc) (*JoinResult, error) {
	e := s.lookup(id)
	if e == nil {
		return nil, ErrRoomNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == model.RoomResolved {
		return nil, ErrRoomNotFound
	}

	res := &JoinResult{}
	if idx := e.slotByName(username); idx >= 0 {
		slot := &e.slots[idx]
		if slot.ConnID != connID {
			if e.slotByConn(connID) >= 0 {
				return nil, ErrAlreadySeated
			}
			s.registry.Remove(slot.ConnID, id)
			res.ReplacedConn = slot.ConnID
			slot.ConnID = connID
		}
		slot.Connected = true
		res.Reconnected = true
	} else {
		if e.slotByConn(connID) >= 0 {
			return nil, ErrAlreadySeated
		}
		if len(e.slots) >= s.capacity {
			return nil, ErrRoomFull
		}
		e.slots = append(e.slots, model.Occupant{
			Username:  username,
			ConnID:    connID,
			Connected: true,
		})
	}
	s.registry.Add(connID, id)

	if e.phase == model.RoomCreated {
		e.phase = model.RoomFilling
	}
	if e.occupancy() == s.capacity && !e.timerRunning && e.remaining > 0 {
		s.startTimer(e)
		res.TimerStarted = true
	}

	res.State = e.snapshot()
	if seated != nil {
		seated(res)
	}
	return res, nil
}

// Disconnect marks every slot bound to connID as disconnected. Slots are
// kept so the same username can reconnect.
func (s *MemoryStore) Disconnect(ctx context.Context, connID string) []DisconnectResult {
	var results []DisconnectResult
	for _, id := range s.registry.Take(connID) {
		e := s.lookup(id)
		if e == nil {
			continue
		}

		e.mu.Lock()
		idx := e.slotByConn(connID)
		if e.phase == model.RoomResolved || idx < 0 {
			e.mu.Unlock()
			continue
		}
		e.slots[idx].Connected = false

		res := DisconnectResult{
			RoomID:   id,
			Username: e.slots[idx].Username,
		}
		if e.timerRunning && e.occupancy() < s.capacity {
			s.stopTimer(e)
			e.phase = model.RoomFilling
			res.TimerStopped = true
		}
		res.Occupancy = e.occupancy()
		e.mu.Unlock()

		results = append(results, res)
	}
	return results
}

// Resolve ends the room. Joins fail from the moment it starts. settle, if
// set, runs once the countdown task has exited and before the id is
// released, so nothing can reuse the id while it runs.
func (s *MemoryStore) Resolve(ctx context.Context, id string, settle SettleFunc) ([]model.Occupant, error) {
	e := s.lookup(id)
	if e == nil {
		return nil, ErrRoomNotFound
	}

	e.mu.Lock()
	if e.phase == model.RoomResolved {
		e.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	e.phase = model.RoomResolved
	s.stopTimer(e)
	tasks := e.tasks
	e.tasks = nil
	occupants := make([]model.Occupant, len(e.slots))
	copy(occupants, e.slots)
	for _, o := range e.slots {
		s.registry.Remove(o.ConnID, id)
	}
	e.mu.Unlock()

	for _, cd := range tasks {
		cd.halt()
	}

	if settle != nil {
		settle(occupants)
	}

	s.mu.Lock()
	if s.rooms[id] == e {
		delete(s.rooms, id)
	}
	s.mu.Unlock()

	return occupants, nil
}

// Get returns a snapshot of the room
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.RoomState, error) {
	e := s.lookup(id)
	if e == nil {
		return nil, ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot(), nil
}

// Member returns the username seated under connID in the room
func (s *MemoryStore) Member(ctx context.Context, id, connID string) (string, error) {
	e := s.lookup(id)
	if e == nil {
		return "", ErrRoomNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == model.RoomResolved {
		return "", ErrRoomNotFound
	}
	idx := e.slotByConn(connID)
	if idx < 0 || !e.slots[idx].Connected {
		return "", ErrNotInRoom
	}
	return e.slots[idx].Username, nil
}

// PrimaryRoom returns the earliest joined room of connID
func (s *MemoryStore) PrimaryRoom(ctx context.Context, connID string) (string, bool) {
	return s.registry.Primary(connID)
}

// Stats returns the number of live rooms and seated connections
func (s *MemoryStore) Stats() (rooms, conns int) {
	s.mu.RLock()
	rooms = len(s.rooms)
	s.mu.RUnlock()
	return rooms, s.registry.Len()
}
