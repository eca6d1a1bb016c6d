package room

import (
	"sync"
	"time"

	"nodewars/internal/model"
)

// TimerListener receives countdown events for a room
type TimerListener interface {
	TimerTick(roomID string, remaining int)
	TimerEnded(roomID string)
}

// Ticker abstracts time.Ticker so countdowns can be driven manually in tests
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc builds a Ticker firing every d
type TickerFunc func(d time.Duration) Ticker

type stdTicker struct {
	t *time.Ticker
}

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewStdTicker is the default TickerFunc backed by time.NewTicker
func NewStdTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

type noopListener struct{}

func (noopListener) TimerTick(string, int) {}
func (noopListener) TimerEnded(string)     {}

// countdown is the handle of one running timer task. A room owns at most one
// handle at a time; a task whose handle is no longer the room's current one
// exits on its next wakeup without touching room state.
type countdown struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newCountdown() *countdown {
	return &countdown{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// signal asks the task to exit without waiting for it
func (c *countdown) signal() {
	c.once.Do(func() { close(c.stop) })
}

func (c *countdown) exited() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// halt signals the task and blocks until it has returned
func (c *countdown) halt() {
	c.signal()
	<-c.done
}

// startTimer must be called with e.mu held
func (s *MemoryStore) startTimer(e *entry) {
	cd := newCountdown()
	live := e.tasks[:0]
	for _, t := range e.tasks {
		if !t.exited() {
			live = append(live, t)
		}
	}
	e.tasks = append(live, cd)
	e.timer = cd
	e.timerRunning = true
	e.phase = model.RoomActive
	go s.runCountdown(e, cd)
}

// stopTimer must be called with e.mu held. The task is signalled but not
// waited for.
func (s *MemoryStore) stopTimer(e *entry) *countdown {
	cd := e.timer
	e.timer = nil
	e.timerRunning = false
	if cd != nil {
		cd.signal()
	}
	return cd
}

func (s *MemoryStore) runCountdown(e *entry, cd *countdown) {
	defer close(cd.done)

	t := s.newTicker(s.tick)
	defer t.Stop()

	for {
		select {
		case <-cd.stop:
			return
		case <-t.C():
		}

		remaining, ended, ok := s.step(e, cd)
		if !ok {
			return
		}

		listener := s.timerListener()
		listener.TimerTick(e.id, remaining)
		if ended {
			listener.TimerEnded(e.id)
			return
		}
	}
}

// step applies one tick under the room lock. ok is false when the task no
// longer owns the room and must exit silently.
func (s *MemoryStore) step(e *entry, cd *countdown) (remaining int, ended, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.timer != cd || e.phase == model.RoomResolved {
		return 0, false, false
	}
	if e.occupancy() < s.capacity {
		s.stopTimer(e)
		e.phase = model.RoomFilling
		return 0, false, false
	}

	e.remaining--
	if e.remaining <= 0 {
		e.remaining = 0
		e.timer = nil
		e.timerRunning = false
		ended = true
	}
	return e.remaining, ended, true
}
