package model

// RoomPhase is the lifecycle stage of a duel room
type RoomPhase string

const (
	RoomCreated  RoomPhase = "created"
	RoomFilling  RoomPhase = "filling"
	RoomActive   RoomPhase = "active"
	RoomResolved RoomPhase = "resolved"
)

// Outcome is the terminal result of a duel room
type Outcome string

const (
	OutcomeDraw    Outcome = "draw"
	OutcomeForfeit Outcome = "forfeit"
)

// Occupant is a participant slot inside a room
type Occupant struct {
	Username  string `json:"username"`
	ConnID    string `json:"-"`
	Connected bool   `json:"connected"`
}

// RoomState is a point-in-time copy of a room held by the store
type RoomState struct {
	ID               string     `json:"id"`
	Slug             string     `json:"slug"`
	Occupants        []Occupant `json:"occupants"`
	RemainingSeconds int        `json:"remainingSeconds"`
	TimerRunning     bool       `json:"timerRunning"`
	Phase            RoomPhase  `json:"phase"`
}

// Occupancy returns the number of occupants with a live connection
func (s *RoomState) Occupancy() int {
	n := 0
	for _, o := range s.Occupants {
		if o.Connected {
			n++
		}
	}
	return n
}

// JoinAck is returned to a client after a successful join_room
type JoinAck struct {
	Status string `json:"status"`
	Slug   string `json:"slug"`
}
