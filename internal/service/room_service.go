package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"nodewars/internal/model"
	"nodewars/internal/room"
)

// ProblemValidator reports whether a problem slug exists
type ProblemValidator interface {
	Exists(ctx context.Context, slug string) (bool, error)
}

// ProfileLookup resolves roster decoration for a username
type ProfileLookup interface {
	Lookup(ctx context.Context, username string) (*model.Profile, error)
}

// RoomService coordinates duel rooms: occupancy, countdown, chat, draw
// negotiation and forfeits
type RoomService struct {
	store       room.Store
	problems    ProblemValidator
	profiles    ProfileLookup
	broadcaster Broadcaster
}

// NewRoomService creates a new room service and subscribes it to the
// store's countdown events
func NewRoomService(store room.Store, problems ProblemValidator, profiles ProfileLookup) *RoomService {
	s := &RoomService{
		store:    store,
		problems: problems,
		profiles: profiles,
	}
	store.SetTimerListener(s)
	return s
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *RoomService) broadcast(roomID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(roomID, msgType, payload)
	}
}

// CreateRoom registers an empty room for a problem
func (s *RoomService) CreateRoom(ctx context.Context, connID string, req model.CreateRoomRequest) error {
	if req.RoomID == "" || req.Slug == "" {
		return ErrInvalidRequest
	}

	if s.problems != nil {
		ok, err := s.problems.Exists(ctx, req.Slug)
		if err != nil {
			return fmt.Errorf("failed to validate problem: %w", err)
		}
		if !ok {
			return ErrUnknownProblem
		}
	}

	if err := s.store.Create(ctx, req.RoomID, req.Slug); err != nil {
		return err
	}

	log.Printf("Room %s created by %s with slug %s", req.RoomID, connID, req.Slug)
	return nil
}

// JoinRoom seats the connection in a room. identity is the username proven
// by the connection's credential; an explicit username must match it.
func (s *RoomService) JoinRoom(ctx context.Context, connID, identity string, req model.JoinRoomRequest) (*model.JoinAck, error) {
	username := req.Username
	if identity != "" {
		if username != "" && username != identity {
			return nil, ErrIdentityMismatch
		}
		username = identity
	}
	if req.RoomID == "" || username == "" {
		return nil, ErrInvalidRequest
	}

	res, err := s.store.Join(ctx, req.RoomID, connID, username, func(res *room.JoinResult) {
		if s.broadcaster == nil {
			return
		}
		if res.ReplacedConn != "" {
			s.broadcaster.LeaveRoom(req.RoomID, res.ReplacedConn)
		}
		s.broadcaster.JoinRoom(req.RoomID, connID)
	})
	if err != nil {
		return nil, err
	}

	if res.Reconnected {
		log.Printf("Player %s reconnected to room %s on %s", username, req.RoomID, connID)
	} else {
		log.Printf("Player %s joined room %s on %s", username, req.RoomID, connID)
	}

	s.broadcast(req.RoomID, model.EventRoomUpdate, s.roster(ctx, res.State))

	if res.TimerStarted {
		log.Printf("Room %s timer started at %d seconds", req.RoomID, res.State.RemainingSeconds)
	}

	return &model.JoinAck{
		Status: model.AckSuccess,
		Slug:   res.State.Slug,
	}, nil
}

func (s *RoomService) roster(ctx context.Context, state *model.RoomState) []model.Profile {
	roster := make([]model.Profile, 0, len(state.Occupants))
	for _, o := range state.Occupants {
		profile := model.Profile{Username: o.Username}
		if s.profiles != nil {
			p, err := s.profiles.Lookup(ctx, o.Username)
			if err != nil {
				log.Printf("Profile lookup for %s failed: %v", o.Username, err)
			} else if p != nil {
				profile = *p
				profile.Username = o.Username
			}
		}
		roster = append(roster, profile)
	}
	return roster
}

// Chat relays a chat message to the sender's room. Senders without a room
// are ignored.
func (s *RoomService) Chat(ctx context.Context, connID string, msg model.ChatMessage) {
	roomID, ok := s.store.PrimaryRoom(ctx, connID)
	if !ok {
		return
	}
	s.broadcast(roomID, model.EventRoomMessage, msg)
	log.Printf("Message from %s in room %s: %s: %s", connID, roomID, msg.Username, msg.Content)
}

// Message relays a plain text message to the sender's room
func (s *RoomService) Message(ctx context.Context, connID, text string) {
	roomID, ok := s.store.PrimaryRoom(ctx, connID)
	if !ok {
		return
	}
	s.broadcast(roomID, model.EventRoomMessage, text)
	log.Printf("Message from %s in room %s: %s", connID, roomID, text)
}

// RequestDraw offers a draw to the room on behalf of the sender
func (s *RoomService) RequestDraw(ctx context.Context, connID, roomID string) error {
	if roomID == "" {
		primary, ok := s.store.PrimaryRoom(ctx, connID)
		if !ok {
			return room.ErrNotInRoom
		}
		roomID = primary
	}

	username, err := s.store.Member(ctx, roomID, connID)
	if err != nil {
		return room.ErrNotInRoom
	}

	s.broadcast(roomID, model.EventDrawRequested, username)
	log.Printf("Player %s requested a draw in room %s", username, roomID)
	return nil
}

// RespondDraw settles an outstanding draw offer. An accepted draw resolves
// the room; a rejected one leaves it untouched.
func (s *RoomService) RespondDraw(ctx context.Context, connID string, req model.RespondDrawRequest) error {
	if req.RoomID == "" {
		return ErrInvalidRequest
	}

	if req.Accepted {
		return s.resolve(ctx, req.RoomID, model.OutcomeDraw, model.EventGameDraw, "Draw agreed")
	}

	if _, err := s.store.Get(ctx, req.RoomID); err != nil {
		return err
	}
	s.broadcast(req.RoomID, model.EventDrawRejected, "Draw request declined")
	log.Printf("Draw rejected in room %s by %s", req.RoomID, connID)
	return nil
}

// Forfeit ends the room immediately
func (s *RoomService) Forfeit(ctx context.Context, connID, roomID string) error {
	if roomID == "" {
		primary, ok := s.store.PrimaryRoom(ctx, connID)
		if !ok {
			return room.ErrNotInRoom
		}
		roomID = primary
	}

	by, err := s.store.Member(ctx, roomID, connID)
	if err != nil && !errors.Is(err, room.ErrNotInRoom) {
		return err
	}

	return s.resolve(ctx, roomID, model.OutcomeForfeit, model.EventGameForfeit, model.ForfeitNotice{
		Message: "Opponent has forfeited.",
		By:      by,
	})
}

// resolve stops the room's countdown, notifies the room and evicts every
// occupant. The notice and eviction are queued after the countdown has
// exited and before the id can be reused.
func (s *RoomService) resolve(ctx context.Context, roomID string, outcome model.Outcome, msgType string, payload interface{}) error {
	occupants, err := s.store.Resolve(ctx, roomID, func([]model.Occupant) {
		s.broadcast(roomID, msgType, payload)
		if s.broadcaster != nil {
			s.broadcaster.EvictRoom(roomID)
		}
	})
	if err != nil {
		return err
	}

	log.Printf("Room %s resolved (%s), evicted %d occupants", roomID, outcome, len(occupants))
	return nil
}

// Disconnect releases every slot held by a lost connection
func (s *RoomService) Disconnect(ctx context.Context, connID string) {
	for _, res := range s.store.Disconnect(ctx, connID) {
		log.Printf("Player %s disconnected from room %s (occupancy %d)", res.Username, res.RoomID, res.Occupancy)
		if res.TimerStopped {
			log.Printf("Room %s timer paused", res.RoomID)
		}
	}
}

// GetRoom returns a snapshot of a room
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*model.RoomState, error) {
	return s.store.Get(ctx, roomID)
}

// Stats returns the number of live rooms and seated connections
func (s *RoomService) Stats() (rooms, conns int) {
	return s.store.Stats()
}

// TimerTick implements room.TimerListener
func (s *RoomService) TimerTick(roomID string, remaining int) {
	s.broadcast(roomID, model.EventTimerUpdate, remaining)
}

// TimerEnded implements room.TimerListener
func (s *RoomService) TimerEnded(roomID string) {
	s.broadcast(roomID, model.EventTimerEnded, "Time's up!")
	log.Printf("Room %s timer ended", roomID)
}
