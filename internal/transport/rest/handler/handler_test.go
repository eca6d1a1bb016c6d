package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nodewars/internal/model"
	"nodewars/internal/room"
	"nodewars/internal/service"
	"nodewars/internal/transport/rest/middleware"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRooms struct {
	rooms map[string]*model.RoomState
	err   error
}

func (f *fakeRooms) GetRoom(ctx context.Context, roomID string) (*model.RoomState, error) {
	if f.err != nil {
		return nil, f.err
	}
	state, ok := f.rooms[roomID]
	if !ok {
		return nil, room.ErrRoomNotFound
	}
	return state, nil
}

func (f *fakeRooms) Stats() (rooms, conns int) {
	return len(f.rooms), 2
}

type fakeSockets struct{}

func (fakeSockets) Stats() (conns, rooms int) { return 3, 1 }

func TestRoomHandler_Get(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]*model.RoomState{
		"r1": {ID: "r1", Slug: "two-sum", Phase: model.RoomActive, RemainingSeconds: 895, TimerRunning: true},
	}}

	tests := []struct {
		name       string
		roomID     string
		reader     *fakeRooms
		wantStatus int
	}{
		{name: "found", roomID: "r1", reader: rooms, wantStatus: http.StatusOK},
		{name: "missing", roomID: "r9", reader: rooms, wantStatus: http.StatusNotFound},
		{name: "store failure", roomID: "r1", reader: &fakeRooms{err: errors.New("boom")}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRoomHandler(tt.reader, nil)
			req := httptest.NewRequest(http.MethodGet, "/v1/rooms/"+tt.roomID, nil)
			req = mux.SetURLVars(req, map[string]string{"roomId": tt.roomID})
			rec := httptest.NewRecorder()

			h.Get(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				var state model.RoomState
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
				assert.Equal(t, "two-sum", state.Slug)
				assert.Equal(t, 895, state.RemainingSeconds)
				assert.Equal(t, model.RoomActive, state.Phase)
			}
		})
	}
}

func TestRoomHandler_Stats(t *testing.T) {
	h := NewRoomHandler(&fakeRooms{rooms: map[string]*model.RoomState{"r1": {}}}, fakeSockets{})
	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rooms":1,"connections":2,"sockets":3}`, rec.Body.String())
}

type fakeVerifier struct {
	key string
	err error
}

func (f fakeVerifier) Verify(sig string) (string, error) {
	return f.key, f.err
}

func TestMediaHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		verifier   fakeVerifier
		key        string
		wantStatus int
		wantTarget string
	}{
		{
			name:       "valid signature",
			verifier:   fakeVerifier{key: "avatars/alice.png"},
			key:        "avatars/alice.png",
			wantStatus: http.StatusFound,
			wantTarget: "https://cdn.test/avatars/alice.png",
		},
		{
			name:       "signature for another key",
			verifier:   fakeVerifier{key: "avatars/bob.png"},
			key:        "avatars/alice.png",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "invalid signature",
			verifier:   fakeVerifier{err: service.ErrInvalidToken},
			key:        "avatars/alice.png",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMediaHandler(tt.verifier, "https://cdn.test/")
			req := httptest.NewRequest(http.MethodGet, "/v1/media/"+tt.key+"?sig=x", nil)
			req = mux.SetURLVars(req, map[string]string{"key": tt.key})
			rec := httptest.NewRecorder()

			h.Get(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantTarget != "" {
				assert.Equal(t, tt.wantTarget, rec.Header().Get("Location"))
			}
		})
	}
}

type fakeProfiles struct {
	err error
}

func (f fakeProfiles) Lookup(ctx context.Context, username string) (*model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Profile{Username: username, Elo: "1200"}, nil
}

func TestProfileHandler_Me(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		profiles   fakeProfiles
		wantStatus int
	}{
		{name: "authenticated", username: "alice", wantStatus: http.StatusOK},
		{name: "no identity", wantStatus: http.StatusUnauthorized},
		{name: "lookup failure", username: "alice", profiles: fakeProfiles{err: errors.New("boom")}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewProfileHandler(tt.profiles)
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tt.username != "" {
				req = req.WithContext(context.WithValue(req.Context(), middleware.UsernameKey, tt.username))
			}
			rec := httptest.NewRecorder()

			h.Me(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"username":"alice","pfp":"","elo":"1200"}`, rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_IssueToken(t *testing.T) {
	authSvc := service.NewAuthService("handler-secret")
	h := NewAuthHandler(authSvc)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid", body: `{"username":"alice"}`, wantStatus: http.StatusOK},
		{name: "missing username", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "malformed", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			h.IssueToken(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp model.TokenResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			claims, err := authSvc.ValidateToken(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, "alice", claims.Username)
		})
	}
}

func TestRoomHandler_GetHidesConnectionIDs(t *testing.T) {
	rooms := &fakeRooms{rooms: map[string]*model.RoomState{
		"r1": {ID: "r1", Phase: model.RoomFilling, Occupants: []model.Occupant{
			{Username: "alice", ConnID: "conn-secret-1", Connected: true},
		}},
	}}
	h := NewRoomHandler(rooms, nil)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/v1/rooms/r1", nil), map[string]string{"roomId": "r1"})
	rec := httptest.NewRecorder()

	h.Get(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "conn-secret-1")
	assert.NotContains(t, rec.Body.String(), "connId")
}
