package handler

import (
	"context"
	"net/http"

	"nodewars/internal/model"
	"nodewars/internal/transport/rest/middleware"
)

// ProfileReader resolves the roster decoration of a player
type ProfileReader interface {
	Lookup(ctx context.Context, username string) (*model.Profile, error)
}

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	profiles ProfileReader
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles ProfileReader) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Me handles GET /v1/me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	if username == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.profiles.Lookup(r.Context(), username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
