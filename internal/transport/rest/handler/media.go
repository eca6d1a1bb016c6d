package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// MediaVerifier checks a signed media URL
type MediaVerifier interface {
	Verify(sig string) (string, error)
}

// MediaHandler redirects signed avatar URLs to the media origin
type MediaHandler struct {
	verifier MediaVerifier
	origin   string
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(verifier MediaVerifier, origin string) *MediaHandler {
	return &MediaHandler{
		verifier: verifier,
		origin:   strings.TrimRight(origin, "/"),
	}
}

// Get handles GET /v1/media/{key}
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	signed, err := h.verifier.Verify(r.URL.Query().Get("sig"))
	if err != nil || signed != key {
		writeError(w, http.StatusForbidden, "invalid signature")
		return
	}

	http.Redirect(w, r, h.origin+"/"+key, http.StatusFound)
}
