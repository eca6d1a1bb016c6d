package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"nodewars/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequirePlayer(t *testing.T) {
	authSvc := service.NewAuthService("mw-secret")
	tok, err := authSvc.IssueToken("alice")
	require.NoError(t, err)

	var seen string
	h := NewAuthMiddleware(authSvc).RequirePlayer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUsername(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantUser   string
	}{
		{name: "bearer header", header: "Bearer " + tok.Token, wantStatus: http.StatusNoContent, wantUser: "alice"},
		{name: "query token", query: "?token=" + tok.Token, wantStatus: http.StatusNoContent, wantUser: "alice"},
		{name: "missing", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + tok.Token, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/v1/rooms"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}

func TestGetUsername_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", GetUsername(req.Context()))
}
