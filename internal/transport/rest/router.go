package rest

import (
	"net/http"
	"os"

	"nodewars/internal/service"
	"nodewars/internal/transport/rest/handler"
	"nodewars/internal/transport/rest/middleware"
	"nodewars/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService *service.AuthService
	RoomService *service.RoomService
	ProfileSvc  *service.ProfileService
	MediaSigner *service.MediaSigner
	MediaOrigin string
	WSHub       *ws.Hub
	DevTokens   bool
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	roomHandler := handler.NewRoomHandler(c.RoomService, c.WSHub)
	profileHandler := handler.NewProfileHandler(c.ProfileSvc)
	mediaHandler := handler.NewMediaHandler(c.MediaSigner, c.MediaOrigin)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, ws.NewRouter(c.RoomService))

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	if c.DevTokens {
		v1.HandleFunc("/auth/token", authHandler.IssueToken).Methods("POST", "OPTIONS")
	}
	v1.HandleFunc("/media/{key:.+}", mediaHandler.Get).Methods("GET")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws", wsHandler.ServeWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Player routes (require player auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequirePlayer)

	playerRoutes.HandleFunc("/rooms", roomHandler.Stats).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/rooms/{roomId}", roomHandler.Get).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/me", profileHandler.Me).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
