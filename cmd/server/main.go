package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nodewars/internal/cache"
	"nodewars/internal/config"
	"nodewars/internal/repository"
	"nodewars/internal/room"
	"nodewars/internal/service"
	"nodewars/internal/transport/rest"
	"nodewars/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	log.Printf("Room config: duration=%ds capacity=%d tick=%s", cfg.RoomDuration, cfg.RoomCapacity, cfg.TimerTick)

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	problemRepo := repository.NewProblemRepo(db)

	// Initialize caches
	profileCache := cache.NewProfileCache(rdb, cfg.ProfileCacheTTL)

	// Initialize room store
	store := room.NewMemoryStore(room.Options{
		Capacity: cfg.RoomCapacity,
		Duration: cfg.RoomDuration,
		Tick:     cfg.TimerTick,
	})

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	signer := service.NewMediaSigner(cfg.MediaBaseURL, cfg.JWTSecret, cfg.MediaURLTTL)
	profileSvc := service.NewProfileService(userRepo, profileCache, signer)
	roomSvc := service.NewRoomService(store, problemRepo, profileSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	roomSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService: authSvc,
		RoomService: roomSvc,
		ProfileSvc:  profileSvc,
		MediaSigner: signer,
		MediaOrigin: cfg.MediaOriginURL,
		WSHub:       wsHub,
		DevTokens:   cfg.DevTokens,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  GET  /health")
		if cfg.DevTokens {
			log.Println("  POST /v1/auth/token")
		}
		log.Println("  GET  /v1/rooms")
		log.Println("  GET  /v1/rooms/{roomId}")
		log.Println("  GET  /v1/me")
		log.Println("  GET  /v1/media/{key}")
		log.Println("  WS   /v1/ws")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
