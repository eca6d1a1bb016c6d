package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// maxRoomCapacity is the duel size; rooms never seat more players
const maxRoomCapacity = 2

type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	RedisAddr string
	JWTSecret string
	DevTokens bool

	RoomDuration int
	RoomCapacity int
	TimerTick    time.Duration

	ProfileCacheTTL time.Duration
	MediaBaseURL    string
	MediaOriginURL  string
	MediaURLTTL     time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "nodewars"),
		RedisAddr: strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),
		JWTSecret: getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		DevTokens: getEnvBool("DEV_TOKENS", false),

		RoomDuration: getEnvInt("ROOM_DURATION_SECONDS", 900),
		RoomCapacity: getEnvInt("ROOM_CAPACITY", 2),
		TimerTick:    getEnvDuration("TIMER_TICK", time.Second),

		ProfileCacheTTL: getEnvDuration("PROFILE_CACHE_TTL", 10*time.Minute),
		MediaBaseURL:    getEnv("MEDIA_BASE_URL", "http://localhost:8080/v1/media"),
		MediaOriginURL:  getEnv("MEDIA_ORIGIN_URL", "http://localhost:9000/pfp"),
		MediaURLTTL:     getEnvDuration("MEDIA_URL_TTL", time.Hour),
	}
	if cfg.RoomCapacity > maxRoomCapacity {
		log.Printf("Warning: ROOM_CAPACITY %d above %d, clamping", cfg.RoomCapacity, maxRoomCapacity)
		cfg.RoomCapacity = maxRoomCapacity
	}
	if cfg.ProfileCacheTTL >= cfg.MediaURLTTL {
		log.Printf("Warning: PROFILE_CACHE_TTL %s not below MEDIA_URL_TTL %s, clamping", cfg.ProfileCacheTTL, cfg.MediaURLTTL)
		cfg.ProfileCacheTTL = cfg.MediaURLTTL / 2
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, val, defaultVal)
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, val, defaultVal)
		return defaultVal
	}
	return d
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, val, defaultVal)
		return defaultVal
	}
	return b
}
