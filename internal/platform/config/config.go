package config

import (
	"os"
	"strconv"
	"time"
)

// InsecureDefaultSecret is the well-known fallback signing secret. Running
// with it must be loudly warned about at startup, never silently accepted.
const InsecureDefaultSecret = "secret"

// Config captures process-wide configuration. It is read once at startup and
// held immutable for the process lifetime.
type Config struct {
	Addr string

	// MongoURI selects the persistent store when non-empty; otherwise the
	// in-memory store is used.
	MongoURI             string
	MongoDatabase        string
	MongoCollection      string
	MongoConnectAttempts int
	MongoConnectBackoff  time.Duration
	MongoPingTimeout     time.Duration

	JWTSecret string
	JWTTTL    time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:                 envOr("ADDR", ":5100"),
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDatabase:        envOr("MONGO_DATABASE", "userhub"),
		MongoCollection:      envOr("MONGO_COLLECTION", "users"),
		MongoConnectAttempts: envIntOr("MONGO_CONNECT_ATTEMPTS", 5),
		MongoConnectBackoff:  envDurationOr("MONGO_CONNECT_BACKOFF", 500*time.Millisecond),
		MongoPingTimeout:     envDurationOr("MONGO_PING_TIMEOUT", 5*time.Second),
		JWTSecret:            envOr("JWT_SECRET", InsecureDefaultSecret),
		JWTTTL:               envDurationOr("JWT_TTL", time.Hour),
	}
}

// UseMongo reports whether the persistent store is selected.
func (c Config) UseMongo() bool {
	return c.MongoURI != ""
}

// InsecureSecret reports whether the process is running with the well-known
// default signing secret.
func (c Config) InsecureSecret() bool {
	return c.JWTSecret == InsecureDefaultSecret
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
