package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration. Everything comes from the
// environment so main stays lean; secrets are never persisted in the store.
type Server struct {
	Addr string

	// Admin credential pair. Password may be supplied pre-hashed (bcrypt)
	// via ADMIN_PASSWORD_HASH; the plaintext variant exists for development.
	AdminEmail        string
	AdminName         string
	AdminPassword     string
	AdminPasswordHash string

	JWTSigningKey string
	TokenTTL      time.Duration

	// DatabaseURL selects the Postgres-backed stores; empty keeps the
	// in-memory stores.
	DatabaseURL string

	Redis RedisConfig

	// MediaDir is where uploaded volunteer photos land; served under /media/.
	MediaDir string

	CORSAllowedOrigins []string
}

// RedisConfig holds connection settings for the token revocation list.
// An empty URL disables Redis and the in-memory list is used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:              getEnv("AAKSEVA_ADDR", ":8080"),
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@aakseva.org"),
		AdminName:         getEnv("ADMIN_NAME", "Admin"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		// Default exists for development only - override in production.
		JWTSigningKey:      getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:           getDuration("TOKEN_TTL", 24*time.Hour),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MediaDir:           getEnv("MEDIA_DIR", "./media"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
