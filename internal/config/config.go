package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret-change-me"

type Config struct {
	Env        string
	LogLevel   string
	Port       int
	DBURL      string
	DBMaxConns int32

	JWTSecret string
	JWTTTL    time.Duration

	// optional bootstrap admin, skipped when email or password is empty
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// empty RedisAddr keeps the list cache in process memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ListCacheTTL  time.Duration

	ServiceName      string
	OTLPEndpoint     string
	TraceSampleRatio float64

	CORSAllowedOrigins []string
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	// per-user budget for /admin routes
	WriteRateLimitRPS   float64
	WriteRateLimitBurst int

	MaxBodyBytes int64
}

func Load() Config {
	// a missing .env is fine, the environment wins either way
	_ = godotenv.Load()

	cfg := Config{
		Env:        getEnv("APP_ENV", "dev"),
		LogLevel:   getEnv("LOG_LEVEL", ""),
		Port:       getEnvInt("PORT", 8080),
		DBURL:      getEnv("DATABASE_URL", buildDBURL()),
		DBMaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),

		JWTSecret: getEnv("JWT_SECRET", defaultJWTSecret),
		JWTTTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 7*24)) * time.Hour,

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		ListCacheTTL:  time.Duration(getEnvInt("LIST_CACHE_TTL_SECONDS", 15)) * time.Second,

		ServiceName:      getEnv("OTEL_SERVICE_NAME", "petmarket-api"),
		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TraceSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		AuthRateLimitRPS:   getEnvFloat("AUTH_RATE_LIMIT_RPS", 5),
		AuthRateLimitBurst: getEnvInt("AUTH_RATE_LIMIT_BURST", 10),

		WriteRateLimitRPS:   getEnvFloat("WRITE_RATE_LIMIT_RPS", 10),
		WriteRateLimitBurst: getEnvInt("WRITE_RATE_LIMIT_BURST", 30),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
	}

	if cfg.Env == "prod" && cfg.JWTSecret == defaultJWTSecret {
		slog.Error("JWT_SECRET must be set in prod")
		os.Exit(1)
	}

	return cfg
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "petmarket")
	pass := getEnv("DB_PASSWORD", "petmarket")
	name := getEnv("DB_NAME", "petmarket")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

// WithTimeout derives a deadline from parent, falling back to Background when parent is nil.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using fallback", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.ParseFloat(v, 64)
		if err != nil {
			slog.Warn("invalid float env var, using fallback", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
