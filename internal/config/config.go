package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env       string
	LogLevel  string
	LogFormat string
	Timezone  string

	// API client.
	APIBaseURL  string
	APITimeout  time.Duration
	LoginPath   string
	CLIEmail    string
	CLIPassword string

	// Mock API server.
	HTTPPort        string
	JWTIssuer       string
	JWTSigningKey   string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	SessionBackend  string
	RedisAddr       string
	RateLimitPerMin int
	Seed            bool
}

// Load returns application config populated from .env and environment variables with sensible defaults.
func Load() App {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	return App{
		Env:       getEnv("APP_ENV", "dev"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		Timezone:  getEnv("APP_TIMEZONE", "Local"),

		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8081/api"), "/"),
		APITimeout:  durationEnv("API_TIMEOUT", 60*time.Second),
		LoginPath:   getEnv("API_LOGIN_PATH", "/Auth/login"),
		CLIEmail:    getEnv("MENTORCTL_EMAIL", ""),
		CLIPassword: getEnv("MENTORCTL_PASSWORD", ""),

		HTTPPort:        getEnv("HTTP_PORT", "8081"),
		JWTIssuer:       getEnv("JWT_ISSUER", "mentorship-api"),
		JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		AccessTTL:       durationEnv("ACCESS_TTL", 15*time.Minute),
		RefreshTTL:      durationEnv("REFRESH_TTL", 24*time.Hour),
		SessionBackend:  getEnv("SESSION_BACKEND", "memory"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
		Seed:            boolEnv("MOCKAPI_SEED", true),
	}
}

// Location resolves Timezone, falling back to the local zone when it is unknown.
func (a App) Location() *time.Location {
	if a.Timezone == "" || a.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", a.Timezone).Msg("unknown timezone, using local")
		return time.Local
	}
	return loc
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Dur("fallback", fallback).Msg("invalid duration")
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		switch strings.ToLower(val) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
		log.Warn().Str("key", key).Bool("fallback", fallback).Msg("invalid bool")
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Warn().Str("key", key).Int("fallback", fallback).Msg("invalid int")
	}
	return fallback
}
