package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup. Values come from the
// environment, optionally preloaded from a .env file next to the binary.
type Config struct {
	Addr       string
	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// PublicBaseURL is the externally reachable base of this service. When empty,
	// validation URLs fall back to the Host header of the incoming request.
	PublicBaseURL string

	// ScanGuardTTL bounds how long a device's scan marker lives in Redis if the
	// session is never cancelled.
	ScanGuardTTL time.Duration

	// CleanupOnFailure keeps the historical behavior of tearing the session down
	// even when the finalization transaction fails. Flipping it to false keeps
	// the token alive so the instructor can retry the cancel.
	CleanupOnFailure bool

	AllowedOrigins []string
}

func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: skipping .env: %v", err)
	}

	return Config{
		Addr:             getEnv("ADDR", ":8000"),
		SQLitePath:       getEnv("SQLITE_PATH", "./attendance.db"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		PublicBaseURL:    strings.TrimSuffix(os.Getenv("PUBLIC_BASE_URL"), "/"),
		ScanGuardTTL:     time.Duration(getEnvInt("SCAN_GUARD_TTL_MINUTES", 720)) * time.Minute,
		CleanupOnFailure: getEnvBool("CLEANUP_ON_FAILURE", true),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS",
			"http://localhost:8081,https://attendance-nitgoa.vercel.app")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: %s=%q is not a boolean, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
