package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string // ENV: production, development, etc.
	Host        string // Raw HOST env (e.g. https://api.texting-project.com)
	AllowedHost string // Hostname only for strict host check (production only)

	PostgresURI string
	RedisURI    string
	MongoURI    string // empty disables the message history log

	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL

	// Delivery window and scheduler cadence. Hours are local to each user.
	DefaultTrack    string
	DefaultTimezone string
	WindowStartHour int
	WindowEndHour   int
	TickInterval    time.Duration

	// Twilio transport. Any empty value means sends become logging no-ops.
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string

	// Admin read endpoints accept either the plaintext token or, when set,
	// an Argon2id hash of it.
	AdminToken     string
	AdminTokenHash string

	// Base64 32-byte key; when set, message-log bodies are encrypted at rest.
	EncryptionKey string

	// Optional startup import of user records (JSON array).
	BackupRawURL string
	BackupToken  string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	host := getEnv("HOST", "http://localhost:8080")

	// AllowedHost is only set in production; host check is skipped in development
	var allowedHost string
	if env == "production" {
		allowedHost = stripScheme(host)
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		if u := strings.TrimSpace(getEnv("FRONTEND_URL", "http://localhost:3000")); u != "" {
			allowedOrigins = append(allowedOrigins, u)
		}
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		Host:        host,
		AllowedHost: allowedHost,

		PostgresURI: getEnv("POSTGRES_URI", "postgres://localhost:5432/texting?sslmode=disable"),
		RedisURI:    getEnv("REDIS_URI", "redis://localhost:6379/0"),
		MongoURI:    getEnv("MONGODB_URI", getEnv("MONGO_URI", "")),

		AllowedOrigins: allowedOrigins,

		DefaultTrack:    getEnv("DEFAULT_TRACK", "Consulting"),
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "America/New_York"),
		WindowStartHour: getEnvInt("QUIET_START_HOUR", 9),
		WindowEndHour:   getEnvInt("QUIET_END_HOUR", 22),
		TickInterval:    time.Duration(getEnvInt("TICK_SECONDS", 60)) * time.Second,

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:       getEnv("TWILIO_FROM", ""),

		AdminToken:     getEnv("ADMIN_TOKEN", ""),
		AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),

		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		BackupRawURL: getEnv("BACKUP_RAW_URL", ""),
		BackupToken:  getEnv("BACKUP_TOKEN", ""),
	}
}

// TwilioConfigured reports whether all transport credentials are present.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFrom != ""
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func stripScheme(host string) string {
	h := host
	for _, prefix := range []string{"https://", "http://"} {
		h = strings.TrimPrefix(h, prefix)
	}
	if idx := strings.Index(h, "/"); idx != -1 {
		h = h[:idx]
	}
	if idx := strings.Index(h, ":"); idx != -1 {
		h = h[:idx]
	}
	return strings.TrimSpace(h)
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
