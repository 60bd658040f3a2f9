package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevSigningKey signs tokens outside production when JWT_SIGNING_KEY is unset.
const DevSigningKey = "dev-signing-secret-change"

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env      string
	HTTPPort string

	SheetBackend       string
	SpreadsheetID      string
	ServiceAccountMail string
	PrivateKey         string

	RedisAddr        string
	QueueBackend     string
	RateLimitBackend string
	RateLimitPerMin  int

	JWTIssuer     string
	JWTSigningKey string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	TeacherEmail        string
	TeacherPasswordHash string
	SchoolTimezone      string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	AllowedOrigins []string
}

// Load reads an optional .env file and returns application config populated
// from environment variables with sensible defaults. Variables already set in
// the environment win over the file.
func Load() App {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: reading .env: %v", err)
	}
	env := getEnv("APP_ENV", "dev")
	signingKey := DevSigningKey
	if isProduction(env) {
		signingKey = ""
	}
	return App{
		Env:                 env,
		HTTPPort:            getEnv("HTTP_PORT", "8081"),
		SheetBackend:        getEnv("SHEET_BACKEND", "google"),
		SpreadsheetID:       getEnv("SPREADSHEET_ID", ""),
		ServiceAccountMail:  getEnv("GOOGLE_SERVICE_ACCOUNT_EMAIL", ""),
		PrivateKey:          getEnv("GOOGLE_PRIVATE_KEY", ""),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		QueueBackend:        getEnv("QUEUE_BACKEND", "redis"),
		RateLimitBackend:    getEnv("RATE_LIMIT_BACKEND", "memory"),
		RateLimitPerMin:     intEnv("RATE_LIMIT_PER_MIN", 120),
		JWTIssuer:           getEnv("JWT_ISSUER", "schoolbell"),
		JWTSigningKey:       getEnv("JWT_SIGNING_KEY", signingKey),
		AccessTTL:           durationEnv("ACCESS_TTL", 15*time.Minute),
		RefreshTTL:          durationEnv("REFRESH_TTL", 24*time.Hour),
		TeacherEmail:        getEnv("TEACHER_EMAIL", ""),
		TeacherPasswordHash: getEnv("TEACHER_PASSWORD_HASH", ""),
		SchoolTimezone:      getEnv("SCHOOL_TIMEZONE", "Asia/Jakarta"),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "attendance"),
		AllowedOrigins:      listEnv("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}
}

// Production reports whether APP_ENV names a production deployment.
func (a App) Production() bool { return isProduction(a.Env) }

func isProduction(env string) bool { return env == "production" || env == "prod" }

// Validate rejects settings the API must not start with.
func (a App) Validate() error {
	if a.JWTSigningKey == "" {
		return errors.New("JWT_SIGNING_KEY is not set")
	}
	if a.Production() && a.JWTSigningKey == DevSigningKey {
		return errors.New("JWT_SIGNING_KEY uses the development key in production")
	}
	return nil
}

// Location resolves SchoolTimezone, falling back to UTC when the zone is unknown.
func (a App) Location() *time.Location {
	loc, err := time.LoadLocation(a.SchoolTimezone)
	if err != nil {
		log.Printf("invalid SCHOOL_TIMEZONE %q: %v, using UTC", a.SchoolTimezone, err)
		return time.UTC
	}
	return loc
}

// CloudinaryEnabled reports whether photo uploads can run.
func (a App) CloudinaryEnabled() bool {
	return a.CloudinaryCloudName != "" && a.CloudinaryAPIKey != "" && a.CloudinaryAPISecret != ""
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
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}

// listEnv splits a comma separated value, dropping empty items.
func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
