package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings normalizes enumerated values
	"time"    // time types the pool lifetime setting
)

// Settings deployment modes. In per-user mode every AI-dependent
// operation resolves credentials from the caller's api_keys row; in
// global mode one admin-maintained mapping serves all users. The two
// modes are alternative deployment configurations, never active
// together.
const (
	SettingsModeUser   = "user"
	SettingsModeGlobal = "global"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Broker and cache endpoints are read by
// their own constructors (see redis.go and the queue packages) so that
// both degrade gracefully when absent.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	DBMaxOpenConns int           // connection pool upper bound (0 = pool defaults)
	DBMaxIdleConns int           // idle connections kept warm
	DBConnLifetime time.Duration // recycle age for pooled connections
	JWTSecret      string        // secret used to sign JWTs
	AccessTTLMin   int           // access token time-to-live in minutes
	RefreshTTLDays int           // refresh token time-to-live in days
	SettingsMode   string        // "user" or "global" credential resolution
	OwnerOpenID    string        // openId granted the admin role on login (optional)
	IdentityURL    string        // identity-provider verification endpoint (optional)
	S3Bucket       string        // object storage bucket for images and audio
	S3Region       string        // object storage region
	S3PublicBase   string        // public base URL for stored objects (optional)
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 0),
		DBMaxIdleConns: envInt("DB_MAX_IDLE_CONNS", 0),
		DBConnLifetime: envDur("DB_CONN_MAX_LIFETIME", 0),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		SettingsMode:   strings.ToLower(getenv("SETTINGS_MODE", SettingsModeUser)),
		OwnerOpenID:    os.Getenv("OWNER_OPEN_ID"),
		IdentityURL:    os.Getenv("IDENTITY_VERIFY_URL"),
		S3Bucket:       must("S3_BUCKET"),
		S3Region:       must("S3_REGION"),
		S3PublicBase:   os.Getenv("S3_PUBLIC_BASE_URL"),
	}
	if cfg.SettingsMode != SettingsModeUser && cfg.SettingsMode != SettingsModeGlobal {
		log.Fatalf("invalid SETTINGS_MODE: %q (want %q or %q)", cfg.SettingsMode, SettingsModeUser, SettingsModeGlobal)
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
