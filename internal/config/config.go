// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Profile store backends selectable through PROFILE_STORE.
const (
	ProfileStoreFirestore = "firestore"
	ProfileStorePostgres  = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode            string        `mapstructure:"GIN_MODE"`
	ServerHost         string        `mapstructure:"SERVER_HOST"`
	ServerPort         string        `mapstructure:"SERVER_PORT"`
	ServerTimeout      time.Duration `mapstructure:"-"` // SERVER_TIMEOUT_SECONDS
	CORSAllowedOrigins []string      `mapstructure:"-"` // CORS_ALLOWED_ORIGINS

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string        `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string        `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseWebAPIKey             string        `mapstructure:"FIREBASE_WEB_API_KEY"`
	IdentityRequestTimeout        time.Duration `mapstructure:"-"` // IDENTITY_REQUEST_TIMEOUT_SECONDS

	// Profile Store Configuration
	ProfileStore      string `mapstructure:"PROFILE_STORE"`
	UsersCollection   string `mapstructure:"USERS_COLLECTION"`
	OrphansCollection string `mapstructure:"ORPHANS_COLLECTION"`

	// Database Configuration (PROFILE_STORE=postgres)
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"-"` // DB_CONN_MAX_LIFETIME_MINUTES

	// Submission lock and screen sessions. Empty REDIS_URL keeps the lock process-local.
	RedisURL      string        `mapstructure:"REDIS_URL"`
	SubmitLockTTL time.Duration `mapstructure:"-"` // SUBMIT_LOCK_TTL_SECONDS
	SessionTTL    time.Duration `mapstructure:"-"` // SESSION_TTL_MINUTES

	// Cron Jobs
	SessionSweepSchedule string `mapstructure:"SESSION_SWEEP_SCHEDULE"`
	ReconcileJobSchedule string `mapstructure:"RECONCILE_JOB_SCHEDULE"`
	ReconcileBatchSize   int    `mapstructure:"RECONCILE_BATCH_SIZE"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Duration and list fields are read as raw values; see the "-" tags above.
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.IdentityRequestTimeout = time.Duration(v.GetInt("IDENTITY_REQUEST_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.SubmitLockTTL = time.Duration(v.GetInt("SUBMIT_LOCK_TTL_SECONDS")) * time.Second
	cfg.SessionTTL = time.Duration(v.GetInt("SESSION_TTL_MINUTES")) * time.Minute

	// Env vars arrive as one comma separated string.
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.ProfileStore = strings.ToLower(strings.TrimSpace(cfg.ProfileStore))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")
	v.SetDefault("FIREBASE_PROJECT_ID", "") // Optional, inferred from credentials
	v.SetDefault("FIREBASE_WEB_API_KEY", "")
	v.SetDefault("IDENTITY_REQUEST_TIMEOUT_SECONDS", 20)

	v.SetDefault("PROFILE_STORE", ProfileStoreFirestore)
	v.SetDefault("USERS_COLLECTION", "users")
	v.SetDefault("ORPHANS_COLLECTION", "orphaned_accounts")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "cookcam_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SUBMIT_LOCK_TTL_SECONDS", 120)
	v.SetDefault("SESSION_TTL_MINUTES", 30)

	v.SetDefault("SESSION_SWEEP_SCHEDULE", "@every 1m")
	v.SetDefault("RECONCILE_JOB_SCHEDULE", "@every 5m")
	v.SetDefault("RECONCILE_BATCH_SIZE", 50)
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.FirebaseServiceAccountKeyPath) == "" {
		return fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required for Firebase Admin SDK initialization")
	}
	if _, err := os.Stat(c.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
		return fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", c.FirebaseServiceAccountKeyPath)
	}
	if strings.TrimSpace(c.FirebaseWebAPIKey) == "" {
		return fmt.Errorf("FATAL: FIREBASE_WEB_API_KEY is not set. It is required for email/password sign-in")
	}
	switch c.ProfileStore {
	case ProfileStoreFirestore, ProfileStorePostgres:
	default:
		return fmt.Errorf("FATAL: PROFILE_STORE must be %q or %q, got %q", ProfileStoreFirestore, ProfileStorePostgres, c.ProfileStore)
	}
	if c.SubmitLockTTL <= 0 {
		return fmt.Errorf("FATAL: SUBMIT_LOCK_TTL_SECONDS must be positive")
	}
	if floor := c.MinSubmitLockTTL(); c.SubmitLockTTL < floor {
		return fmt.Errorf("FATAL: SUBMIT_LOCK_TTL_SECONDS (%s) must be at least %s so the lock outlives a submission (3 x IDENTITY_REQUEST_TIMEOUT_SECONDS + %s)",
			c.SubmitLockTTL, floor, submitLockMargin)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("FATAL: SESSION_TTL_MINUTES must be positive")
	}
	return nil
}

// A failing submission makes up to three identity calls plus two profile writes bounded
// by the coordinator's write timeout.
const submitLockMargin = 30 * time.Second

// MinSubmitLockTTL is the shortest lock TTL that still covers the slowest submission.
func (c *Config) MinSubmitLockTTL() time.Duration {
	return 3*c.IdentityRequestTimeout + submitLockMargin
}

// DSN builds the GORM postgres DSN from the individual DB_* settings.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
