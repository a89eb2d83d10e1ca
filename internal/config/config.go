package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Role     string // which role surface this build serves: customer | admin | driver | all
	HTTP     HTTPConfig
	Store    StoreConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Sim      SimConfig
	Database DatabaseConfig
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Address string // listen address (e.g., ":8080")
}

// StoreConfig points at the remote orders table.
type StoreConfig struct {
	URL    string // base URL of the store project (client appends /rest/v1/<table>)
	APIKey string // static key sent as apikey header and Bearer token
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret     string // HS256 signing secret for role tokens
	AdminPassword string // shared static password gating the admin/driver login
}

// RedisConfig is optional; an empty URL disables the order read cache.
type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

// SimConfig tunes the delivery location simulator.
type SimConfig struct {
	TickInterval     time.Duration
	StepFraction     float64 // fraction of the remaining vector covered per tick
	ArrivalThreshold float64 // planar distance in degrees considered "arrived"
	AutoComplete     bool    // arrival transitions the order to Delivered
}

// DatabaseConfig contains the local store stub's SQLite settings.
type DatabaseConfig struct {
	Path string
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleDriver   = "driver"
	RoleAll      = "all"
)

// Load loads configuration from the environment (and a .env file if present).
// Critical secrets must be set; use LoadWithDefaults in development.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	if cfg.Auth.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD environment variable is not set; required for production")
	}
	if cfg.Store.URL == "" {
		return nil, fmt.Errorf("STORE_URL environment variable is not set")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but fills safe development defaults for the
// secrets and points the store at a local stub.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "dev-secret-change-me"
	}
	if cfg.Auth.AdminPassword == "" {
		cfg.Auth.AdminPassword = "dev-password"
	}
	if cfg.Store.URL == "" {
		cfg.Store.URL = "http://localhost:9090"
	}
	return cfg, nil
}

func load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Role: getEnv("APP_ROLE", RoleAll),
		HTTP: HTTPConfig{
			Address: getEnv("HTTP_ADDRESS", ":8080"),
		},
		Store: StoreConfig{
			URL:    getEnv("STORE_URL", ""),
			APIKey: getEnv("STORE_API_KEY", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "storestub.db"),
		},
	}

	switch cfg.Role {
	case RoleCustomer, RoleAdmin, RoleDriver, RoleAll:
	default:
		return nil, fmt.Errorf("APP_ROLE must be one of customer, admin, driver, all; got %q", cfg.Role)
	}

	tickMillis, err := getEnvInt("SIM_TICK_MILLIS", 2000)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvInt("CACHE_TTL_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	step, err := getEnvFloat("SIM_STEP_FRACTION", 0.05)
	if err != nil {
		return nil, err
	}
	threshold, err := getEnvFloat("SIM_ARRIVAL_THRESHOLD", 0.0001)
	if err != nil {
		return nil, err
	}
	cfg.Sim = SimConfig{
		TickInterval:     time.Duration(tickMillis) * time.Millisecond,
		StepFraction:     step,
		ArrivalThreshold: threshold,
		AutoComplete:     getEnv("SIM_AUTO_COMPLETE", "false") == "true",
	}
	cfg.Redis.CacheTTL = time.Duration(cacheTTL) * time.Second

	if cfg.Sim.StepFraction <= 0 || cfg.Sim.StepFraction >= 1 {
		return nil, fmt.Errorf("SIM_STEP_FRACTION must be in (0,1); got %v", cfg.Sim.StepFraction)
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

// getEnvFloat retrieves an environment variable as a float with a default fallback.
func getEnvFloat(key string, defaultVal float64) (float64, error) {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", key, err)
		}
		return f, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Role: %s, HTTP: %s, Store: %s, Auth: *** (masked) ***}", c.Role, c.HTTP.Address, c.Store.URL)
}
