package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/wadjakorntonsri/wedding-invite/pkg/core/domain"
)

const (
	BackendKV   = "kv"
	BackendSQL  = "sql"
	BackendFile = "file"
	BackendLogs = "logs"

	// DefaultAdminPassword is a known weak default. Override ADMIN_PASSWORD in any real deployment.
	DefaultAdminPassword = "22022026"
)

type Config struct {
	Port           string `validate:"required,numeric"`
	AppEnv         string
	DeploymentMode string `validate:"oneof=hosted local"`
	StoreBackend   string `validate:"oneof=kv sql file logs"`
	KVURL          string `validate:"required_if=StoreBackend kv"`
	KVKey          string `validate:"required"`
	DatabaseURL    string `validate:"required_if=StoreBackend sql"`
	VisitorsFile   string `validate:"required_if=StoreBackend file"`
	AdminPassword  string `validate:"required"`
	BaseURL        string `validate:"required,url"`
	LogLevel       string `validate:"oneof=debug info warn error"`
	LogFile        string
}

// Load reads configuration for the given deployment mode ("hosted" or "local").
// DEPLOYMENT_MODE overrides mode when set.
func Load(mode string) (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	mode = getEnv("DEPLOYMENT_MODE", mode)
	defaultPort := "8080"
	if mode == string(domain.ModeLocal) {
		defaultPort = "3001"
	}

	cfg := &Config{
		Port:           getEnv("PORT", defaultPort),
		AppEnv:         getEnv("APP_ENV", "local"),
		DeploymentMode: mode,
		StoreBackend:   getEnv("STORE_BACKEND", ""),
		KVURL:          getEnv("KV_URL", getEnv("REDIS_URL", "")),
		KVKey:          getEnv("KV_KEY", "wedding_visitors"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		VisitorsFile:   getEnv("VISITORS_FILE", "visitors.json"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", DefaultAdminPassword),
		BaseURL:        getEnv("BASE_URL", "http://localhost:5173"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = cfg.resolveBackend()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveBackend picks a backend from which credentials are present.
// It runs once at load so the choice never changes per request.
func (c *Config) resolveBackend() string {
	switch {
	case c.KVURL != "":
		return BackendKV
	case c.DatabaseURL != "":
		return BackendSQL
	case c.DeploymentMode == string(domain.ModeLocal):
		return BackendFile
	default:
		return BackendLogs
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
