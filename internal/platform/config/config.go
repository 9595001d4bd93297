package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DOM-Digital-Online-Media/spreadspace-cancel/contexts/cancellation/domain/services"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	BaseURL     string

	PostgresDSN string
	SQLitePath  string
	ArtifactDir string

	SettingsPath string

	RedisAddr     string
	RedisPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	FloodThreshold int
	FloodWindow    time.Duration

	ArtifactRetention time.Duration
	PurgeInterval     time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "spreadspace-cancel"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	baseURL := strings.TrimRight(os.Getenv("BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "cancel.db"
	}

	artifactDir := os.Getenv("ARTIFACT_DIR")
	if artifactDir == "" {
		artifactDir = "artifacts"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		BaseURL:     baseURL,

		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		SQLitePath:  sqlitePath,
		ArtifactDir: artifactDir,

		SettingsPath: os.Getenv("SETTINGS_PATH"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envInt("SMTP_PORT", 25),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		FloodThreshold: envInt("FLOOD_THRESHOLD", 5),
		FloodWindow:    envDuration("FLOOD_WINDOW", 24*time.Hour),

		ArtifactRetention: envDuration("ARTIFACT_RETENTION", 30*24*time.Hour),
		PurgeInterval:     envDuration("PURGE_INTERVAL", time.Hour),
	}, nil
}

// LoadClientSettings reads the per-client mail settings file. An empty path
// yields empty settings, which makes every submission fail with a
// configuration error rather than silently dropping mail.
func LoadClientSettings(path string) (services.ClientSettings, error) {
	if path == "" {
		return services.ClientSettings{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return services.ClientSettings{}, fmt.Errorf("read settings file: %w", err)
	}

	var file struct {
		Defaults map[string]string            `json:"defaults"`
		Clients  map[string]map[string]string `json:"clients"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return services.ClientSettings{}, fmt.Errorf("parse settings file: %w", err)
	}

	return services.ClientSettings{
		Defaults: file.Defaults,
		Clients:  file.Clients,
	}, nil
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
