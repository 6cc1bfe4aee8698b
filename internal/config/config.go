package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logger   LoggerConfig   `yaml:"logger"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Store    StoreConfig    `yaml:"store"`
	Auth     AuthConfig     `yaml:"auth"`
	Presence PresenceConfig `yaml:"presence"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	Env             string        `yaml:"env"`
	BasePath        string        `yaml:"base_path"`
	CORSOrigins     string        `yaml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Addr returns host:port for the non-URL form of the redis settings.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StoreConfig selects the backend for ephemeral collaboration state.
// "redis" in every deployed environment, "memory" for local runs.
type StoreConfig struct {
	Driver string `yaml:"driver"`
}

type AuthConfig struct {
	SecretKey      string `yaml:"secret_key"`
	InternalAPIKey string `yaml:"internal_api_key"`
}

type PresenceConfig struct {
	PresenceTTL     time.Duration `yaml:"presence_ttl"`
	DocumentTTL     time.Duration `yaml:"document_ttl"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	EndedSessionTTL time.Duration `yaml:"ended_session_ttl"`
	ActivityTTL     time.Duration `yaml:"activity_ttl"`
	FeedLimit       int           `yaml:"feed_limit"`
	FeedMaxEntries  int           `yaml:"feed_max_entries"`
}

type JobsConfig struct {
	ActivityTrimSchedule     string `yaml:"activity_trim_schedule"`
	MetricsCollectorSchedule string `yaml:"metrics_collector_schedule"`
}

// Default returns the configuration used when no file or env override is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8004",
			Mode:            "debug",
			Env:             "dev",
			BasePath:        "/api/collab",
			CORSOrigins:     "*",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			AutoMigrate:     true,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
			DB:   0,
		},
		Store: StoreConfig{
			Driver: "redis",
		},
		Presence: PresenceConfig{
			PresenceTTL:     30 * time.Minute,
			DocumentTTL:     24 * time.Hour,
			SessionTTL:      8 * time.Hour,
			EndedSessionTTL: 24 * time.Hour,
			ActivityTTL:     7 * 24 * time.Hour,
			FeedLimit:       50,
			FeedMaxEntries:  500,
		},
		Jobs: JobsConfig{
			ActivityTrimSchedule:     "@every 10m",
			MetricsCollectorSchedule: "@every 1m",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	// Load from yaml file if exists
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Override with environment variables
func (cfg *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = origins
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		cfg.Redis.Host = redisHost
	}
	if redisPort := os.Getenv("REDIS_PORT"); redisPort != "" {
		if p, err := strconv.Atoi(redisPort); err == nil {
			cfg.Redis.Port = p
		}
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			cfg.Redis.DB = db
		}
	}
	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
	if secretKey := os.Getenv("SECRET_KEY"); secretKey != "" {
		cfg.Auth.SecretKey = secretKey
	}
	if apiKey := os.Getenv("INTERNAL_API_KEY"); apiKey != "" {
		cfg.Auth.InternalAPIKey = apiKey
	}
	if schedule := os.Getenv("ACTIVITY_TRIM_SCHEDULE"); schedule != "" {
		cfg.Jobs.ActivityTrimSchedule = schedule
	}
}

// Validate rejects settings the service cannot run with.
func (cfg *Config) Validate() error {
	switch cfg.Store.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
	if cfg.Presence.PresenceTTL <= 0 || cfg.Presence.DocumentTTL <= 0 ||
		cfg.Presence.SessionTTL <= 0 || cfg.Presence.EndedSessionTTL <= 0 {
		return fmt.Errorf("presence TTLs must be positive")
	}
	if cfg.Presence.FeedLimit <= 0 {
		return fmt.Errorf("presence.feed_limit must be positive")
	}
	if cfg.Presence.FeedMaxEntries < cfg.Presence.FeedLimit {
		return fmt.Errorf("presence.feed_max_entries must be >= feed_limit")
	}
	return nil
}
