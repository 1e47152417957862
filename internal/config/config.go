package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/cropwise/pkg/cache"
	"github.com/JaimeStill/cropwise/pkg/database"
	"github.com/JaimeStill/cropwise/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCropwiseEnv             = "CROPWISE_ENV"
	EnvCropwiseShutdownTimeout = "CROPWISE_SHUTDOWN_TIMEOUT"
	EnvCropwiseVersion         = "CROPWISE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CROPWISE_DB_HOST",
	Port:            "CROPWISE_DB_PORT",
	Name:            "CROPWISE_DB_NAME",
	User:            "CROPWISE_DB_USER",
	Password:        "CROPWISE_DB_PASSWORD",
	SSLMode:         "CROPWISE_DB_SSL_MODE",
	MaxOpenConns:    "CROPWISE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CROPWISE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CROPWISE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CROPWISE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "CROPWISE_STORAGE_CONTAINER_NAME",
	ConnectionString: "CROPWISE_STORAGE_CONNECTION_STRING",
	AccountURL:       "CROPWISE_STORAGE_ACCOUNT_URL",
	MaxListSize:      "CROPWISE_STORAGE_MAX_LIST_SIZE",
}

var cacheEnv = &cache.Env{
	Address:     "CROPWISE_CACHE_ADDRESS",
	Password:    "CROPWISE_CACHE_PASSWORD",
	DB:          "CROPWISE_CACHE_DB",
	TTL:         "CROPWISE_CACHE_TTL",
	ConnTimeout: "CROPWISE_CACHE_CONN_TIMEOUT",
}

// Config is the root configuration for the cropwise service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Cache           cache.Config    `toml:"cache"`
	API             APIConfig       `toml:"api"`
	Model           ModelConfig     `toml:"model"`
	Weather         WeatherConfig   `toml:"weather"`
	Vision          VisionConfig    `toml:"vision"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the CROPWISE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCropwiseEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.API.Merge(&overlay.API)
	c.Model.Merge(&overlay.Model)
	c.Weather.Merge(&overlay.Weather)
	c.Vision.Merge(&overlay.Vision)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"cache", func() error { return c.Cache.Finalize(cacheEnv) }},
		{"api", c.API.Finalize},
		{"model", c.Model.Finalize},
		{"weather", c.Weather.Finalize},
		{"vision", c.Vision.Finalize},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCropwiseShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCropwiseVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCropwiseEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
