package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/cropwise/pkg/formatting"
	"github.com/JaimeStill/cropwise/pkg/middleware"
	"github.com/JaimeStill/cropwise/pkg/pagination"
)

const (
	EnvAPIBasePath      = "CROPWISE_API_BASE_PATH"
	EnvAPIMaxUploadSize = "CROPWISE_API_MAX_UPLOAD_SIZE"

	defaultMaxUploadBytes = 10 * 1024 * 1024
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CROPWISE_CORS_ENABLED",
	Origins:          "CROPWISE_CORS_ORIGINS",
	AllowedMethods:   "CROPWISE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CROPWISE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CROPWISE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CROPWISE_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CROPWISE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CROPWISE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, and pagination settings.
// MaxUploadSize bounds multipart image uploads for analyses.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return defaultMaxUploadBytes
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}
