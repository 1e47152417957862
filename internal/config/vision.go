package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvVisionBaseURL = "CROPWISE_VISION_BASE_URL"
	EnvVisionTimeout = "CROPWISE_VISION_TIMEOUT"
)

// VisionConfig points at the image-classifier sidecar. An empty BaseURL
// disables image analysis; externally recorded detections still work.
type VisionConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *VisionConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *VisionConfig) Finalize() error {
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
	if v := os.Getenv(EnvVisionBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvVisionTimeout); v != "" {
		c.Timeout = v
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *VisionConfig) Merge(overlay *VisionConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}
