package config

import (
	"fmt"
	"os"
)

const (
	EnvModelPath    = "CROPWISE_MODEL_PATH"
	EnvModelBlobKey = "CROPWISE_MODEL_BLOB_KEY"
)

// ModelConfig locates the decision model artifact. Path takes precedence over
// BlobKey. With neither set the engine runs on rules alone.
type ModelConfig struct {
	Path    string `toml:"path"`
	BlobKey string `toml:"blob_key"`
}

// Source reports where the artifact is loaded from: "file", "blob", or "" when unset.
func (c *ModelConfig) Source() string {
	switch {
	case c.Path != "":
		return "file"
	case c.BlobKey != "":
		return "blob"
	default:
		return ""
	}
}

// Finalize applies environment variable overrides and validation.
func (c *ModelConfig) Finalize() error {
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ModelConfig) Merge(overlay *ModelConfig) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.BlobKey != "" {
		c.BlobKey = overlay.BlobKey
	}
}

func (c *ModelConfig) loadEnv() {
	if v := os.Getenv(EnvModelPath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(EnvModelBlobKey); v != "" {
		c.BlobKey = v
	}
}

func (c *ModelConfig) validate() error {
	if c.BlobKey != "" && c.BlobKey[0] == '/' {
		return fmt.Errorf("blob_key must be relative: %s", c.BlobKey)
	}
	return nil
}
