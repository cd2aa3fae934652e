package storage

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

// Config locates the blob root. MaxBlobSize caps any single stored blob
// (photos, exported PDFs, previews) and takes human sizes like "100MB".
type Config struct {
	BasePath    string `toml:"base_path"`
	MaxBlobSize string `toml:"max_blob_size"`

	maxBlobSize int64
}

// Env maps environment variable names onto Config fields.
type Env struct {
	BasePath    string
	MaxBlobSize string
}

// MaxBlobSizeBytes returns the parsed blob limit, or 0 before Finalize.
func (c *Config) MaxBlobSizeBytes() int64 {
	return c.maxBlobSize
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBlobSize != "" {
		c.MaxBlobSize = overlay.MaxBlobSize
	}
}

func (c *Config) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.MaxBlobSize == "" {
		c.MaxBlobSize = "200MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.MaxBlobSize != "" {
		if v := os.Getenv(env.MaxBlobSize); v != "" {
			c.MaxBlobSize = v
		}
	}
}

func (c *Config) validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path required")
	}

	size, err := units.FromHumanSize(c.MaxBlobSize)
	if err != nil {
		return fmt.Errorf("invalid max_blob_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_blob_size must be positive")
	}
	c.maxBlobSize = size

	return nil
}
