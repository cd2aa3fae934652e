package openapi

import "os"

// Config holds the document title and description.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps environment variable names onto Config fields.
type ConfigEnv struct {
	Title       string
	Description string
}

func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "PeritoHub API"
	}
	if c.Description == "" {
		c.Description = "Case management, photographic report editing and PDF export for judicial expert witnesses."
	}
	if env != nil {
		if v := os.Getenv(env.Title); env.Title != "" && v != "" {
			c.Title = v
		}
		if v := os.Getenv(env.Description); env.Description != "" && v != "" {
			c.Description = v
		}
	}
	return nil
}

func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}
