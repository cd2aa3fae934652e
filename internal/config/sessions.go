package config

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/sessions"
	"github.com/docker/go-units"
)

const (
	EnvSessionsIdleTimeout   = "SESSIONS_IDLE_TIMEOUT"
	EnvSessionsSweepInterval = "SESSIONS_SWEEP_INTERVAL"
	EnvSessionsIDPolicy      = "SESSIONS_ID_POLICY"
	EnvSessionsDefaultFooter = "SESSIONS_DEFAULT_FOOTER"
	EnvSessionsMaxUploadSize = "SESSIONS_MAX_UPLOAD_SIZE"
)

// SessionsConfig tunes the report editing sessions. IDPolicy is
// "monotonic" (the default) or "recomputed", the legacy max+1 numbering.
type SessionsConfig struct {
	IdleTimeout   string `toml:"idle_timeout"`
	SweepInterval string `toml:"sweep_interval"`
	IDPolicy      string `toml:"id_policy"`
	DefaultFooter string `toml:"default_footer"`
	StreamBuffer  int    `toml:"stream_buffer"`
	KeepAlive     string `toml:"keep_alive"`
	MaxUploadSize string `toml:"max_upload_size"`

	policy        photos.IDPolicy
	maxUploadSize int64
}

// Settings converts the finalized configuration for the session registry.
func (c *SessionsConfig) Settings() sessions.Settings {
	idle, _ := time.ParseDuration(c.IdleTimeout)
	sweep, _ := time.ParseDuration(c.SweepInterval)
	keepAlive, _ := time.ParseDuration(c.KeepAlive)
	return sessions.Settings{
		IdleTimeout:   idle,
		SweepInterval: sweep,
		IDPolicy:      c.policy,
		DefaultFooter: c.DefaultFooter,
		StreamBuffer:  c.StreamBuffer,
		KeepAlive:     keepAlive,
		MaxUploadSize: c.maxUploadSize,
	}
}

func (c *SessionsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *SessionsConfig) Merge(overlay *SessionsConfig) {
	if overlay.IdleTimeout != "" {
		c.IdleTimeout = overlay.IdleTimeout
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
	if overlay.IDPolicy != "" {
		c.IDPolicy = overlay.IDPolicy
	}
	if overlay.DefaultFooter != "" {
		c.DefaultFooter = overlay.DefaultFooter
	}
	if overlay.StreamBuffer != 0 {
		c.StreamBuffer = overlay.StreamBuffer
	}
	if overlay.KeepAlive != "" {
		c.KeepAlive = overlay.KeepAlive
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
}

func (c *SessionsConfig) loadDefaults() {
	d := sessions.DefaultSettings()
	if c.IdleTimeout == "" {
		c.IdleTimeout = d.IdleTimeout.String()
	}
	if c.SweepInterval == "" {
		c.SweepInterval = d.SweepInterval.String()
	}
	if c.IDPolicy == "" {
		// "recomputed" restores the legacy numbering.
		c.IDPolicy = photos.MonotonicIDs.String()
	}
	if c.StreamBuffer == 0 {
		c.StreamBuffer = d.StreamBuffer
	}
	if c.KeepAlive == "" {
		c.KeepAlive = d.KeepAlive.String()
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "100MB"
	}
}

func (c *SessionsConfig) loadEnv() {
	if v := os.Getenv(EnvSessionsIdleTimeout); v != "" {
		c.IdleTimeout = v
	}
	if v := os.Getenv(EnvSessionsSweepInterval); v != "" {
		c.SweepInterval = v
	}
	if v := os.Getenv(EnvSessionsIDPolicy); v != "" {
		c.IDPolicy = v
	}
	if v := os.Getenv(EnvSessionsDefaultFooter); v != "" {
		c.DefaultFooter = v
	}
	if v := os.Getenv(EnvSessionsMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *SessionsConfig) validate() error {
	for name, v := range map[string]string{
		"idle_timeout":   c.IdleTimeout,
		"sweep_interval": c.SweepInterval,
		"keep_alive":     c.KeepAlive,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.StreamBuffer < 1 {
		return fmt.Errorf("stream_buffer must be positive")
	}

	policy, err := photos.ParseIDPolicy(c.IDPolicy)
	if err != nil {
		return err
	}
	c.policy = policy

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSize = size
	return nil
}
