package sessions

import (
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
)

// Settings tunes the session registry. Zero values take the defaults.
type Settings struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	IDPolicy      photos.IDPolicy
	DefaultFooter string
	StreamBuffer  int
	KeepAlive     time.Duration
	MaxUploadSize int64
}

func DefaultSettings() Settings {
	return Settings{
		IdleTimeout:   2 * time.Hour,
		SweepInterval: time.Minute,
		StreamBuffer:  64,
		KeepAlive:     15 * time.Second,
		MaxUploadSize: 100 << 20,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = d.IdleTimeout
	}
	if s.SweepInterval <= 0 {
		s.SweepInterval = d.SweepInterval
	}
	if s.StreamBuffer <= 0 {
		s.StreamBuffer = d.StreamBuffer
	}
	if s.KeepAlive <= 0 {
		s.KeepAlive = d.KeepAlive
	}
	if s.MaxUploadSize <= 0 {
		s.MaxUploadSize = d.MaxUploadSize
	}
	return s
}
