package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/perito-hub/internal/exports"
	"github.com/docker/go-units"
)

const (
	EnvExportTimeout      = "EXPORT_TIMEOUT"
	EnvExportCoverPage    = "EXPORT_COVER_PAGE"
	EnvExportWorkers      = "EXPORT_WORKERS"
	EnvExportFetchTimeout = "EXPORT_FETCH_TIMEOUT"
	EnvExportMaxFetchSize = "EXPORT_MAX_FETCH_SIZE"
	EnvExportMaxImageDim  = "EXPORT_MAX_IMAGE_DIMENSION"
	EnvExportJPEGQuality  = "EXPORT_JPEG_QUALITY"
	EnvExportPreviewDPI   = "EXPORT_PREVIEW_DPI"
)

// ExportConfig tunes PDF generation. MaxFetchSize caps remote photo
// downloads and takes human sizes such as "25MB".
type ExportConfig struct {
	Timeout           string `toml:"timeout"`
	MaxImageDimension int    `toml:"max_image_dimension"`
	JPEGQuality       int    `toml:"jpeg_quality"`
	CoverPage         *bool  `toml:"cover_page"`
	PreviewDPI        int    `toml:"preview_dpi"`
	FetchTimeout      string `toml:"fetch_timeout"`
	MaxFetchSize      string `toml:"max_fetch_size"`
	Workers           int    `toml:"workers"`

	maxFetchBytes int64
}

// Settings converts the finalized configuration for the exports system.
func (c *ExportConfig) Settings() exports.Settings {
	s := exports.DefaultSettings()
	s.Timeout, _ = time.ParseDuration(c.Timeout)
	s.FetchTimeout, _ = time.ParseDuration(c.FetchTimeout)
	s.MaxImageDimension = c.MaxImageDimension
	s.JPEGQuality = c.JPEGQuality
	s.PreviewDPI = c.PreviewDPI
	s.MaxFetchBytes = c.maxFetchBytes
	s.Workers = c.Workers
	if c.CoverPage != nil {
		s.CoverPage = *c.CoverPage
	}
	return s
}

func (c *ExportConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *ExportConfig) Merge(overlay *ExportConfig) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxImageDimension != 0 {
		c.MaxImageDimension = overlay.MaxImageDimension
	}
	if overlay.JPEGQuality != 0 {
		c.JPEGQuality = overlay.JPEGQuality
	}
	if overlay.CoverPage != nil {
		c.CoverPage = overlay.CoverPage
	}
	if overlay.PreviewDPI != 0 {
		c.PreviewDPI = overlay.PreviewDPI
	}
	if overlay.FetchTimeout != "" {
		c.FetchTimeout = overlay.FetchTimeout
	}
	if overlay.MaxFetchSize != "" {
		c.MaxFetchSize = overlay.MaxFetchSize
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *ExportConfig) loadDefaults() {
	d := exports.DefaultSettings()
	if c.Timeout == "" {
		c.Timeout = d.Timeout.String()
	}
	if c.MaxImageDimension == 0 {
		c.MaxImageDimension = d.MaxImageDimension
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = d.JPEGQuality
	}
	if c.PreviewDPI == 0 {
		c.PreviewDPI = d.PreviewDPI
	}
	if c.FetchTimeout == "" {
		c.FetchTimeout = d.FetchTimeout.String()
	}
	if c.MaxFetchSize == "" {
		c.MaxFetchSize = "25MB"
	}
}

func (c *ExportConfig) loadEnv() {
	if v := os.Getenv(EnvExportTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvExportFetchTimeout); v != "" {
		c.FetchTimeout = v
	}
	if v := os.Getenv(EnvExportMaxFetchSize); v != "" {
		c.MaxFetchSize = v
	}
	if v := os.Getenv(EnvExportCoverPage); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.CoverPage = &b
		}
	}
	for name, dst := range map[string]*int{
		EnvExportWorkers:     &c.Workers,
		EnvExportMaxImageDim: &c.MaxImageDimension,
		EnvExportJPEGQuality: &c.JPEGQuality,
		EnvExportPreviewDPI:  &c.PreviewDPI,
	} {
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
}

func (c *ExportConfig) validate() error {
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout %q", c.Timeout)
	}
	if d, err := time.ParseDuration(c.FetchTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid fetch_timeout %q", c.FetchTimeout)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100")
	}
	if c.MaxImageDimension < 100 {
		return fmt.Errorf("max_image_dimension must be at least 100")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}

	size, err := units.FromHumanSize(c.MaxFetchSize)
	if err != nil {
		return fmt.Errorf("invalid max_fetch_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_fetch_size must be positive")
	}
	c.maxFetchBytes = size
	return nil
}
