package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/JaimeStill/perito-hub/pkg/middleware"
	"github.com/JaimeStill/perito-hub/pkg/openapi"
	"github.com/JaimeStill/perito-hub/pkg/pagination"
)

const EnvAPIBasePath = "API_BASE_PATH"

// reservedPrefixes are mounted by cmd/server next to the API module.
var reservedPrefixes = []string{"/docs", "/healthz", "/readyz"}

var (
	corsEnv = &middleware.CORSEnv{
		Enabled:          "API_CORS_ENABLED",
		Origins:          "API_CORS_ORIGINS",
		AllowedMethods:   "API_CORS_ALLOWED_METHODS",
		AllowedHeaders:   "API_CORS_ALLOWED_HEADERS",
		AllowCredentials: "API_CORS_ALLOW_CREDENTIALS",
		MaxAge:           "API_CORS_MAX_AGE",
	}
	openAPIEnv = &openapi.ConfigEnv{
		Title:       "API_OPENAPI_TITLE",
		Description: "API_OPENAPI_DESCRIPTION",
	}
	paginationEnv = &pagination.ConfigEnv{
		DefaultPageSize: "API_PAGINATION_DEFAULT_PAGE_SIZE",
		MaxPageSize:     "API_PAGINATION_MAX_PAGE_SIZE",
	}
)

// APIConfig configures the REST module holding sessions, reports, exports
// and processes. BasePath is a single path segment such as "/api"; a
// trailing slash is dropped.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	CORS       middleware.CORSConfig `toml:"cors"`
	Pagination pagination.Config     `toml:"pagination"`
	OpenAPI    openapi.Config        `toml:"openapi"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *APIConfig) Finalize() error {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if len(c.BasePath) > 1 {
		c.BasePath = strings.TrimSuffix(c.BasePath, "/")
	}

	if err := c.validateBasePath(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge applies non-zero values from overlay.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) validateBasePath() error {
	p := c.BasePath
	if !strings.HasPrefix(p, "/") || len(p) == 1 || strings.Count(p, "/") != 1 {
		return fmt.Errorf("base_path %q must be a single path segment like /api", p)
	}
	if slices.Contains(reservedPrefixes, p) {
		return fmt.Errorf("base_path %q collides with a server route", p)
	}
	return nil
}
