// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server    ServerConfig
	Upload    UploadConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Bookmarks BookmarksConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds inventory upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 32MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"33554432"`

	// MaxConcurrent is the maximum number of parallel conversions (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for a conversion slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is requests per minute for upload endpoints (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// BookmarksConfig holds the exporter filter and download settings.
type BookmarksConfig struct {
	// Exporters overrides the built-in exporter tokens (comma-separated)
	Exporters []string `env:"BOOKMARKS_EXPORTERS"`

	// Deduplicate emits one bookmark per row and token even when both
	// exporter columns match (default: false)
	Deduplicate bool `env:"BOOKMARKS_DEDUPLICATE" default:"false"`

	// RulesFile is an optional YAML file with exporter tokens and URL rules
	RulesFile string `env:"BOOKMARKS_RULES_FILE"`

	// TempDir holds generated documents until they are downloaded
	// (default: $TMPDIR/exporter-bookmarks)
	TempDir string `env:"BOOKMARKS_TEMP_DIR"`

	// DownloadTTL is how long an unclaimed document is kept (default: 15m)
	DownloadTTL time.Duration `env:"BOOKMARKS_DOWNLOAD_TTL" default:"15m"`

	// SweepInterval is how often expired documents are removed (default: 1m)
	SweepInterval time.Duration `env:"BOOKMARKS_SWEEP_INTERVAL" default:"1m"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
