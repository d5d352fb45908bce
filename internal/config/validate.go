package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// problems collects validation failures so they can be reported together.
type problems []string

func (p *problems) require(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Sprintf(format, args...))
	}
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return errors.New("validation failed:\n  - " + strings.Join(p, "\n  - "))
}

// Validate reports every setting that is out of range.
func (c *Config) Validate() error {
	var p problems

	p.require(c.Server.Port > 0 && c.Server.Port <= 65535, "SERVER_PORT (%d) must be 1-65535", c.Server.Port)
	p.require(c.Server.ReadTimeout >= 0, "SERVER_READ_TIMEOUT must be non-negative")
	p.require(c.Server.ShutdownTimeout > 0, "SERVER_SHUTDOWN_TIMEOUT must be positive")

	u := c.Upload
	p.require(u.MaxFileSize > 0, "UPLOAD_MAX_FILE_SIZE must be positive")
	p.require(u.MaxConcurrent > 0, "UPLOAD_MAX_CONCURRENT must be positive")
	p.require(u.MaxWaitTime > 0, "UPLOAD_MAX_WAIT_TIME must be positive")
	p.require(u.Timeout > 0, "UPLOAD_TIMEOUT must be positive")
	p.require(u.ResultRetention > 0, "UPLOAD_RESULT_RETENTION must be positive")

	if c.Rate.Enabled {
		p.require(c.Rate.RequestsPerMinute > 0, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
		p.require(c.Rate.UploadLimit > 0, "RATE_LIMIT_UPLOAD must be positive when rate limiting is enabled")
	}

	for _, origin := range c.Security.AllowedOrigins {
		ok := origin == "*" || strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://")
		p.require(ok, "CORS_ALLOWED_ORIGINS entry %q must start with http:// or https://", origin)
	}

	level, format := strings.ToLower(c.Logging.Level), strings.ToLower(c.Logging.Format)
	p.require(slices.Contains(logLevels, level), "LOG_LEVEL (%q) must be one of: %s", c.Logging.Level, strings.Join(logLevels, ", "))
	p.require(slices.Contains(logFormats, format), "LOG_FORMAT (%q) must be one of: %s", c.Logging.Format, strings.Join(logFormats, ", "))

	if c.Seed.File != "" {
		_, err := os.Stat(c.Seed.File)
		p.require(err == nil, "SEED_FILE (%q) is not readable: %v", c.Seed.File, err)
	}

	return p.err()
}

// String summarizes the config for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: {Addr: %q}, Upload: {MaxFileSize: %d, MaxConcurrent: %d, Timeout: %s}, "+
		"Rate: {Enabled: %v, RequestsPerMinute: %d}, Security: {TrustedProxies: %d, CSP: %v, CORSOrigins: %d}, "+
		"Seed: {File: %q}, Logging: {Level: %q, Format: %q}}",
		c.Server.Addr(),
		c.Upload.MaxFileSize, c.Upload.MaxConcurrent, c.Upload.Timeout,
		c.Rate.Enabled, c.Rate.RequestsPerMinute,
		len(c.Security.TrustedProxies), c.Security.EnableCSP, len(c.Security.AllowedOrigins),
		c.Seed.File,
		c.Logging.Level, c.Logging.Format)
}
