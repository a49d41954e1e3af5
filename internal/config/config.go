// Package config handles TOML configuration loading and validation.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// configSearchPaths lists paths checked in order when no explicit config is given.
var configSearchPaths = []string{
	"/etc/valence/config.toml",
	"configs/config.toml",
}

// CLI holds the global command-line flags parsed by Kong.
type CLI struct {
	Config   string `kong:"short='c',help='Path to TOML config file.',env='VALENCE_CONFIG'"`
	Host     string `kong:"help='Valence host, e.g. lms.example.edu (overrides config).',env='VALENCE_HOST'"`
	Scheme   string `kong:"help='URL scheme: https|http (overrides config).',env='VALENCE_SCHEME'"`
	Token    string `kong:"help='OAuth2 bearer token; selects bearer auth (overrides config).',env='VALENCE_TOKEN'"`
	LogLevel string `kong:"help='Log level: debug|info|warn|error (overrides config).',env='LOG_LEVEL'"`
	Output   string `kong:"short='o',help='Output format: json|yaml (overrides config).',env='VALENCE_OUTPUT'"`
}

// Config is the top-level application configuration.
type Config struct {
	Valence ValenceConfig `toml:"valence"`
	Auth    AuthConfig    `toml:"auth"`
	Client  ClientConfig  `toml:"client"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
	Output  OutputConfig  `toml:"output"`

	filePath string // resolved config file path (unexported)
}

// ValenceConfig identifies the LMS instance.
type ValenceConfig struct {
	Scheme string `toml:"scheme"`
	Host   string `toml:"host"`
}

// AuthConfig selects how calls are authenticated.
type AuthConfig struct {
	Mode  string `toml:"mode"` // anonymous | bearer
	Token string `toml:"token"`
}

// ClientConfig holds outbound connection settings.
type ClientConfig struct {
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	IdleConnections int    `toml:"idle_connections"`
	UserAgent       string `toml:"user_agent"`
}

// ServerConfig holds settings for the local signing proxy.
type ServerConfig struct {
	Host         string          `toml:"host"`
	Port         int             `toml:"port"` // 0 means "use default" (8080)
	BodyMaxBytes int64           `toml:"body_max_bytes"`
	RateLimit    RateLimitConfig `toml:"rate_limit"`
}

// RateLimitConfig controls per-IP request rate limiting.
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// OutputConfig controls how the CLI prints results.
type OutputConfig struct {
	Format string `toml:"format"`
}

// Load reads the TOML config file and applies CLI overrides.
// When no explicit path is given (via --config or VALENCE_CONFIG), it searches
// /etc/valence/config.toml then configs/config.toml. If nothing is found but a
// host was given on the command line, an empty file is assumed.
func Load(cli *CLI) (*Config, error) {
	path := cli.Config
	if path == "" {
		path = findConfig()
	}

	var cfg Config
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.filePath = path
	case cli.Host == "":
		return nil, fmt.Errorf("config: no config file found (searched %v) and no --host given", configSearchPaths)
	}

	cfg.applyCLI(cli)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

// applyCLI overrides config values with non-zero CLI flags.
func (c *Config) applyCLI(cli *CLI) {
	if cli.Host != "" {
		c.Valence.Host = cli.Host
	}
	if cli.Scheme != "" {
		c.Valence.Scheme = cli.Scheme
	}
	if cli.Token != "" {
		c.Auth.Mode = "bearer"
		c.Auth.Token = cli.Token
	}
	if cli.LogLevel != "" {
		c.Log.Level = cli.LogLevel
	}
	if cli.Output != "" {
		c.Output.Format = cli.Output
	}
}

func (c *Config) validate() error {
	if c.Valence.Host == "" {
		return fmt.Errorf("valence.host is required")
	}
	if strings.Contains(c.Valence.Host, "/") {
		return fmt.Errorf("valence.host must be a bare host[:port]; got %q", c.Valence.Host)
	}
	if _, port, err := net.SplitHostPort(c.Valence.Host); err == nil && port == "" {
		return fmt.Errorf("valence.host has an empty port; got %q", c.Valence.Host)
	}

	switch strings.ToLower(c.Valence.Scheme) {
	case "https", "http", "":
		// valid
	default:
		return fmt.Errorf("valence.scheme must be one of: https, http; got %q", c.Valence.Scheme)
	}

	switch strings.ToLower(c.Auth.Mode) {
	case "anonymous", "":
		// valid
	case "bearer":
		if c.Auth.Token == "" {
			return fmt.Errorf("auth.token is required when auth.mode is bearer")
		}
		if c.Auth.Token == "YOUR_TOKEN_HERE" {
			return fmt.Errorf("auth.token contains placeholder value")
		}
	default:
		return fmt.Errorf("auth.mode must be one of: anonymous, bearer; got %q", c.Auth.Mode)
	}

	// Numeric bounds.
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 0–65535; got %d", c.Server.Port)
	}
	if c.Server.BodyMaxBytes < 0 {
		return fmt.Errorf("server.body_max_bytes must be non-negative; got %d", c.Server.BodyMaxBytes)
	}
	if c.Client.TimeoutSeconds < 0 {
		return fmt.Errorf("client.timeout_seconds must be non-negative; got %d", c.Client.TimeoutSeconds)
	}
	if c.Client.IdleConnections < 0 {
		return fmt.Errorf("client.idle_connections must be non-negative; got %d", c.Client.IdleConnections)
	}
	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("server.rate_limit.requests_per_second must be > 0 when rate limiting is enabled; got %v", c.Server.RateLimit.RequestsPerSecond)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("log.max_size_mb and log.max_backups must be non-negative")
	}

	// Log fields.
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "":
		// valid
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "":
		// valid
	default:
		return fmt.Errorf("log.format must be one of: json, text; got %q", c.Log.Format)
	}

	switch strings.ToLower(c.Output.Format) {
	case "json", "yaml", "":
		// valid
	default:
		return fmt.Errorf("output.format must be one of: json, yaml; got %q", c.Output.Format)
	}

	// Metrics path validation (only when metrics are enabled).
	if c.Metrics.Enabled && c.Metrics.Path != "" {
		p := c.Metrics.Path
		if p[0] != '/' {
			return fmt.Errorf("metrics.path must start with '/'; got %q", p)
		}
		for _, reserved := range []string{"/d2l", "/healthz", "/proxy/status"} {
			if p == reserved || strings.HasPrefix(p, reserved+"/") {
				return fmt.Errorf("metrics.path %q conflicts with reserved route %q", p, reserved)
			}
		}
	}

	return nil
}

// setDefaults fills zero-valued fields with sensible defaults.
// For integer fields zero means "unset" because TOML cannot distinguish
// between an explicit 0 and an omitted key.
func (c *Config) setDefaults() {
	if c.Valence.Scheme == "" {
		c.Valence.Scheme = "https"
	}
	c.Valence.Scheme = strings.ToLower(c.Valence.Scheme)
	if c.Auth.Mode == "" {
		c.Auth.Mode = "anonymous"
	}
	c.Auth.Mode = strings.ToLower(c.Auth.Mode)
	if c.Client.TimeoutSeconds == 0 {
		c.Client.TimeoutSeconds = 60
	}
	if c.Client.IdleConnections == 0 {
		c.Client.IdleConnections = 16
	}
	if c.Client.UserAgent == "" {
		c.Client.UserAgent = "valence-go/1.0"
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.BodyMaxBytes == 0 {
		c.Server.BodyMaxBytes = 64 * 1024 * 1024 // 64 MB, uploads pass through
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.File != "" {
		if c.Log.MaxSizeMB == 0 {
			c.Log.MaxSizeMB = 50
		}
		if c.Log.MaxBackups == 0 {
			c.Log.MaxBackups = 3
		}
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Output.Format == "" {
		c.Output.Format = "json"
	}
	c.Output.Format = strings.ToLower(c.Output.Format)
}

// findConfig returns the first config path that exists, or empty string.
func findConfig() string {
	return findConfigInPaths(configSearchPaths)
}

// findConfigInPaths returns the first path that exists on disk, or empty string.
func findConfigInPaths(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Addr returns the server listen address as host:port.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// BaseURL returns scheme://host for the configured Valence instance.
func (c *ValenceConfig) BaseURL() string {
	return c.Scheme + "://" + c.Host
}

// WarnPermissions logs a warning if the config file is readable by group or others.
// The file may hold a bearer token.
func (c *Config) WarnPermissions(logger *slog.Logger) {
	if c.filePath == "" {
		return
	}
	info, err := os.Stat(c.filePath)
	if err != nil {
		return
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		logger.Warn("config file is readable by group/others; consider chmod 600",
			"path", c.filePath,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}
	if c.Valence.Scheme == "http" && c.Auth.Mode != "anonymous" {
		logger.Warn("credentials will be sent over plain http", "host", c.Valence.Host)
	}
}
