package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// cliWithPath returns a CLI struct pointing at the given config file.
func cliWithPath(path string) *CLI {
	return &CLI{Config: path}
}

// writeConfig writes data to config.toml in a fresh temp dir and returns its path.
func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
[valence]
scheme = "https"
host = "lms.example.edu"

[auth]
mode = "bearer"
token = "tok-123"

[client]
timeout_seconds = 30
idle_connections = 4

[server]
host = "0.0.0.0"
port = 9000

[log]
level = "debug"
format = "json"

[output]
format = "yaml"
`)

	cfg, err := Load(cliWithPath(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Valence.Host != "lms.example.edu" {
		t.Errorf("Valence.Host = %q, want %q", cfg.Valence.Host, "lms.example.edu")
	}
	if cfg.Auth.Mode != "bearer" {
		t.Errorf("Auth.Mode = %q, want %q", cfg.Auth.Mode, "bearer")
	}
	if cfg.Auth.Token != "tok-123" {
		t.Errorf("Auth.Token = %q, want %q", cfg.Auth.Token, "tok-123")
	}
	if cfg.Client.TimeoutSeconds != 30 {
		t.Errorf("Client.TimeoutSeconds = %d, want %d", cfg.Client.TimeoutSeconds, 30)
	}
	if cfg.Client.IdleConnections != 4 {
		t.Errorf("Client.IdleConnections = %d, want %d", cfg.Client.IdleConnections, 4)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9000)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Output.Format = %q, want %q", cfg.Output.Format, "yaml")
	}
	if got, want := cfg.Valence.BaseURL(), "https://lms.example.edu"; got != want {
		t.Errorf("BaseURL() = %q, want %q", got, want)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
[valence]
host = "lms.example.edu"
`)

	cfg, err := Load(cliWithPath(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Valence.Scheme != "https" {
		t.Errorf("default Valence.Scheme = %q, want %q", cfg.Valence.Scheme, "https")
	}
	if cfg.Auth.Mode != "anonymous" {
		t.Errorf("default Auth.Mode = %q, want %q", cfg.Auth.Mode, "anonymous")
	}
	if cfg.Client.TimeoutSeconds != 60 {
		t.Errorf("default Client.TimeoutSeconds = %d, want %d", cfg.Client.TimeoutSeconds, 60)
	}
	if cfg.Client.IdleConnections != 16 {
		t.Errorf("default Client.IdleConnections = %d, want %d", cfg.Client.IdleConnections, 16)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("default Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Log.MaxSizeMB != 0 {
		t.Errorf("default Log.MaxSizeMB = %d, want 0 without log.file", cfg.Log.MaxSizeMB)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("default Output.Format = %q, want %q", cfg.Output.Format, "json")
	}
}

func TestLoad_LogFileDefaults(t *testing.T) {
	path := writeConfig(t, `
[valence]
host = "lms.example.edu"

[log]
file = "/tmp/valence.log"
`)

	cfg, err := Load(cliWithPath(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.MaxSizeMB != 50 {
		t.Errorf("Log.MaxSizeMB = %d, want %d", cfg.Log.MaxSizeMB, 50)
	}
	if cfg.Log.MaxBackups != 3 {
		t.Errorf("Log.MaxBackups = %d, want %d", cfg.Log.MaxBackups, 3)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"missing host", `[valence]
scheme = "https"`, "valence.host"},
		{"host with path", `[valence]
host = "lms.example.edu/d2l"`, "bare host"},
		{"bad scheme", `[valence]
host = "lms.example.edu"
scheme = "ftp"`, "valence.scheme"},
		{"bearer without token", `[valence]
host = "lms.example.edu"
[auth]
mode = "bearer"`, "auth.token"},
		{"placeholder token", `[valence]
host = "lms.example.edu"
[auth]
mode = "bearer"
token = "YOUR_TOKEN_HERE"`, "placeholder"},
		{"unknown auth mode", `[valence]
host = "lms.example.edu"
[auth]
mode = "idkey"`, "auth.mode"},
		{"negative port", `[valence]
host = "lms.example.edu"
[server]
port = -1`, "server.port"},
		{"negative timeout", `[valence]
host = "lms.example.edu"
[client]
timeout_seconds = -5`, "client.timeout_seconds"},
		{"negative idle", `[valence]
host = "lms.example.edu"
[client]
idle_connections = -1`, "client.idle_connections"},
		{"bad log level", `[valence]
host = "lms.example.edu"
[log]
level = "verbose"`, "log.level"},
		{"bad output", `[valence]
host = "lms.example.edu"
[output]
format = "xml"`, "output.format"},
		{"rate limit zero", `[valence]
host = "lms.example.edu"
[server.rate_limit]
enabled = true
requests_per_second = 0`, "requests_per_second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(cliWithPath(writeConfig(t, tt.data)))
			if err == nil {
				t.Fatalf("Load() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(cliWithPath("/nonexistent/config.toml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}

func TestLoad_NoFileWithHostFlag(t *testing.T) {
	cli := &CLI{Host: "lms.example.edu", Config: ""}
	orig := configSearchPaths
	configSearchPaths = []string{"/nonexistent/a.toml"}
	t.Cleanup(func() { configSearchPaths = orig })

	cfg, err := Load(cli)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Valence.Host != "lms.example.edu" {
		t.Errorf("Valence.Host = %q, want %q", cfg.Valence.Host, "lms.example.edu")
	}
}

func TestLoad_NoFileNoHost(t *testing.T) {
	orig := configSearchPaths
	configSearchPaths = []string{"/nonexistent/a.toml"}
	t.Cleanup(func() { configSearchPaths = orig })

	if _, err := Load(&CLI{}); err == nil {
		t.Fatal("Load() expected error without config file or --host, got nil")
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	path := writeConfig(t, `
[valence]
host = "lms.example.edu"
scheme = "https"

[log]
level = "info"
`)

	cli := &CLI{
		Config:   path,
		Host:     "127.0.0.1:8443",
		Scheme:   "http",
		Token:    "cli-token",
		LogLevel: "debug",
		Output:   "yaml",
	}

	cfg, err := Load(cli)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Valence.Host != "127.0.0.1:8443" {
		t.Errorf("Valence.Host = %q, want %q (CLI override)", cfg.Valence.Host, "127.0.0.1:8443")
	}
	if cfg.Valence.Scheme != "http" {
		t.Errorf("Valence.Scheme = %q, want %q (CLI override)", cfg.Valence.Scheme, "http")
	}
	if cfg.Auth.Mode != "bearer" || cfg.Auth.Token != "cli-token" {
		t.Errorf("Auth = %+v, want bearer with cli-token (CLI override)", cfg.Auth)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q (CLI override)", cfg.Log.Level, "debug")
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Output.Format = %q, want %q (CLI override)", cfg.Output.Format, "yaml")
	}
}

func TestLoad_RateLimitConfig_Enabled(t *testing.T) {
	path := writeConfig(t, `
[valence]
host = "lms.example.edu"

[server.rate_limit]
enabled = true
requests_per_second = 50.0
`)

	cfg, err := Load(cliWithPath(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Server.RateLimit.Enabled {
		t.Error("expected RateLimit.Enabled = true")
	}
	if cfg.Server.RateLimit.RequestsPerSecond != 50.0 {
		t.Errorf("RateLimit.RequestsPerSecond = %v, want 50.0", cfg.Server.RateLimit.RequestsPerSecond)
	}
}

func TestWarnPermissions_Loose(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on Windows")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("# test"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{filePath: path}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg.WarnPermissions(logger)

	if !strings.Contains(buf.String(), "readable by group/others") {
		t.Errorf("expected permission warning, got: %q", buf.String())
	}
}

func TestWarnPermissions_Strict(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits not meaningful on Windows")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("# test"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{filePath: path}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg.WarnPermissions(logger)

	if buf.Len() != 0 {
		t.Errorf("expected no warning for 0600 file, got: %q", buf.String())
	}
}

func TestWarnPermissions_PlainHTTPCredentials(t *testing.T) {
	path := writeConfig(t, "# test")
	cfg := &Config{
		filePath: path,
		Valence:  ValenceConfig{Scheme: "http", Host: "lms.local"},
		Auth:     AuthConfig{Mode: "bearer", Token: "t"},
	}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg.WarnPermissions(logger)

	if !strings.Contains(buf.String(), "plain http") {
		t.Errorf("expected plain http warning, got: %q", buf.String())
	}
}

func TestFindConfigInPaths_Priority(t *testing.T) {
	path1 := writeConfig(t, "[valence]\nhost = \"a\"\n")
	path2 := writeConfig(t, "[valence]\nhost = \"b\"\n")

	if got := findConfigInPaths([]string{"/nonexistent/x.toml", path1, path2}); got != path1 {
		t.Errorf("findConfigInPaths() = %q, want first match %q", got, path1)
	}
	if got := findConfigInPaths([]string{"/nonexistent/a.toml"}); got != "" {
		t.Errorf("findConfigInPaths() = %q, want empty", got)
	}
}

func TestLoad_MetricsPathConflictsWithRoute(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"d2l exact", "/d2l"},
		{"d2l sub", "/d2l/api/metrics"},
		{"healthz", "/healthz"},
		{"proxy/status", "/proxy/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, `
[valence]
host = "lms.example.edu"

[metrics]
enabled = true
path = "`+tt.path+`"
`)
			_, err := Load(cliWithPath(path))
			if err == nil {
				t.Fatalf("Load() expected error for metrics.path=%q conflicting with route, got nil", tt.path)
			}
			if !strings.Contains(err.Error(), "conflicts") {
				t.Errorf("error = %q, want mention of conflict", err)
			}
		})
	}
}

func TestLoad_MetricsDisabledSkipsPathValidation(t *testing.T) {
	path := writeConfig(t, `
[valence]
host = "lms.example.edu"

[metrics]
enabled = false
path = "bad-no-slash"
`)
	if _, err := Load(cliWithPath(path)); err != nil {
		t.Fatalf("Load() error = %v; disabled metrics should skip path validation", err)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	sc := &ServerConfig{Host: "127.0.0.1", Port: 3000}
	want := "127.0.0.1:3000"
	if got := sc.Addr(); got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
}
