package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/fx"
	"gopkg.in/natefinch/lumberjack.v2"

	"valence-go/internal/auth"
	"valence-go/internal/client"
	"valence-go/internal/config"
	"valence-go/internal/handler"
	"valence-go/internal/metrics"
	"valence-go/internal/render"
	"valence-go/internal/valence"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI is the command tree. Global flags come from config.CLI.
type CLI struct {
	config.CLI
	Version kong.VersionFlag `help:"Print version and exit."`

	Versions    VersionsCmd    `cmd:"" help:"List supported API versions (no credentials needed)."`
	Whoami      WhoamiCmd      `cmd:"" help:"Show the calling user."`
	Enrollments EnrollmentsCmd `cmd:"" help:"List the caller's enrollments one page at a time."`
	Grades      GradesCmd      `cmd:"" help:"List the grade objects of an org unit."`
	Locker      LockerCmd      `cmd:"" help:"Work with the caller's locker."`
	Serve       ServeCmd       `cmd:"" help:"Run the local signing proxy."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("valence"),
		kong.Description("Client and signing proxy for the D2L Valence API."),
		kong.Vars{"version": fmt.Sprintf("%s (%s, %s)", version, commit, date)},
		kong.UsageOnError(),
	)

	err := kctx.Run(&cli.CLI)
	var se *client.HTTPStatusError
	if errors.As(err, &se) && len(se.Body) > 0 {
		fmt.Fprintf(os.Stderr, "%s\n", se.Body)
	}
	kctx.FatalIfErrorf(err)
}

// provide returns the constructors shared by every command.
func provide(globals *config.CLI) fx.Option {
	return fx.Options(
		fx.Provide(
			func() *config.CLI { return globals },
			func() handler.Version { return handler.Version(version) },
			config.Load,
			newLogger,
			newMetrics,
			auth.FromConfig,
			client.New,
			valence.New,
			newRenderer,
		),
		fx.Invoke(func(lc fx.Lifecycle, c *client.Client) {
			lc.Append(fx.StopHook(c.Close))
		}),
	)
}

// runOnce builds the dependency graph quietly, runs fn and tears down.
func runOnce(globals *config.CLI, fn func(context.Context, *valence.Service, *render.Renderer) error) error {
	var (
		svc *valence.Service
		out *render.Renderer
	)
	app := fx.New(provide(globals), fx.NopLogger, fx.Populate(&svc, &out))
	if err := app.Err(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	return fn(ctx, svc, out)
}

// newLogger writes to stderr, or to a rotating file when log.file is set.
// Stdout is kept for command output.
func newLogger(lc fx.Lifecycle, cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var w io.Writer = os.Stderr
	if cfg.Log.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}
		lc.Append(fx.StopHook(lj.Close))
		w = lj
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h)
}

// newMetrics returns nil when metrics are disabled; client.New and the
// proxy both accept that.
func newMetrics(cfg *config.Config) *metrics.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New()
}

func newRenderer(cfg *config.Config) (*render.Renderer, error) {
	return render.New(os.Stdout, cfg.Output.Format)
}
