// Package cmd holds the startup plumbing shared by the command binaries:
// env plus flag parsing and a telemetry-wrapped run loop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/encounters/internal/platform/config"
	"github.com/louisbranch/encounters/internal/platform/otel"
	"github.com/louisbranch/encounters/internal/platform/timeouts"
)

// Service names reported to telemetry.
const (
	ServiceGenerate      = "encounter-generate"
	ServiceCatalogImport = "catalog-importer"
)

// RunOptions controls shared entrypoint behavior for the commands.
type RunOptions struct {
	// ShutdownTimeout bounds the final span flush; 0 uses
	// timeouts.TelemetryShutdown.
	ShutdownTimeout time.Duration
	// Quiet suppresses the start and finish log lines.
	Quiet bool
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags. Flags override environment defaults
// already loaded into the bound variables.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads env defaults into cfg and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry runs fn with tracing configured for service.
func RunWithTelemetry(ctx context.Context, service string, fn func(context.Context) error) error {
	return RunWithOptions(ctx, service, RunOptions{}, fn)
}

// RunWithOptions runs fn with tracing configured for service. Spans are
// flushed after fn returns, even when ctx is already canceled.
func RunWithOptions(ctx context.Context, service string, opts RunOptions, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	service = strings.TrimSpace(service)
	switch {
	case service == "":
		return fmt.Errorf("service name is required")
	case fn == nil:
		return fmt.Errorf("run function is required")
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("%s telemetry: %w", service, err)
	}
	flushTimeout := opts.ShutdownTimeout
	if flushTimeout <= 0 {
		flushTimeout = timeouts.TelemetryShutdown
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()

	started := time.Now()
	if !opts.Quiet {
		log.Printf("%s starting", service)
	}
	runErr := fn(ctx)
	if !opts.Quiet {
		log.Printf("%s finished in %s", service, time.Since(started).Round(time.Millisecond))
	}
	return runErr
}
