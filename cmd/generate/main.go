// Package main generates a batch of labeled encounters.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	generatecmd "github.com/louisbranch/encounters/internal/cmd/generate"
	"github.com/louisbranch/encounters/internal/platform/config"
	apperrors "github.com/louisbranch/encounters/internal/platform/errors"
)

func main() {
	cfg, err := generatecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitCodef(64, "parse flags: %v", err)
	}
	log.SetPrefix("[GENERATE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := generatecmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.ExitCodef(apperrors.CodeOf(err).ExitCode(), "generate: %s", apperrors.Describe(err))
	}
}
