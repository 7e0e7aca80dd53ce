// Package main validates catalog files and imports them into the encounter
// database.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/louisbranch/encounters/internal/platform/config"
	catalogimporter "github.com/louisbranch/encounters/internal/tools/importer/catalog"
)

func main() {
	cfg, err := catalogimporter.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitCodef(64, "Error: %v", err)
	}

	if err := catalogimporter.RunWithTelemetry(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
