// Skillscout - Skill Discovery & Indexing Pipeline
//
// Discovers repositories publishing AI skill instruction files, scores and
// indexes them into a local catalog with an optional search index.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillscout/skillscout/internal/cli"
	"github.com/skillscout/skillscout/internal/config"
	"github.com/skillscout/skillscout/internal/db"
	"github.com/skillscout/skillscout/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Open the database early for the persistent tracking ID; commands
	// construct their own handles.
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	paths := config.GetPaths(cfg)

	var provider telemetry.TrackingIDProvider
	if database, err := db.New(db.DefaultConfig(paths.Database)); err == nil {
		provider = database
		defer func() {
			_ = database.Close()
		}()
	}

	telemetryClient := telemetry.New(provider)
	defer telemetryClient.Close()

	if err := cli.Execute(ctx, telemetryClient); err != nil {
		os.Exit(1)
	}
}
