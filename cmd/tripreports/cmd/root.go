package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"ulhiking-backend/internal/components/chrono"
	"ulhiking-backend/internal/components/telemetry"
	"ulhiking-backend/internal/scrapers/lighterpack"
	"ulhiking-backend/lib/restyutil"
	"ulhiking-backend/lib/serviceutil"
	libtelemetry "ulhiking-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// shared by every subcommand, set in PersistentPreRunE
var (
	cfg   Config
	clock chrono.TimeAPI
	tel   telemetry.API
)

var rootCmd = &cobra.Command{
	Use:           "tripreports",
	SilenceErrors: true,
	Short:         "tripreports collects trip reports from r/ultralight and the lighterpack gear lists they link to.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		libtelemetry.InitSlog(verbose)

		var err error
		cfg, err = readConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		clock, err = chrono.NewStandardTime(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}
		tel = telemetry.SlogAPI{}

		return initTelemetry(cmd)
	},
}

func initTelemetry(cmd *cobra.Command) error {
	ctx := cmd.Context()
	t, err := libtelemetry.SetupFromEnv(ctx, "tripreports")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("telemetry.json5 not found, otel export disabled")
		return nil
	}
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	libtelemetry.InstrumentPerfStats(ctx)
	cobra.OnFinalize(func() {
		err := t.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	})
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "Path to the config file, <name>.local.json5 is merged over it.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging.")
}

func newScraper() (lighterpack.Scraper, error) {
	opts := lighterpack.HTTPFetcherOptions{
		Timeout:           time.Duration(cfg.Lighterpack.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Lighterpack.RequestsPerSecond,
		Retries:           cfg.Lighterpack.Retries,
		CloudflareBypass:  !cfg.Lighterpack.DisableBypass,
	}
	if cfg.Lighterpack.DumpDir != "" {
		dump, err := restyutil.NewFilesystemOutput(cfg.Lighterpack.DumpDir)
		if err != nil {
			return lighterpack.Scraper{}, err
		}
		opts.Dump = dump
	}
	fetcher := lighterpack.NewHTTPFetcher(tel, opts)
	return lighterpack.NewScraper(fetcher, tel, max(cfg.Lighterpack.Workers, 1)), nil
}

func Execute() {
	ctx := serviceutil.SignalContext()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		serviceutil.Fatal("tripreports", err)
	}
}
