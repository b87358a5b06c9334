package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/rommelmarkt-events/internal/config"
	"github.com/pfrederiksen/rommelmarkt-events/internal/crawler"
	"github.com/pfrederiksen/rommelmarkt-events/internal/export"
	"github.com/pfrederiksen/rommelmarkt-events/internal/fetch"
	"github.com/pfrederiksen/rommelmarkt-events/internal/scraper"
	"github.com/pfrederiksen/rommelmarkt-events/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig      string
	flagFullRefresh bool
	flagExportJSON  bool
	flagDryRun      bool
)

// NewRootCmd creates the root command. Running it without a subcommand
// performs a crawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rommelmarkt-events",
		Short: "Scrape rommelmarkt listings from rommelmarkten.be",
		Long: `A respectful scraper that collects flea market (rommelmarkt) listings
from Flemish provinces and stores them in a local database.
By default only events not yet in the database are fetched.`,
		RunE:          runScrape,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "config.yaml", "Path to configuration file")
	cmd.Flags().BoolVarP(&flagFullRefresh, "full-refresh", "f", false, "Re-scrape all events, including ones already stored")
	cmd.Flags().BoolVarP(&flagExportJSON, "export-json", "e", false, "Export the database to JSON after scraping")
	cmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "Show which listing pages would be scraped without fetching")

	cmd.AddCommand(newExportCmd(), newCalendarCmd(), newStatsCmd())

	return cmd
}

// runScrape is the main crawl logic.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logging)

	provinces := cfg.Target.Provinces
	months := cfg.MonthsToScrape(time.Now())

	mode := "incremental"
	if flagFullRefresh {
		mode = "full refresh"
	}
	logger.Info().
		Strs("provinces", provinces).
		Strs("months", months).
		Str("mode", mode).
		Msg("starting scraper")

	if flagDryRun {
		for _, province := range provinces {
			for _, month := range months {
				logger.Info().Str("url", scraper.ListingURL(cfg.Target.BaseURL, province, month)).Msg("would scrape")
			}
		}
		logger.Info().Int("listing_pages", len(provinces)*len(months)).Msg("dry run complete, nothing fetched")
		return nil
	}

	// An interrupt stops further candidates; the deferred cleanup and the
	// summary below still run on that path.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	client := fetch.New(cfg.Scraping, logger)
	defer client.Close()

	listing := scraper.NewListingScraper(client, cfg.Target.BaseURL, logger)
	detail := scraper.NewDetailScraper(client, cfg.Target.BaseURL, logger)

	c := crawler.New(listing, detail, store, logger, flagFullRefresh)
	stats := c.Run(ctx, provinces, months)

	total, err := store.Count()
	if err != nil {
		logger.Warn().Err(err).Msg("could not count stored events")
	}
	c.LogSummary(stats, total)

	if flagExportJSON {
		path, err := export.Write(store, cfg.Storage.JSONExportPath, export.Options{}, logger)
		if err != nil {
			return fmt.Errorf("exporting events: %w", err)
		}
		logger.Info().Str("path", path).Msg("export written")
	}

	return nil
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
