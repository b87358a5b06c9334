package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/rommelmarkt-events/internal/calendar"
	"github.com/pfrederiksen/rommelmarkt-events/internal/config"
	"github.com/pfrederiksen/rommelmarkt-events/internal/export"
	"github.com/pfrederiksen/rommelmarkt-events/internal/storage"
)

var (
	flagMunicipality string
	flagFrom         string
	flagTo           string
	flagICSOutput    string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored events to a JSON file",
		Long: `Export the stored events to a timestamped JSON file.
Events can be filtered by municipality or by an inclusive date range;
when both filters are given, the municipality filter wins.`,
		RunE: runExport,
	}

	cmd.Flags().StringVar(&flagMunicipality, "municipality", "", "Only export events whose municipality contains this text")
	cmd.Flags().StringVar(&flagFrom, "from", "", "Start of the date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagTo, "to", "", "End of the date range (YYYY-MM-DD)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logging)

	opts, err := exportOptions()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	path, err := export.Write(store, cfg.Storage.JSONExportPath, opts, logger)
	if err != nil {
		return fmt.Errorf("exporting events: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Exported to: %s\n", path)
	return nil
}

func exportOptions() (export.Options, error) {
	opts := export.Options{Municipality: flagMunicipality}

	if flagFrom != "" || flagTo != "" {
		if flagFrom == "" || flagTo == "" {
			return opts, fmt.Errorf("--from and --to must be given together")
		}
		from, err := time.Parse("2006-01-02", flagFrom)
		if err != nil {
			return opts, fmt.Errorf("invalid --from date: %w", err)
		}
		to, err := time.Parse("2006-01-02", flagTo)
		if err != nil {
			return opts, fmt.Errorf("invalid --to date: %w", err)
		}
		opts.From, opts.To = from, to
	}

	return opts, nil
}

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Export stored events as an iCalendar (.ics) file",
		RunE:  runCalendar,
	}

	cmd.Flags().StringVar(&flagMunicipality, "municipality", "", "Only include events whose municipality contains this text")
	cmd.Flags().StringVar(&flagFrom, "from", "", "Start of the date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagTo, "to", "", "End of the date range (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&flagICSOutput, "output", "o", "", "Output file (default: <export-dir>/rommelmarkten_<timestamp>.ics)")

	return cmd
}

func runCalendar(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logging)

	opts, err := exportOptions()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	recs, _, err := export.Collect(store, opts)
	if err != nil {
		return fmt.Errorf("collecting events: %w", err)
	}

	path := flagICSOutput
	if path == "" {
		if err := os.MkdirAll(cfg.Storage.JSONExportPath, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
		filename := fmt.Sprintf("rommelmarkten_%s.ics", time.Now().Format("20060102_150405"))
		path = filepath.Join(cfg.Storage.JSONExportPath, filename)
	}

	if err := os.WriteFile(path, []byte(calendar.GenerateICS(recs)), 0o644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Calendar written to: %s\n", path)
	return nil
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the number of stored events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			logger := config.NewLogger(cfg.Logging)

			store, err := storage.Open(cfg.Storage.DatabasePath, logger)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer store.Close()

			count, err := store.Count()
			if err != nil {
				return fmt.Errorf("counting events: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Stored events: %d\n", count)
			return nil
		},
	}
}
