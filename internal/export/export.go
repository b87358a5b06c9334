package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phuslu/log"

	"github.com/pfrederiksen/rommelmarkt-events/internal/event"
	"github.com/pfrederiksen/rommelmarkt-events/internal/storage"
)

// Options selects which records to export. Municipality filtering and date
// filtering are mutually exclusive selection modes; when both are given the
// municipality filter wins.
type Options struct {
	Municipality string
	From         time.Time
	To           time.Time
}

// Metadata describes one export document.
type Metadata struct {
	ExportedAt  time.Time         `json:"exported_at"`
	TotalEvents int               `json:"total_events"`
	Source      string            `json:"source"`
	Filters     map[string]string `json:"filters,omitempty"`
}

// Document is the serialized export structure.
type Document struct {
	Metadata Metadata       `json:"metadata"`
	Events   []event.Record `json:"events"`
}

// Collect selects records from the store per the options and returns them
// together with the filters actually applied.
func Collect(store *storage.Store, opts Options) ([]event.Record, map[string]string, error) {
	switch {
	case opts.Municipality != "":
		recs, err := store.ByMunicipality(opts.Municipality)
		if err != nil {
			return nil, nil, err
		}
		return recs, map[string]string{"municipality": opts.Municipality}, nil

	case !opts.From.IsZero() && !opts.To.IsZero():
		recs, err := store.ByDateRange(opts.From, opts.To)
		if err != nil {
			return nil, nil, err
		}
		return recs, map[string]string{
			"start_date": opts.From.Format("2006-01-02"),
			"end_date":   opts.To.Format("2006-01-02"),
		}, nil

	default:
		recs, err := store.All()
		if err != nil {
			return nil, nil, err
		}
		return recs, nil, nil
	}
}

// BuildDocument assembles the export document for a set of records.
func BuildDocument(recs []event.Record, filters map[string]string) *Document {
	return &Document{
		Metadata: Metadata{
			ExportedAt:  time.Now().UTC(),
			TotalEvents: len(recs),
			Source:      "rommelmarkten.be",
			Filters:     filters,
		},
		Events: recs,
	}
}

// Write exports the selected records as an indented JSON file in dir and
// returns the file path. The filename carries a timestamp, plus the
// municipality when that filter applies.
func Write(store *storage.Store, dir string, opts Options, logger log.Logger) (string, error) {
	recs, filters, err := Collect(store, opts)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	suffix := ""
	if opts.Municipality != "" {
		suffix = "_" + strings.ToLower(strings.ReplaceAll(opts.Municipality, " ", "_"))
	}
	filename := fmt.Sprintf("rommelmarkten%s_%s.json", suffix, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(BuildDocument(recs, filters), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}

	logger.Info().Int("count", len(recs)).Str("path", path).Msg("exported events")
	return path, nil
}
