package storage

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"

	"github.com/phuslu/log"
	"github.com/timshannon/badgerhold/v4"

	"github.com/pfrederiksen/rommelmarkt-events/internal/event"
)

// Store persists event records in a BadgerHold database. It owns the audit
// timestamps: FirstSeenAt is set exactly once at insert time, LastUpdatedAt
// is refreshed on every write.
type Store struct {
	store  *badgerhold.Store
	logger log.Logger
}

// Open creates or opens the database at path.
func Open(path string, logger log.Logger) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("database opened")
	return &Store{store: store, logger: logger}, nil
}

// Close releases the database. Safe to call on every exit path.
func (s *Store) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// Exists reports whether a record with this id is present. The crawler calls
// this before issuing any network fetch for the id.
func (s *Store) Exists(id int) (bool, error) {
	var rec event.Record
	err := s.store.Get(id, &rec)
	if err == badgerhold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking event %d: %w", id, err)
	}
	return true, nil
}

// Upsert inserts or fully replaces a record and reports whether it was a new
// insert. The insert-vs-update decision uses the same existence fact as the
// write path, so the caller's accounting stays consistent. Updates replace
// every extracted field; only FirstSeenAt survives from the previous row.
func (s *Store) Upsert(rec *event.Record) (inserted bool, err error) {
	var prev event.Record
	now := time.Now().UTC()

	switch err := s.store.Get(rec.ID, &prev); err {
	case badgerhold.ErrNotFound:
		rec.FirstSeenAt = now
		inserted = true
	case nil:
		rec.FirstSeenAt = prev.FirstSeenAt
	default:
		return false, fmt.Errorf("checking event %d: %w", rec.ID, err)
	}
	rec.LastUpdatedAt = now

	if err := s.store.Upsert(rec.ID, rec); err != nil {
		return false, fmt.Errorf("saving event %d: %w", rec.ID, err)
	}

	s.logger.Debug().Int("id", rec.ID).Bool("inserted", inserted).Msg("event saved")
	return inserted, nil
}

// Get returns a single record by id.
func (s *Store) Get(id int) (*event.Record, error) {
	var rec event.Record
	if err := s.store.Get(id, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("event not found: %d", id)
		}
		return nil, fmt.Errorf("loading event %d: %w", id, err)
	}
	return &rec, nil
}

// Count returns the total number of persisted records.
func (s *Store) Count() (int, error) {
	count, err := s.store.Count(&event.Record{}, nil)
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return int(count), nil
}

// All returns every record ordered by event date. A nil query matches every
// row; ids come from the source and carry no lower bound this code may
// assume.
func (s *Store) All() ([]event.Record, error) {
	var recs []event.Record
	if err := s.store.Find(&recs, nil); err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	sortByDate(recs)
	return recs, nil
}

// ByMunicipality returns records whose municipality contains the given
// substring, case-insensitively, ordered by event date.
func (s *Store) ByMunicipality(substr string) ([]event.Record, error) {
	pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(substr))
	if err != nil {
		return nil, fmt.Errorf("invalid municipality filter: %w", err)
	}

	var recs []event.Record
	if err := s.store.Find(&recs, badgerhold.Where("Municipality").RegExp(pattern)); err != nil {
		return nil, fmt.Errorf("querying by municipality: %w", err)
	}
	sortByDate(recs)
	return recs, nil
}

// ByDateRange returns records whose event date falls inside the inclusive
// range, ordered by event date. Records without a date are excluded.
func (s *Store) ByDateRange(from, to time.Time) ([]event.Record, error) {
	var recs []event.Record
	query := badgerhold.Where("EventDate").Ge(from).And("EventDate").Le(to)
	if err := s.store.Find(&recs, query); err != nil {
		return nil, fmt.Errorf("querying by date range: %w", err)
	}
	sortByDate(recs)
	return recs, nil
}

func sortByDate(recs []event.Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].EventDate.Equal(recs[j].EventDate) {
			return recs[i].EventDate.Before(recs[j].EventDate)
		}
		return recs[i].ID < recs[j].ID
	})
}
