package export

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/rommelmarkt-events/internal/event"
	"github.com/pfrederiksen/rommelmarkt-events/internal/storage"
)

func quietLogger() log.Logger {
	return log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: io.Discard}}
}

func seededStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	seed := []event.Record{
		{ID: 1, Name: "Rommelmarkt Temse", Municipality: "Temse",
			EventDate: time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Brocante Gent", Municipality: "Gent",
			EventDate: time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Name: "Kinderrommelmarkt Temse", Municipality: "Temse",
			EventDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 4, Name: "Vlooienmarkt Hamme", Municipality: "Hamme",
			EventDate: time.Date(2026, time.April, 5, 0, 0, 0, 0, time.UTC)},
		{ID: 5, Name: "Markt zonder datum", Municipality: "Zele"},
	}
	for i := range seed {
		_, err := store.Upsert(&seed[i])
		require.NoError(t, err)
	}
	return store
}

func TestCollectByMunicipality(t *testing.T) {
	store := seededStore(t)

	recs, filters, err := Collect(store, Options{Municipality: "Temse"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, map[string]string{"municipality": "Temse"}, filters)
	for _, rec := range recs {
		assert.Equal(t, "Temse", rec.Municipality)
	}
}

func TestCollectByDateRange(t *testing.T) {
	store := seededStore(t)

	recs, filters, err := Collect(store, Options{
		From: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, map[string]string{
		"start_date": "2026-02-01",
		"end_date":   "2026-02-28",
	}, filters)
}

func TestCollectMunicipalityWinsOverDates(t *testing.T) {
	store := seededStore(t)

	recs, filters, err := Collect(store, Options{
		Municipality: "Hamme",
		From:         time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		To:           time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, map[string]string{"municipality": "Hamme"}, filters)
}

func TestCollectAll(t *testing.T) {
	store := seededStore(t)

	recs, filters, err := Collect(store, Options{})
	require.NoError(t, err)
	assert.Len(t, recs, 5)
	assert.Nil(t, filters)
}

func TestBuildDocument(t *testing.T) {
	recs := []event.Record{{ID: 1}, {ID: 2}}
	doc := BuildDocument(recs, map[string]string{"municipality": "Temse"})

	assert.Equal(t, 2, doc.Metadata.TotalEvents)
	assert.Equal(t, "rommelmarkten.be", doc.Metadata.Source)
	assert.False(t, doc.Metadata.ExportedAt.IsZero())
	assert.Equal(t, map[string]string{"municipality": "Temse"}, doc.Metadata.Filters)
	assert.Len(t, doc.Events, 2)
}

func TestWrite(t *testing.T) {
	store := seededStore(t)
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := Write(store, dir, Options{Municipality: "Temse"}, quietLogger())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "rommelmarkten_temse_"))
	assert.True(t, strings.HasSuffix(path, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.Metadata.TotalEvents)
	assert.Equal(t, "rommelmarkten.be", doc.Metadata.Source)
	assert.Equal(t, map[string]string{"municipality": "Temse"}, doc.Metadata.Filters)
	require.Len(t, doc.Events, 2)
	assert.Equal(t, "Rommelmarkt Temse", doc.Events[0].Name)
}

func TestWriteAllHasPlainFilename(t *testing.T) {
	store := seededStore(t)
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := Write(store, dir, Options{}, quietLogger())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "rommelmarkten_2"))
}
