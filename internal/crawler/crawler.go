package crawler

import (
	"context"

	"github.com/phuslu/log"

	"github.com/pfrederiksen/rommelmarkt-events/internal/event"
)

// Discoverer produces candidate links for one (province, month) listing page.
type Discoverer interface {
	Discover(ctx context.Context, province, month string) []event.CandidateLink
}

// DetailFetcher fetches and extracts one detail page.
type DetailFetcher interface {
	Scrape(ctx context.Context, url string, id int) (*event.Record, error)
}

// RecordStore is the durable-store surface the crawl needs: an existence
// check (consulted before any detail fetch) and an upsert that reports
// whether it inserted.
type RecordStore interface {
	Exists(id int) (bool, error)
	Upsert(rec *event.Record) (bool, error)
}

// Stats accumulates the per-run counters reported in the crawl summary.
type Stats struct {
	Total       int
	New         int
	Updated     int
	Skipped     int
	Failed      int
	Interrupted bool
}

// Crawler walks region × month listing pages and reconciles every discovered
// candidate against the durable store: skip when already present (unless a
// full refresh was requested), otherwise fetch, extract, and upsert. The
// crawl is strictly sequential; one fetch in flight at a time is part of
// the politeness contract, not an accident.
type Crawler struct {
	discoverer  Discoverer
	detail      DetailFetcher
	store       RecordStore
	logger      log.Logger
	fullRefresh bool
}

// New creates a Crawler.
func New(discoverer Discoverer, detail DetailFetcher, store RecordStore, logger log.Logger, fullRefresh bool) *Crawler {
	return &Crawler{
		discoverer:  discoverer,
		detail:      detail,
		store:       store,
		logger:      logger,
		fullRefresh: fullRefresh,
	}
}

// Run crawls every (province, month) pair. Cancellation is honored at the
// candidate boundary: the current page finishes, no further work starts, and
// the partial stats are returned so the caller can still report a summary.
func (c *Crawler) Run(ctx context.Context, provinces, months []string) *Stats {
	stats := &Stats{}

	for _, province := range provinces {
		for _, month := range months {
			if ctx.Err() != nil {
				c.logger.Warn().Msg("crawl interrupted")
				stats.Interrupted = true
				return stats
			}

			c.logger.Info().Str("month", month).Str("province", province).Msg("scraping listing")

			links := c.discoverer.Discover(ctx, province, month)
			if len(links) == 0 {
				c.logger.Warn().Str("month", month).Str("province", province).Msg("no events found")
				continue
			}

			for _, link := range links {
				if ctx.Err() != nil {
					c.logger.Warn().Msg("crawl interrupted")
					stats.Interrupted = true
					return stats
				}
				stats.Total++
				c.processCandidate(ctx, link, stats)
			}
		}
	}

	return stats
}

// processCandidate classifies one candidate as skip, insert, or update. The
// existence check runs before any detail fetch; that ordering is the whole
// incremental-crawl optimization.
func (c *Crawler) processCandidate(ctx context.Context, link event.CandidateLink, stats *Stats) {
	if !c.fullRefresh {
		exists, err := c.store.Exists(link.ID)
		if err != nil {
			stats.Failed++
			c.logger.Error().Err(err).Int("id", link.ID).Msg("existence check failed")
			return
		}
		if exists {
			stats.Skipped++
			c.logger.Debug().Int("id", link.ID).Msg("skipping existing event")
			return
		}
	}

	rec, err := c.detail.Scrape(ctx, link.URL, link.ID)
	if err != nil {
		stats.Failed++
		c.logger.Warn().Err(err).Int("id", link.ID).Str("url", link.URL).Msg("failed to scrape event")
		return
	}

	inserted, err := c.store.Upsert(rec)
	if err != nil {
		stats.Failed++
		c.logger.Error().Err(err).Int("id", link.ID).Msg("failed to save event")
		return
	}

	if inserted {
		stats.New++
		c.logger.Info().Int("id", rec.ID).Str("name", rec.Name).Str("municipality", rec.Municipality).Msg("added event")
	} else {
		stats.Updated++
		c.logger.Info().Int("id", rec.ID).Str("name", rec.Name).Str("municipality", rec.Municipality).Msg("updated event")
	}
}

// LogSummary reports the run counters and the resulting store size.
func (c *Crawler) LogSummary(stats *Stats, storeTotal int) {
	c.logger.Info().
		Int("total", stats.Total).
		Int("new", stats.New).
		Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Int("store_total", storeTotal).
		Bool("interrupted", stats.Interrupted).
		Msg("crawl complete")
}
