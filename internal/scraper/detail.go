package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"

	"github.com/pfrederiksen/rommelmarkt-events/internal/event"
)

// DetailScraper extracts one event.Record from a fetched detail page. Every
// field is recovered independently through its own cascade of strategies; a
// miss in one field never blocks another.
type DetailScraper struct {
	fetcher  Fetcher
	baseURL  string
	siteHost string
	logger   log.Logger
}

// NewDetailScraper creates a DetailScraper rooted at baseURL.
func NewDetailScraper(fetcher Fetcher, baseURL string, logger log.Logger) *DetailScraper {
	base := strings.TrimRight(baseURL, "/")
	host := base
	if u, err := url.Parse(base); err == nil && u.Hostname() != "" {
		host = strings.TrimPrefix(u.Hostname(), "www.")
	}
	return &DetailScraper{
		fetcher:  fetcher,
		baseURL:  base,
		siteHost: host,
		logger:   logger,
	}
}

// Scrape fetches a detail page and extracts its record.
func (s *DetailScraper) Scrape(ctx context.Context, pageURL string, id int) (*event.Record, error) {
	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching detail page: %w", err)
	}
	return s.Extract(html, id, pageURL)
}

// Extract recovers every structured field from the page content. It either
// returns a complete record or a definite extraction failure for the whole
// page. No partial records escape, and no parse condition propagates as a
// panic past this boundary.
func (s *DetailScraper) Extract(content string, id int, sourceURL string) (rec *event.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = fmt.Errorf("parsing detail page %s: %v", sourceURL, r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	// Raw text keeps newlines for line-bounded patterns (organizer); the
	// flattened form is single-spaced for patterns spanning markup breaks.
	text := doc.Text()
	flat := normalizeText(text)

	name := extractTitle(doc)
	if name == event.UnknownName {
		name = titleFromURL(sourceURL)
	}

	loc := extractLocation(flat)
	start, end := extractTimes(text)

	rec = &event.Record{
		ID:            id,
		Name:          name,
		Municipality:  loc.municipality,
		PostalCode:    loc.postalCode,
		StreetAddress: loc.streetAddress,
		VenueName:     extractVenueName(doc),
		EventDate:     extractDate(flat),
		StartTime:     start,
		EndTime:       end,
		Types:         extractTypes(doc),
		EntryPrice:    extractPrice(text, entryPricePatterns),
		StandPrice:    extractPrice(text, standPricePatterns),
		Organizer:     extractOrganizer(text),
		Phone:         extractPhone(text),
		Email:         extractEmail(doc, text),
		Website:       s.extractWebsite(doc, text),
		Description:   extractDescription(doc),
		ImageURL:      s.extractImage(doc),
		SourceURL:     sourceURL,
	}

	s.logger.Debug().Int("id", id).Str("name", rec.Name).Msg("extracted event")
	return rec, nil
}

// normalizeText collapses all whitespace runs to single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveSource makes a relative image or link source absolute.
func (s *DetailScraper) resolveSource(src string) string {
	if strings.HasPrefix(src, "/") {
		return s.baseURL + src
	}
	return src
}
