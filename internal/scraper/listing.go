package scraper

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"

	"github.com/pfrederiksen/rommelmarkt-events/internal/event"
)

// Fetcher fetches one URL and returns its body, or an error when the page is
// unavailable this pass.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// eventLinkPattern matches detail-page hrefs: /rommelmarkt/<id>/<slug>
var eventLinkPattern = regexp.MustCompile(`/rommelmarkt/(\d+)/([^?#]+)`)

// ListingScraper discovers event detail links on province/month listing pages.
type ListingScraper struct {
	fetcher Fetcher
	baseURL string
	logger  log.Logger
}

// NewListingScraper creates a ListingScraper rooted at baseURL.
func NewListingScraper(fetcher Fetcher, baseURL string, logger log.Logger) *ListingScraper {
	return &ListingScraper{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// ListingURL builds the listing-page URL for a (province, month) pair. Both
// names are Dutch and lowercase, matching the site's URL convention.
func ListingURL(baseURL, province, month string) string {
	return fmt.Sprintf("%s/rommelmarkten-tijdens-%s-in-%s", strings.TrimRight(baseURL, "/"), month, province)
}

// Discover fetches the listing page for a (province, month) pair and returns
// the deduplicated candidate links in first-occurrence order. A fetch or
// parse failure yields an empty slice and a warning: the caller treats it as
// "zero events this pass", never as a fatal error.
func (s *ListingScraper) Discover(ctx context.Context, province, month string) []event.CandidateLink {
	url := ListingURL(s.baseURL, province, month)

	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn().Str("url", url).Msg("failed to fetch listing page")
		return nil
	}

	links, err := s.parseListing(strings.NewReader(html))
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("failed to parse listing page")
		return nil
	}

	s.logger.Info().
		Int("count", len(links)).
		Str("month", month).
		Str("province", province).
		Msg("discovered events")
	return links
}

// parseListing scans the markup for every hyperlink matching the detail-page
// URL shape. The same id may appear several times on one page (banner plus
// list entry); output keeps the first occurrence only.
func (s *ListingScraper) parseListing(r io.Reader) ([]event.CandidateLink, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	seen := make(map[int]bool)
	links := make([]event.CandidateLink, 0)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		matches := eventLinkPattern.FindStringSubmatch(href)
		if matches == nil {
			return
		}

		id, err := strconv.Atoi(matches[1])
		if err != nil || seen[id] {
			return
		}
		seen[id] = true

		links = append(links, event.CandidateLink{
			ID:   id,
			Slug: matches[2],
			URL:  s.resolveURL(href),
		})
	})

	return links, nil
}

// resolveURL makes relative hrefs absolute against the site base URL.
func (s *ListingScraper) resolveURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return s.baseURL + href
	}
	return href
}
