package scraper

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/phuslu/log"
)

// stubFetcher serves canned content instead of hitting the network.
type stubFetcher struct {
	body  string
	err   error
	calls int
	urls  []string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls++
	f.urls = append(f.urls, url)
	return f.body, f.err
}

func quietLogger() log.Logger {
	return log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: io.Discard}}
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestListingURL(t *testing.T) {
	got := ListingURL("https://www.rommelmarkten.be/", "oost-vlaanderen", "februari")
	want := "https://www.rommelmarkten.be/rommelmarkten-tijdens-februari-in-oost-vlaanderen"
	if got != want {
		t.Errorf("ListingURL = %q, expected %q", got, want)
	}
}

func TestDiscoverDeduplicatesLinks(t *testing.T) {
	fetcher := &stubFetcher{body: loadFixture(t, "listing_page.html")}
	s := NewListingScraper(fetcher, "https://www.rommelmarkten.be", quietLogger())

	links := s.Discover(context.Background(), "oost-vlaanderen", "februari")

	if fetcher.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", fetcher.calls)
	}
	if want := "https://www.rommelmarkten.be/rommelmarkten-tijdens-februari-in-oost-vlaanderen"; fetcher.urls[0] != want {
		t.Errorf("fetched %q, expected %q", fetcher.urls[0], want)
	}

	// The fixture links to event 42 three times and event 7 once; only the
	// first occurrence of each id survives, in discovery order.
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d: %+v", len(links), links)
	}

	if links[0].ID != 42 {
		t.Errorf("expected first link id 42, got %d", links[0].ID)
	}
	if links[0].Slug != "grote-rommelmarkt-temse-9140" {
		t.Errorf("unexpected slug: %q", links[0].Slug)
	}
	if want := "https://www.rommelmarkten.be/rommelmarkt/42/grote-rommelmarkt-temse-9140"; links[0].URL != want {
		t.Errorf("expected relative href resolved to %q, got %q", want, links[0].URL)
	}

	if links[1].ID != 7 {
		t.Errorf("expected second link id 7, got %d", links[1].ID)
	}
	if links[1].Slug != "brocante-gent" {
		t.Errorf("unexpected slug: %q", links[1].Slug)
	}
}

func TestDiscoverFetchFailureYieldsNoLinks(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("boom")}
	s := NewListingScraper(fetcher, "https://www.rommelmarkten.be", quietLogger())

	links := s.Discover(context.Background(), "antwerpen", "mei")
	if links != nil {
		t.Errorf("expected no links on fetch failure, got %+v", links)
	}
}

func TestDiscoverEmptyPage(t *testing.T) {
	fetcher := &stubFetcher{body: "<html><body><p>Geen markten gevonden.</p></body></html>"}
	s := NewListingScraper(fetcher, "https://www.rommelmarkten.be", quietLogger())

	links := s.Discover(context.Background(), "limburg", "maart")
	if len(links) != 0 {
		t.Errorf("expected no links, got %+v", links)
	}
}
