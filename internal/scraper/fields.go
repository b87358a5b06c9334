package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/pfrederiksen/rommelmarkt-events/internal/cfemail"
	"github.com/pfrederiksen/rommelmarkt-events/internal/event"
)

// sectionHeaders are h3 texts that label page sections rather than the event.
var sectionHeaders = []string{"thema", "waar", "contact", "wanneer", "info", "prijs"}

// titleSlugPattern pulls the slug out of a detail URL for the title fallback.
var titleSlugPattern = regexp.MustCompile(`/rommelmarkt/\d+/(.+?)(?:\?|$)`)

// trailingNumberPattern strips trailing 4-digit tokens (usually postal codes)
// from slug-derived titles.
var trailingNumberPattern = regexp.MustCompile(`\s+\d{4}\s*$`)

// extractTitle recovers the event title: (1) the page <title> left of the
// " | " separator, (2) the first h3 that is neither a section header nor an
// image container. The URL-slug fallback is the caller's job.
func extractTitle(doc *goquery.Document) string {
	// Only a separated title names the event; a bare <title> is the site's
	// own chrome and must not shadow the heading scan.
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		if strings.Contains(title, " | ") {
			return strings.TrimSpace(strings.SplitN(title, " | ", 2)[0])
		}
	}

	found := event.UnknownName
	doc.Find("h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return true
		}
		lower := strings.ToLower(text)
		for _, header := range sectionHeaders {
			if strings.Contains(lower, header) {
				return true
			}
		}
		// Headings wrapping an image are location markers, not titles.
		if sel.Find("img").Length() > 0 {
			return true
		}
		found = text
		return false
	})
	return found
}

// titleFromURL derives a display title from the URL slug: separators become
// spaces, a trailing 4-digit token is dropped, and the rest is title-cased.
func titleFromURL(pageURL string) string {
	matches := titleSlugPattern.FindStringSubmatch(pageURL)
	if matches == nil {
		return event.UnknownName
	}
	title := strings.TrimSpace(strings.ReplaceAll(matches[1], "-", " "))
	title = trailingNumberPattern.ReplaceAllString(title, "")
	if title == "" {
		return event.UnknownName
	}
	return event.TitleCase(title)
}

// streetSuffixes is the closed list of Dutch street-type suffixes used to
// recognize addresses.
const streetSuffixes = `straat|laan|plein|weg|baan|dreef|steenweg|lei|kaai|ring|` +
	`boulevard|dijk|gracht|singel|pad|hof|park|wijk|veld|markt`

var (
	// "9140 TEMSE" or "9140 Temse": Belgian postal code plus place name.
	postalCodePattern = regexp.MustCompile(`(\d{4})\s+([A-Z][A-Za-z\-]+(?:\s*-\s*[A-Za-z]+)?)`)

	// "Kapelanielaan 27": single-word street name plus house number.
	addressPattern = regexp.MustCompile(`(?i)\b([A-Z][a-z]+(?:[a-z]*)(?:` + streetSuffixes + `))\s+(\d+[A-Za-z]?)\b`)

	// "Grote Markt 1": multi-word street name fallback.
	multiwordAddressPattern = regexp.MustCompile(`(?i)\b([A-Z][a-z]+\s+(?:[A-Z]?[a-z]+\s+)*(?:` + streetSuffixes + `))\s+(\d+[A-Za-z]?)\b`)
)

type location struct {
	municipality  string
	postalCode    string
	streetAddress string
}

// extractLocation searches single-spaced page text for a postal-code/place
// pair and, independently, for a street address. Either may be found without
// the other.
func extractLocation(flat string) location {
	var loc location

	if matches := postalCodePattern.FindStringSubmatch(flat); matches != nil {
		loc.postalCode = matches[1]
		loc.municipality = event.TitleCase(strings.TrimSpace(matches[2]))
	}

	if match := addressPattern.FindString(flat); match != "" {
		loc.streetAddress = strings.TrimSpace(match)
	} else if match := multiwordAddressPattern.FindString(flat); match != "" {
		loc.streetAddress = strings.TrimSpace(match)
	}

	return loc
}

// extractVenueName returns the first h4 text that is not a date header
// (date headers spell out a weekday name).
func extractVenueName(doc *goquery.Document) string {
	venue := ""
	doc.Find("h4").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return true
		}
		lower := strings.ToLower(text)
		for _, day := range event.WeekdayNames {
			if strings.Contains(lower, day) {
				return true
			}
		}
		venue = text
		return false
	})
	return venue
}

// datePattern matches "za 7 feb 2026" or "zaterdag 7 februari 2026".
var datePattern = regexp.MustCompile(
	`(?i)(?:ma|di|wo|do|vr|za|zo|maandag|dinsdag|woensdag|donderdag|vrijdag|zaterdag|zondag)\s+` +
		`(\d{1,2})\s+` +
		`(jan(?:uari)?|feb(?:ruari)?|mrt|mar(?:t)?|apr(?:il)?|mei|jun(?:i)?|jul(?:i)?|` +
		`aug(?:ustus)?|sep(?:t(?:ember)?)?|okt(?:ober)?|oct|nov(?:ember)?|dec(?:ember)?)\s+` +
		`(\d{4})`)

// extractDate finds a Dutch weekday-day-month-year phrase and builds a
// calendar date from it. Invalid calendar combinations yield no date.
func extractDate(flat string) time.Time {
	matches := datePattern.FindStringSubmatch(flat)
	if matches == nil {
		return time.Time{}
	}

	day, _ := strconv.Atoi(matches[1])
	year, _ := strconv.Atoi(matches[3])
	month, ok := event.MonthNumber(matches[2])
	if !ok {
		return time.Time{}
	}

	date, ok := event.MakeDate(year, month, day)
	if !ok {
		return time.Time{}
	}
	return date
}

var (
	// "9:00 - 17:30" or "09.00 tot 17.30": a start/end pair.
	timeRangePattern = regexp.MustCompile(`(\d{1,2}[:.]\d{2})\s*(?:[-–—]|tot)\s*(\d{1,2}[:.]\d{2})`)

	// Lone "H:MM" token; the colon keeps decimal prices from matching.
	singleTimePattern = regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`)
)

// extractTimes returns normalized "H:MM" start and end times. A pair match
// wins; a lone clock token yields a start time with no end time.
func extractTimes(text string) (start, end string) {
	if matches := timeRangePattern.FindStringSubmatch(text); matches != nil {
		return normalizeClock(matches[1]), normalizeClock(matches[2])
	}
	if matches := singleTimePattern.FindStringSubmatch(text); matches != nil {
		return normalizeClock(matches[1]), ""
	}
	return "", ""
}

func normalizeClock(token string) string {
	return strings.ReplaceAll(token, ".", ":")
}

// typeClassPattern matches class attributes of badge-style elements.
var typeClassPattern = regexp.MustCompile(`(?i)badge|btn|theme|tag|label|category`)

// knownTypes is the closed vocabulary of market-type terms.
var knownTypes = []string{
	"rommelmarkt", "binnenrommelmarkt", "buitenrommelmarkt",
	"antiekbeurs", "brocante beurs", "brocantebeurs",
	"kinderrommelmarkt", "tweedehandsmarkt", "vlooienmarkt",
	"verzamelbeurs", "curiosamarkt", "garageverkoop",
}

// extractTypes collects event categories from badge-style elements whose
// text matches the known vocabulary, deduplicated case-insensitively while
// preserving first-seen casing.
func extractTypes(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var types []string

	doc.Find("span, a, div").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !typeClassPattern.MatchString(class) {
			return
		}

		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if text == "" || !matchesKnownType(text) {
			return
		}

		display := event.TitleCase(text)
		if seen[strings.ToLower(display)] {
			return
		}
		seen[strings.ToLower(display)] = true
		types = append(types, display)
	})

	return types
}

func matchesKnownType(text string) bool {
	for _, kt := range knownTypes {
		if text == kt || strings.Contains(text, kt) {
			return true
		}
	}
	return false
}

var (
	entryPricePatterns = compilePricePatterns("inkom", "toegang", "entree", "entrance")
	standPricePatterns = compilePricePatterns("standplaats", "stand", "tafel", "kraam")
)

// compilePricePatterns builds one pattern per keyword, in priority order:
// "Inkom 4,50 €", "Standplaats: 9 EUR", and similar.
func compilePricePatterns(keywords ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		patterns = append(patterns, regexp.MustCompile(
			fmt.Sprintf(`(?i)%s[:\s]*\**(\d+(?:[,.]\d+)?)\s*(?:€|EUR|euro)?\**`, kw)))
	}
	return patterns
}

// extractPrice tries each keyword pattern in priority order and returns the
// first value that parses; an unparsable number means the next keyword is
// tried rather than failing the field.
func extractPrice(text string, patterns []*regexp.Regexp) *decimal.Decimal {
	for _, pattern := range patterns {
		matches := pattern.FindStringSubmatch(text)
		if matches == nil {
			continue
		}
		value, err := decimal.NewFromString(strings.ReplaceAll(matches[1], ",", "."))
		if err != nil || value.IsNegative() {
			continue
		}
		return &value
	}
	return nil
}

var (
	organizerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:organisator|georganiseerd door)[:\s]*([^\n,]+)`),
		// A delimiter is required: without it "org" would match inside
		// "organisator" itself.
		regexp.MustCompile(`(?i)\borg\.?[:\s]+([^\n,]+)`),
	}
	organizerTrailerPattern = regexp.MustCompile(`(?i)\s*(?:tel|email|www|http).*$`)
)

// extractOrganizer finds an organizer phrase and strips any trailing contact
// fragment. Results of two characters or fewer are noise and discarded.
func extractOrganizer(text string) string {
	for _, pattern := range organizerPatterns {
		matches := pattern.FindStringSubmatch(text)
		if matches == nil {
			continue
		}
		org := strings.TrimSpace(matches[1])
		org = organizerTrailerPattern.ReplaceAllString(org, "")
		if utf8.RuneCountInString(org) > 2 {
			return org
		}
	}
	return ""
}

// phonePatterns are tried in order: keyword-prefixed international, keyword-
// prefixed national, bare international, bare national.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:tel(?:efoon)?|gsm|phone)[.:\s]*(\+?32[\s./\-]?(?:\d[\s./\-]?){8,})`),
	regexp.MustCompile(`(?i)(?:tel(?:efoon)?|gsm|phone)[.:\s]*(0\d[\s./\-]?(?:\d[\s./\-]?){7,})`),
	regexp.MustCompile(`(\+32[\s./\-]?\d[\s./\-]?(?:\d[\s./\-]?){7,})`),
	regexp.MustCompile(`(0\d{1,3}[\s./\-]?\d{2}[\s./\-]?\d{2}[\s./\-]?\d{2})`),
}

var phoneSeparatorPattern = regexp.MustCompile(`[\s./\-]+`)

// extractPhone returns the first phone match with internal separators
// normalized to single spaces.
func extractPhone(text string) string {
	for _, pattern := range phonePatterns {
		matches := pattern.FindStringSubmatch(text)
		if matches == nil {
			continue
		}
		return strings.TrimSpace(phoneSeparatorPattern.ReplaceAllString(matches[1], " "))
	}
	return ""
}

var (
	cfemailFragmentPattern = regexp.MustCompile(`(?i)#([a-f0-9]+)$`)
	emailPattern           = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
)

// extractEmail tries the obfuscation-protected link, then the data attribute
// carrying the same payload, then a bare address in page text. Decoded
// candidates must contain '@' to be accepted.
func extractEmail(doc *goquery.Document, text string) string {
	if href, ok := doc.Find(`a[href*="/cdn-cgi/l/email-protection"]`).First().Attr("href"); ok {
		if matches := cfemailFragmentPattern.FindStringSubmatch(href); matches != nil {
			if decoded, ok := cfemail.Decode(matches[1]); ok && strings.Contains(decoded, "@") {
				return decoded
			}
		}
	}

	if encoded, ok := doc.Find("[data-cfemail]").First().Attr("data-cfemail"); ok {
		if decoded, ok := cfemail.Decode(encoded); ok && strings.Contains(decoded, "@") {
			return decoded
		}
	}

	return emailPattern.FindString(text)
}

var websitePattern = regexp.MustCompile(`(?i)(?:website|www|http)[:\s]*(https?://[^\s<>"]+|www\.[^\s<>"]+)`)

// extractWebsite returns the first external absolute link that is neither on
// the source site nor a mail link, falling back to a keyword-prefixed URL in
// page text.
func (s *DetailScraper) extractWebsite(doc *goquery.Document, text string) string {
	website := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if !strings.HasPrefix(href, "http") || strings.Contains(href, s.siteHost) {
			return true
		}
		if strings.HasPrefix(href, "mailto:") {
			return true
		}
		website = href
		return false
	})
	if website != "" {
		return website
	}

	if matches := websitePattern.FindStringSubmatch(text); matches != nil {
		found := matches[1]
		if !strings.HasPrefix(found, "http") {
			found = "http://" + found
		}
		return found
	}
	return ""
}

// descriptionBlocklist marks paragraphs that are site chrome, not content.
var descriptionBlocklist = []string{"cookie", "privacy", "copyright", "advertentie"}

// extractDescription joins the first three substantial paragraphs (longer
// than 50 characters, not matching the blocklist) with blank lines.
func extractDescription(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if len(paragraphs) >= 3 {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if utf8.RuneCountInString(text) <= 50 {
			return
		}
		lower := strings.ToLower(text)
		for _, blocked := range descriptionBlocklist {
			if strings.Contains(lower, blocked) {
				return
			}
		}
		paragraphs = append(paragraphs, text)
	})
	return strings.Join(paragraphs, "\n\n")
}

// imageIndicators mark poster-style event images.
var imageIndicators = []string{"affiche", "poster", "flyer", "banner"}

// extractImage returns the first poster-style image source, else the first
// image under a /content/ path, resolved against the site base URL.
func (s *DetailScraper) extractImage(doc *goquery.Document) string {
	image := ""
	doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, _ := sel.Attr("src")
		lower := strings.ToLower(src)
		for _, indicator := range imageIndicators {
			if strings.Contains(lower, indicator) {
				image = s.resolveSource(src)
				return false
			}
		}
		return true
	})
	if image != "" {
		return image
	}

	doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, _ := sel.Attr("src")
		if strings.Contains(strings.ToLower(src), "/content/") {
			image = s.resolveSource(src)
			return false
		}
		return true
	})
	return image
}
