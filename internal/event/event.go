package event

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownName is the sentinel title used when every title strategy fails.
const UnknownName = "Onbekend"

// Record represents a single rommelmarkt (flea market) event as extracted
// from a detail page. The ID comes from the source URL and is never
// generated locally. FirstSeenAt and LastUpdatedAt are owned by the storage
// layer; extraction code must leave them zero.
type Record struct {
	ID            int              `json:"id" badgerhold:"key"`
	Name          string           `json:"name"`
	Municipality  string           `json:"municipality,omitempty"`
	PostalCode    string           `json:"postal_code,omitempty"`
	StreetAddress string           `json:"street_address,omitempty"`
	VenueName     string           `json:"venue_name,omitempty"`
	EventDate     time.Time        `json:"event_date,omitzero"`
	StartTime     string           `json:"start_time,omitempty"`
	EndTime       string           `json:"end_time,omitempty"`
	Types         []string         `json:"types,omitempty"`
	EntryPrice    *decimal.Decimal `json:"entry_price,omitempty"`
	StandPrice    *decimal.Decimal `json:"stand_price,omitempty"`
	Organizer     string           `json:"organizer,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	Email         string           `json:"email,omitempty"`
	Website       string           `json:"website,omitempty"`
	Description   string           `json:"description,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
	SourceURL     string           `json:"source_url"`
	FirstSeenAt   time.Time        `json:"first_seen_at"`
	LastUpdatedAt time.Time        `json:"last_updated_at"`
}

// CandidateLink is a discovered (id, slug, url) triple awaiting a fetch/skip
// decision. It lives for a single crawl pass and is never persisted.
type CandidateLink struct {
	ID   int
	Slug string
	URL  string
}
