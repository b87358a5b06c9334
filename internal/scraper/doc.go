// Package scraper discovers event links on listing pages and extracts
// structured records from detail pages.
//
// The source site publishes no structured data and no stable DOM contract,
// so every field is recovered through an ordered cascade of strategies,
// each strictly more specific than a whole-page pattern scan, stopping at
// the first success per field. Field cascades are independent: a miss in one
// field never blocks another, and a missing field is an absent value, not an
// error. Only an unexpected page-level parse failure aborts a page, and it
// surfaces as a single extraction failure rather than a panic.
package scraper
