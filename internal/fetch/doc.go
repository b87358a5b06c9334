// Package fetch implements the polite HTTP transport: one request in flight
// at a time, a minimum delay between requests, bounded retry with exponential
// backoff on transient statuses, and a fixed timeout. The scrapers depend on
// its Fetch(url) -> (content, error) contract and nothing else.
package fetch
