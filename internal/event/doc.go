// Package event provides the record types shared by the scraper, storage,
// and export layers, plus Dutch calendar token parsing.
//
// A Record is a plain value: it holds exactly what was extracted from one
// detail page, keyed by the numeric id embedded in the source URL. Records
// carry no references to each other; identity and audit timestamps are the
// storage layer's concern.
package event
