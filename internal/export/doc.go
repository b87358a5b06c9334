// Package export serializes persisted event records to JSON documents with
// an export timestamp, total count, and the filters actually applied.
package export
