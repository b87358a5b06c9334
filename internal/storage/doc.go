// Package storage persists event records in an embedded BadgerHold database.
//
// Identity is the numeric id parsed from the source URL: a record exists
// exactly when a row with that id is present. Upserts replace all extracted
// fields; the audit timestamps are owned here and never supplied by callers.
package storage
