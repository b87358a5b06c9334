// Package crawler implements incremental crawl reconciliation: it turns the
// stream of rediscovered listing links into the minimal set of fetch,
// extract, and persist operations against the durable store.
//
// In the default incremental mode an identifier already present in storage
// is skipped before any network fetch happens. A full refresh re-processes
// everything, with the insert-vs-update accounting decided by the store at
// write time. Failures are counted, never fatal: a failed extraction never
// reaches the upsert step, so it can never corrupt a persisted record.
package crawler
