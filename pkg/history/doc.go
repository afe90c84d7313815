// Package history keeps an audit trail of validations.
//
// Every validation run through the HTTP API, the CLI or the file watcher can
// be turned into a Record by the recorder package and persisted by a Storage
// backend from the storage package. The retention package prunes old records
// on a cron schedule and the export package writes records as JSON or CSV.
//
// The validator itself never touches history; callers opt in.
//
// # Record contents
//
// A record keeps hashes of the policy graph and the user text, the outcome
// counts, the distinct issue types and the full report as JSON. This keeps
// records small enough to retain for weeks while still allowing the exact
// report to be inspected with "odrlcheck history show".
//
// # Backends
//
//   - memory: process-local, bounded, for tests and one-shot CLI runs
//   - sqlite: durable; driver "sqlite" (modernc.org/sqlite, pure Go) or
//     "sqlite3" (github.com/mattn/go-sqlite3, cgo)
package history
