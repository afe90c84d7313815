// Package recorder turns validation reports into history records.
//
// Writes happen on a background worker; Close drains the queue, so a CLI run
// that records and then closes never loses a record.
package recorder
