// Package ingest implements the balancelog ingestion loop.
//
// The Ingester walks a line source from the start, one line at a time:
//
//  1. Lines whose hash is already in the ledger are skipped uninspected.
//  2. Lines that are not a block header are passed over and never recorded.
//  3. A header pulls the next two lines. A valid block is written through
//     the store together with the header's ledger marker; a malformed block
//     is dropped and nothing is recorded for any of its three lines.
//  4. A header with fewer than two lines after it ends the run quietly; it
//     is retried on a later run once the log has grown.
//
// Runs are idempotent over an append-only log: there is no saved read offset,
// every run rescans the whole file and relies on the ledger alone.
//
// Fatal errors (unreadable source, storage failures, a header whose timestamp
// cannot be parsed) end the run immediately. No run record is written for a
// failed run.
package ingest
