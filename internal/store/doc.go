// Package store provides SQLite-backed durable storage for balancelog.
//
// The store holds three tables:
//   - summary: one row per distinct summary timestamp
//   - processed_lines: the dedup ledger of header line hashes
//   - ingest_runs: one row per completed ingestion run
//
// # Idempotency
//
// summary.datetime and processed_lines.line_hash are UNIQUE. Both are written
// with ON CONFLICT DO NOTHING, so re-ingesting a block is a silent no-op and
// the first write for a timestamp wins.
//
// A block's summary row and its ledger marker are written in one transaction.
// The marker never exists without the row it stands for.
//
// # Compatibility
//
// summary and processed_lines keep the layout of databases created by earlier
// versions of the tool; ingest_runs is added by migration on first open.
//
// # Connection settings
//
// Every open sets journal_mode=WAL, synchronous=NORMAL and busy_timeout=5000,
// and caps the pool at one connection.
package store
