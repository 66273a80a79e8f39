// Package harness runs ingestion scenarios described in YAML.
//
// A scenario replays a log that grows between ingestion runs and checks the
// per-run reports and the final database contents. Each scenario runs against
// a fresh in-memory database with deterministic run IDs and clock, so its
// snapshot can be compared against a golden file.
//
// # Scenario Format
//
//	name: incremental_growth
//	description: "New blocks appended between runs are picked up"
//	patterns:                 # optional, defaults to the standard block
//	  header: 'Summary for (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})'
//	runs:
//	  - append:
//	      - "Summary for 2024-01-10 12:00:00"
//	      - "Total with balance: 5"
//	      - "Total without balance: 3"
//	    expect:
//	      report: { blocks_ingested: 1 }
//	  - append: []
//	    expect:
//	      report: { blocks_ingested: 0, duplicate_lines: 1 }
//	assertions:
//	  - type: summary
//	    datetime: "2024-01-10 12:00:00"
//	    expect: { date: "2024-01-09", with_balance: 5, without_balance: 3 }
//	  - type: summary_count
//	    count: 1
//
// # Assertion Types
//
//   - summary: the row stored for datetime has the expected fields
//   - summary_absent: no row is stored for datetime
//   - summary_count: the summary table holds exactly count rows
//   - processed_count: the ledger holds exactly count line hashes
//   - run_count: exactly count completed runs were recorded
//
// A run may instead expect a fatal error with `expect: { error: timestamp }`.
package harness
