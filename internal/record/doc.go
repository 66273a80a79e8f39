// Package record provides the domain types shared by every other balancelog
// package.
//
// This package contains type definitions and line hashing only. All other
// internal packages import record; record imports nothing internal.
//
// Key design constraints:
//   - Counters are int64, never floats
//   - Timestamps are naive wall-clock values, stored as "2006-01-02 15:04:05"
//   - All JSON tags use snake_case
package record
