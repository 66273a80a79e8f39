// Package block recognizes three-line summary blocks in a log.
//
// A block is a header line carrying a timestamp followed by two value lines:
//
//	Summary for 2024-03-15 08:00:00
//	Total with balance: 42
//	Total without balance: 7
//
// Only the matched substring of each line matters; surrounding text is ignored.
// Matching is pure: the package never touches storage and never consumes lines
// on its own. The caller decides how many lines to pull from its source.
package block
