// Package database provides SQLite-based storage for imgshield.
//
// The HistoryDB stores:
//   - The most recent privacy scores, trimmed to a fixed size
//   - Complete image reviews keyed by the digest of the image contents
//
// The database is a single file opened through modernc.org/sqlite, so no
// cgo toolchain is needed.
package database
