// Package database provides SQLite-based storage for webscrap.
//
// This package implements the ChunkDB, which stores:
//   - Crawl runs (one row per crawl session with summary counters)
//   - Extracted chunks keyed by their deterministic identifier
//
// Persisted runs are what the diff command compares: because chunk
// identifiers are a pure function of chunk text, two runs of the same site
// can be diffed by identifier set alone.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Sufficient performance for our use case
//  4. WAL mode provides good concurrent read performance
package database
