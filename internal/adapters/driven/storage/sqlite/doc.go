// Package sqlite provides a SQLite-based implementation of the HTTP response
// cache port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It stores one row per request URL
// holding the ETag, headers and body of the last 200 response, which the
// GitHub transport replays when the server answers 304 Not Modified.
//
// Scan results are never stored here; they live in the JSON artifacts written
// by the report writer.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.recon/data/cache.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
