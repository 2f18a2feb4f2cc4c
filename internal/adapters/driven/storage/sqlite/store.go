package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/recon-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driven"
)

// DatabaseFile is the cache database file name inside the data directory.
const DatabaseFile = "cache.db"

// Store is a SQLite database holding the HTTP response cache.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.recon/data/cache.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recon", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ResponseCache returns a ResponseCache interface backed by this store.
func (s *Store) ResponseCache() driven.ResponseCache {
	return &responseCache{store: s}
}

// Stats returns the number of cached responses and their total body size.
func (s *Store) Stats(ctx context.Context) (domain.CacheStats, error) {
	var stats domain.CacheStats
	var oldest sql.NullString
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(LENGTH(body)), 0), MIN(updated_at) FROM http_cache
	`)
	if err := row.Scan(&stats.Entries, &stats.Bytes, &oldest); err != nil {
		return domain.CacheStats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	if oldest.Valid {
		if t, err := parseTime(oldest.String); err == nil {
			stats.Oldest = t
		}
	}
	return stats, nil
}

// Clear removes every cached response and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM http_cache")
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared rows: %w", err)
	}
	return n, nil
}

// Prune removes responses last refreshed before cutoff.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM http_cache WHERE updated_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned rows: %w", err)
	}
	return n, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_http_cache.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Response Cache ====================

// responseCache implements driven.ResponseCache.
type responseCache struct {
	store *Store
}

var (
	_ driven.ResponseCache   = (*responseCache)(nil)
	_ driven.CacheMaintainer = (*Store)(nil)
)

// Get retrieves the cached response for url.
func (c *responseCache) Get(ctx context.Context, url string) (*domain.CachedResponse, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT url, etag, header, body, updated_at FROM http_cache WHERE url = ?
	`, url)

	var entry domain.CachedResponse
	var headerJSON string
	var updatedAt sql.NullTime
	if err := row.Scan(&entry.URL, &entry.ETag, &headerJSON, &entry.Body, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cached response: %w", err)
	}

	entry.Header = make(http.Header)
	if err := json.Unmarshal([]byte(headerJSON), &entry.Header); err != nil {
		return nil, fmt.Errorf("unmarshaling header: %w", err)
	}
	if updatedAt.Valid {
		entry.UpdatedAt = updatedAt.Time
	}

	return &entry, nil
}

// Put stores or replaces the cached response for entry.URL.
func (c *responseCache) Put(ctx context.Context, entry *domain.CachedResponse) error {
	if entry == nil || entry.URL == "" {
		return fmt.Errorf("%w: cache entry without url", domain.ErrInvalidInput)
	}

	headerJSON, err := json.Marshal(entry.Header)
	if err != nil {
		return fmt.Errorf("marshalling header: %w", err)
	}
	body := entry.Body
	if body == nil {
		body = []byte{}
	}
	updatedAt := entry.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO http_cache (url, etag, header, body, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			etag = excluded.etag,
			header = excluded.header,
			body = excluded.body,
			updated_at = excluded.updated_at
	`, entry.URL, entry.ETag, string(headerJSON), body, updatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving cached response: %w", err)
	}
	return nil
}

// parseTime parses timestamps as written by the driver.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05.999999999-07:00",
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
