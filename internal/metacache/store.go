package metacache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"dupescan/internal/catalog"
	"dupescan/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bumping it invalidates every
// existing cache database; the store recreates them on open.
const schemaVersion = 1

// DefaultFlushEvery is the number of buffered writes accumulated before they
// are committed in a single transaction.
const DefaultFlushEvery = 64

// Options adjusts store behavior.
type Options struct {
	FlushEvery int
	Logger     *slog.Logger
}

// Store caches probe results in a SQLite database.
type Store struct {
	mu       sync.Mutex
	db       *sql.DB
	path     string
	lock     *flock.Flock
	readOnly bool

	flushEvery int
	pending    []pendingEntry
	logger     *slog.Logger
}

type pendingEntry struct {
	path      string
	mtimeUnix int64
	video     *catalog.VideoAttributes
}

// Open initializes or connects to the cache database under dir. When another
// process holds the writer lock the store opens read-only: lookups work,
// writes are silently dropped.
func Open(dir string, opts Options) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	flushEvery := opts.FlushEvery
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "metacache")

	dbPath := filepath.Join(dir, "metadata.db")
	db, err := openDatabase(dbPath)
	if err != nil {
		// The cache holds nothing that cannot be recomputed. Remove the
		// damaged database and start over instead of failing the scan.
		logger.Warn("cache database unusable, recreating", "error", err)
		removeDatabase(dbPath)
		db, err = openDatabase(dbPath)
		if err != nil {
			return nil, fmt.Errorf("recreate cache database: %w", err)
		}
	}

	store := &Store{
		db:         db,
		path:       dbPath,
		lock:       flock.New(filepath.Join(dir, "metadata.lock")),
		flushEvery: flushEvery,
		logger:     logger,
	}

	locked, err := store.lock.TryLock()
	if err != nil || !locked {
		store.readOnly = true
		store.logger.Warn("cache writer lock unavailable, running read-only", "lock", store.lock.Path())
	}
	return store, nil
}

func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(db *sql.DB) error {
	var tableExists int
	err := db.QueryRow(
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.Exec(schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("schema version mismatch: database has version %d, expected %d", version, schemaVersion)
	}
	return nil
}

func removeDatabase(dbPath string) {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		_ = os.Remove(dbPath + suffix)
	}
}

// Get returns the cached probe result for (path, mtimeUnix). The second
// return value reports whether the cache held an entry at all; a hit with a
// nil attributes pointer is a remembered probe failure.
func (s *Store) Get(ctx context.Context, path string, mtimeUnix int64) (*catalog.VideoAttributes, bool, error) {
	s.mu.Lock()
	for i := len(s.pending) - 1; i >= 0; i-- {
		if s.pending[i].path == path && s.pending[i].mtimeUnix == mtimeUnix {
			video := s.pending[i].video
			s.mu.Unlock()
			return video, true, nil
		}
	}
	s.mu.Unlock()

	var probed int
	var attributesJSON sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT probed, attributes_json FROM probe_results WHERE path = ? AND mtime_unix = ?",
		path, mtimeUnix,
	).Scan(&probed, &attributesJSON)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cache: %w", err)
	}

	if probed == 0 || !attributesJSON.Valid {
		return nil, true, nil
	}
	var video catalog.VideoAttributes
	if err := json.Unmarshal([]byte(attributesJSON.String), &video); err != nil {
		// Treat a decode failure as a miss so the file is probed again.
		return nil, false, nil
	}
	return &video, true, nil
}

// Put buffers a probe result for (path, mtimeUnix). A nil video records a
// negative entry. Buffered entries are committed once the batch fills or
// Flush is called.
func (s *Store) Put(ctx context.Context, path string, mtimeUnix int64, video *catalog.VideoAttributes) error {
	if s.readOnly {
		return nil
	}
	s.mu.Lock()
	s.pending = append(s.pending, pendingEntry{path: path, mtimeUnix: mtimeUnix, video: video})
	shouldFlush := len(s.pending) >= s.flushEvery
	s.mu.Unlock()

	if shouldFlush {
		return s.Flush(ctx)
	}
	return nil
}

// Flush commits all buffered entries in one transaction.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO probe_results (path, mtime_unix, probed, attributes_json, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (path, mtime_unix) DO UPDATE SET
            probed = excluded.probed,
            attributes_json = excluded.attributes_json,
            updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare cache upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, entry := range batch {
		probed := 0
		var attributesJSON any
		if entry.video != nil {
			payload, err := json.Marshal(entry.video)
			if err != nil {
				return fmt.Errorf("marshal attributes for %s: %w", entry.path, err)
			}
			probed = 1
			attributesJSON = string(payload)
		}
		if _, err := stmt.ExecContext(ctx, entry.path, entry.mtimeUnix, probed, attributesJSON, now); err != nil {
			return fmt.Errorf("upsert cache entry for %s: %w", entry.path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache tx: %w", err)
	}
	s.logger.Debug("flushed cache batch", "entries", len(batch))
	return nil
}

// Stats summarizes cache contents.
type Stats struct {
	Entries   int64
	Negative  int64
	SizeBytes int64
}

// Stats reports entry counts and the database file size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM probe_results").Scan(&stats.Entries); err != nil {
		return Stats{}, fmt.Errorf("count cache entries: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM probe_results WHERE probed = 0").Scan(&stats.Negative); err != nil {
		return Stats{}, fmt.Errorf("count negative entries: %w", err)
	}
	if info, err := os.Stat(s.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}

// Clear removes every cached entry, including anything still buffered.
func (s *Store) Clear(ctx context.Context) error {
	if s.readOnly {
		return fmt.Errorf("cache is read-only, another process holds the writer lock")
	}
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM probe_results"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Close flushes buffered entries, releases the writer lock, and closes the
// database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	flushErr := s.Flush(context.Background())
	if !s.readOnly {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release cache lock", "error", err)
		}
	}
	closeErr := s.db.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}
