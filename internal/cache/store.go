package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gitgauge/gitgauge/internal/model"
)

// Store is a SQLite-backed report cache with a fixed TTL. Entries older
// than the TTL are treated as absent; concurrent writers for the same
// username race and the last writer wins.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewStore opens (or creates) the cache database under dataDir.
func NewStore(dataDir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "analysis_cache.db")
	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &Store{db: db, ttl: ttl, now: time.Now}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migrate cache database: %w", err)
	}

	slog.Info("Report cache initialized", "path", dbPath, "ttl", ttl.String())
	return store, nil
}

func (s *Store) migrate() error {
	query := `CREATE TABLE IF NOT EXISTS analysis_cache (
		username TEXT PRIMARY KEY,
		report TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	)`
	if _, err := s.db.Exec(query); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_analysis_cache_expires ON analysis_cache(expires_at)`)
	return err
}

// Get returns the cached report for username. The second return value is
// false on a miss; an expired entry is a miss and is deleted on read.
func (s *Store) Get(ctx context.Context, username string) (*model.AnalysisReport, bool, error) {
	key := normalizeKey(username)

	var serialized string
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT report, expires_at FROM analysis_cache WHERE username = ?`, key,
	).Scan(&serialized, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	if s.now().After(expiresAt) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE username = ?`, key); err != nil {
			slog.Warn("Failed to delete expired cache entry", "username", key, "error", err)
		}
		return nil, false, nil
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(serialized), &report); err != nil {
		return nil, false, fmt.Errorf("decode cached report: %w", err)
	}

	return &report, true, nil
}

// Put stores a completed report, replacing any previous entry.
func (s *Store) Put(ctx context.Context, username string, report *model.AnalysisReport) error {
	serialized, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	now := s.now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analysis_cache (username, report, created_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET
			report = excluded.report,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		normalizeKey(username), string(serialized), now, now.Add(s.ttl),
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry for username, if any.
func (s *Store) Delete(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE username = ?`, normalizeKey(username))
	return err
}

// PurgeExpired removes all expired rows and returns the count.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analysis_cache WHERE expires_at < ?`, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired entries: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns entry counts for the stats endpoint.
func (s *Store) Stats(ctx context.Context) (map[string]interface{}, error) {
	var total, expired int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analysis_cache`).Scan(&total); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analysis_cache WHERE expires_at < ?`, s.now()).Scan(&expired); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_entries":   total,
		"expired_entries": expired,
		"active_entries":  total - expired,
		"ttl_seconds":     s.ttl.Seconds(),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func normalizeKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
