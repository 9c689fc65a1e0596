// Package cache persists parsed page tables of contents and site build
// records in SQLite so unchanged markdown files are not parsed again.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ziadkadry99/docnav/internal/nav"
)

// DB wraps a sql.DB with docnav-specific helpers.
type DB struct {
	*sql.DB
	mu   sync.Mutex
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory cache (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory cache: %w", err)
	}
	// Each connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Path returns the database file path.
func (d *DB) Path() string { return d.path }

func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS page_tocs (
    path TEXT PRIMARY KEY,
    hash TEXT NOT NULL,
    toc TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS builds (
    id TEXT PRIMARY KEY,
    output_dir TEXT NOT NULL,
    started_at DATETIME NOT NULL,
    finished_at DATETIME,
    pages INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
`

// Hash returns the content hash used to detect changed files.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// GetTOC returns the cached toc for path if it was stored with the same
// content hash.
func (d *DB) GetTOC(ctx context.Context, path, hash string) ([]nav.HeadingNode, bool, error) {
	var stored, data string
	err := d.QueryRowContext(ctx,
		`SELECT hash, toc FROM page_tocs WHERE path = ?`, path,
	).Scan(&stored, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading toc for %s: %w", path, err)
	}
	if stored != hash {
		return nil, false, nil
	}

	var toc []nav.HeadingNode
	if err := json.Unmarshal([]byte(data), &toc); err != nil {
		return nil, false, fmt.Errorf("decoding toc for %s: %w", path, err)
	}
	return toc, true, nil
}

// PutTOC stores the toc parsed from the content with the given hash.
func (d *DB) PutTOC(ctx context.Context, path, hash string, toc []nav.HeadingNode) error {
	data, err := json.Marshal(toc)
	if err != nil {
		return fmt.Errorf("encoding toc for %s: %w", path, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err = d.ExecContext(ctx,
		`INSERT INTO page_tocs (path, hash, toc, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, toc = excluded.toc, updated_at = excluded.updated_at`,
		path, hash, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing toc for %s: %w", path, err)
	}
	return nil
}

// Prune deletes cached tocs whose path is not in keep. It returns the
// number of rows removed.
func (d *DB) Prune(ctx context.Context, keep []string) (int, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, p := range keep {
		keepSet[p] = true
	}

	rows, err := d.QueryContext(ctx, `SELECT path FROM page_tocs`)
	if err != nil {
		return 0, fmt.Errorf("listing cached tocs: %w", err)
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return 0, err
		}
		if !keepSet[p] {
			stale = append(stale, p)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range stale {
		if _, err := d.ExecContext(ctx, `DELETE FROM page_tocs WHERE path = ?`, p); err != nil {
			return 0, fmt.Errorf("pruning %s: %w", p, err)
		}
	}
	return len(stale), nil
}

// Build is one recorded site build.
type Build struct {
	ID         string     `json:"id"`
	OutputDir  string     `json:"output_dir"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Pages      int        `json:"pages"`
	Error      string     `json:"error,omitempty"`
}

// StartBuild records the start of a build and returns its id.
func (d *DB) StartBuild(ctx context.Context, outputDir string) (string, error) {
	id := uuid.New().String()

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.ExecContext(ctx,
		`INSERT INTO builds (id, output_dir, started_at) VALUES (?, ?, ?)`,
		id, outputDir, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("recording build: %w", err)
	}
	return id, nil
}

// FinishBuild marks the build as finished with its page count or failure.
func (d *DB) FinishBuild(ctx context.Context, id string, pages int, buildErr error) error {
	msg := ""
	if buildErr != nil {
		msg = buildErr.Error()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	res, err := d.ExecContext(ctx,
		`UPDATE builds SET finished_at = ?, pages = ?, error = ? WHERE id = ?`,
		time.Now().UTC(), pages, msg, id,
	)
	if err != nil {
		return fmt.Errorf("finishing build %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("build %s not found", id)
	}
	return nil
}

// LastBuild returns the most recently started build, or nil if none.
func (d *DB) LastBuild(ctx context.Context) (*Build, error) {
	var b Build
	var finished sql.NullTime
	err := d.QueryRowContext(ctx,
		`SELECT id, output_dir, started_at, finished_at, pages, error
		 FROM builds ORDER BY started_at DESC LIMIT 1`,
	).Scan(&b.ID, &b.OutputDir, &b.StartedAt, &finished, &b.Pages, &b.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading last build: %w", err)
	}
	if finished.Valid {
		b.FinishedAt = &finished.Time
	}
	return &b, nil
}
