package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/san-kum/burnsim/internal/ballistics"
)

// createdLayout sorts lexically in time order.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite keeps the whole catalog in one database file, one row per run with
// metadata and trace stored as JSON blobs.
type SQLite struct {
	db   *sql.DB
	path string
}

func NewSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = "burnsim.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) Init() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		metadata BLOB NOT NULL,
		trace BLOB NOT NULL
	)`); err != nil {
		return fmt.Errorf("create runs table: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Save(meta RunMetadata, result *ballistics.Result) (string, error) {
	meta = complete(meta, result)

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	traceJSON, err := json.Marshal(result.Snapshots)
	if err != nil {
		return "", err
	}

	if _, err := s.db.Exec(`INSERT INTO runs(id, created_at, metadata, trace) VALUES(?,?,?,?)`,
		meta.ID, meta.Timestamp.UTC().Format(createdLayout), metaJSON, traceJSON); err != nil {
		return "", fmt.Errorf("insert run %s: %w", meta.ID, err)
	}
	return meta.ID, nil
}

func (s *SQLite) List() ([]RunMetadata, error) {
	rows, err := s.db.Query(`SELECT metadata FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var meta RunMetadata
		if err := json.Unmarshal(payload, &meta); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (s *SQLite) Load(runID string) (*RunMetadata, error) {
	var payload []byte
	if err := s.db.QueryRow(`SELECT metadata FROM runs WHERE id = ?`, runID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(payload, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &meta, nil
}

func (s *SQLite) LoadTrace(runID string) ([]ballistics.Snapshot, error) {
	var payload []byte
	if err := s.db.QueryRow(`SELECT trace FROM runs WHERE id = ?`, runID).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var snapshots []ballistics.Snapshot
	if err := json.Unmarshal(payload, &snapshots); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return snapshots, nil
}

// DB exposes the underlying sql.DB for tests.
func (s *SQLite) DB() *sql.DB { return s.db }

func (s *SQLite) Path() string { return s.path }
