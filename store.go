package hws

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so updated_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps a SQLite database holding the editor's namespace documents.
// It implements editor.Storage.
type Store struct {
	db *sql.DB
}

// Namespace is one stored document.
type Namespace struct {
	Name      string
	Size      int
	UpdatedAt time.Time
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the public page read while the editor writes; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS namespaces (
    name TEXT PRIMARY KEY,
    data BLOB NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

// Get returns the document stored under ns, or nil when there is none.
func (s *Store) Get(ns string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM namespaces WHERE name = ?`, ns).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hws: get %s: %w", ns, err)
	}
	return data, nil
}

// Put stores data under ns. The modification time only moves when the
// document actually changes.
func (s *Store) Put(ns string, data []byte) error {
	_, err := s.db.Exec(`
INSERT INTO namespaces (name, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
WHERE namespaces.data != excluded.data
`, ns, data, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("hws: put %s: %w", ns, err)
	}
	return nil
}

// Delete removes ns. Deleting a missing namespace is not an error.
func (s *Store) Delete(ns string) error {
	if _, err := s.db.Exec(`DELETE FROM namespaces WHERE name = ?`, ns); err != nil {
		return fmt.Errorf("hws: delete %s: %w", ns, err)
	}
	return nil
}

// Namespaces lists the stored documents by name.
func (s *Store) Namespaces() ([]Namespace, error) {
	rows, err := s.db.Query(`SELECT name, length(data), updated_at FROM namespaces ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("hws: list namespaces: %w", err)
	}
	defer rows.Close()
	var out []Namespace
	for rows.Next() {
		var (
			n       Namespace
			updated string
		)
		if err := rows.Scan(&n.Name, &n.Size, &updated); err != nil {
			return nil, err
		}
		n.UpdatedAt, _ = time.Parse(timeLayout, updated)
		out = append(out, n)
	}
	return out, rows.Err()
}

// LastModified returns the most recent write time, or the zero time for an
// empty store.
func (s *Store) LastModified() (time.Time, error) {
	var updated sql.NullString
	if err := s.db.QueryRow(`SELECT MAX(updated_at) FROM namespaces`).Scan(&updated); err != nil {
		return time.Time{}, fmt.Errorf("hws: last modified: %w", err)
	}
	if !updated.Valid {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, updated.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("hws: last modified: %w", err)
	}
	return t, nil
}
