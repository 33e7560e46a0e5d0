package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the durable storage-port implementation. Documents and
// collection rows are stored as JSON text, keyed by tenant and path.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// A single connection serializes transactions, which keeps UpdateDoc
	// atomic without SQLITE_BUSY handling.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("ping failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	if err := createTables(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("create tables failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			uid  TEXT NOT NULL,
			path TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (uid, path)
		);
		CREATE TABLE IF NOT EXISTS collections (
			seq  INTEGER PRIMARY KEY AUTOINCREMENT,
			uid  TEXT NOT NULL,
			col  TEXT NOT NULL,
			data TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_collections_uid_col ON collections (uid, col);
	`)
	return err
}

func (s *SQLiteStore) GetDoc(uid, path string, out interface{}) error {
	var data string
	err := s.db.QueryRow(
		`SELECT data FROM documents WHERE uid = ? AND path = ?`, uid, path,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), out)
}

func (s *SQLiteStore) SetDoc(uid, path string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO documents (uid, path, data) VALUES (?, ?, ?)
		 ON CONFLICT (uid, path) DO UPDATE SET data = excluded.data`,
		uid, path, string(raw),
	)
	return err
}

// UpdateDoc runs fn inside an immediate transaction so the read and the
// write of one document cannot interleave with another writer.
func (s *SQLiteStore) UpdateDoc(uid, path string, fn func(raw []byte) (interface{}, error)) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var current []byte
	var data string
	err = tx.QueryRow(
		`SELECT data FROM documents WHERE uid = ? AND path = ?`, uid, path,
	).Scan(&data)
	switch {
	case err == sql.ErrNoRows:
		current = nil
	case err != nil:
		return err
	default:
		current = []byte(data)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO documents (uid, path, data) VALUES (?, ?, ?)
		 ON CONFLICT (uid, path) DO UPDATE SET data = excluded.data`,
		uid, path, string(raw),
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListDocs(uid, prefix string) ([][]byte, error) {
	rows, err := s.db.Query(
		`SELECT data FROM documents WHERE uid = ? AND path LIKE ? ORDER BY path`,
		uid, prefix+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([][]byte, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		out = append(out, []byte(data))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AppendDoc(uid, collection string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO collections (uid, col, data) VALUES (?, ?, ?)`,
		uid, collection, string(raw),
	)
	return err
}

func (s *SQLiteStore) ListCollection(uid, collection string) ([][]byte, error) {
	rows, err := s.db.Query(
		`SELECT data FROM collections WHERE uid = ? AND col = ? ORDER BY seq`,
		uid, collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([][]byte, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		out = append(out, []byte(data))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return errors.New("store already closed")
	}
	err := s.db.Close()
	s.db = nil
	return err
}
