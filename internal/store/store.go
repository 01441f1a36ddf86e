// Package store is the SQLite build cache: compiled artifacts and their
// symbols, keyed by source content hash.
package store

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the build cache.
type Store struct {
	db *sql.DB
}

// File is a source file known to the cache.
type File struct {
	ID           int64
	Path         string
	Hash         string
	LastCompiled time.Time
}

// Artifact is the C source generated for a file at a given content hash.
type Artifact struct {
	ID        int64
	FileID    int64
	CSource   string
	CHash     string
	CreatedAt time.Time
}

// Symbol is a top-level name defined by a compiled file.
type Symbol struct {
	Name  string
	Kind  string
	Arity int
}

// FileSymbol is a symbol joined with the path of its defining file.
type FileSymbol struct {
	Path string
	Symbol
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  hash            TEXT NOT NULL,
  last_compiled   TIMESTAMP
);

CREATE TABLE IF NOT EXISTS artifacts (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  c_source        TEXT NOT NULL,
  c_hash          TEXT NOT NULL,
  created_at      TIMESTAMP
);

CREATE TABLE IF NOT EXISTS symbols (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  name            TEXT NOT NULL,
  kind            TEXT NOT NULL,
  arity           INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_artifacts_file ON artifacts(file_id);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
`

// HashBytes returns the sha256 hex digest used as the cache key for source
// and artifact contents.
func HashBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// SaveCompilation records a successful compilation: upserts the file row and
// replaces its artifact and symbols in one transaction.
func (s *Store) SaveCompilation(path, hash, cSource string, syms []Symbol) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save compilation: begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.Exec(`
		INSERT INTO files (path, hash, last_compiled) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, last_compiled = excluded.last_compiled`,
		path, hash, now); err != nil {
		return fmt.Errorf("save compilation: upsert file: %w", err)
	}

	// LastInsertId is unreliable after an upsert that took the update arm;
	// read the id back instead.
	var fileID int64
	if err := tx.QueryRow(`SELECT id FROM files WHERE path = ?`, path).Scan(&fileID); err != nil {
		return fmt.Errorf("save compilation: file id: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM artifacts WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("save compilation: clear artifacts: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM symbols WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("save compilation: clear symbols: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO artifacts (file_id, c_source, c_hash, created_at) VALUES (?, ?, ?, ?)`,
		fileID, cSource, HashBytes([]byte(cSource)), now); err != nil {
		return fmt.Errorf("save compilation: insert artifact: %w", err)
	}
	for _, sym := range syms {
		if _, err := tx.Exec(`INSERT INTO symbols (file_id, name, kind, arity) VALUES (?, ?, ?, ?)`,
			fileID, sym.Name, sym.Kind, sym.Arity); err != nil {
			return fmt.Errorf("save compilation: insert symbol %s: %w", sym.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save compilation: commit: %w", err)
	}
	return nil
}

// Lookup returns the cached artifact for path when the stored hash matches
// hash. The bool result reports a cache hit.
func (s *Store) Lookup(path, hash string) (*Artifact, bool, error) {
	var a Artifact
	var storedHash string
	err := s.db.QueryRow(`
		SELECT f.hash, a.id, a.file_id, a.c_source, a.c_hash, a.created_at
		FROM files f JOIN artifacts a ON a.file_id = f.id
		WHERE f.path = ?`, path).
		Scan(&storedHash, &a.ID, &a.FileID, &a.CSource, &a.CHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup %s: %w", path, err)
	}
	if storedHash != hash {
		return nil, false, nil
	}
	return &a, true, nil
}

// FileByPath returns the file row for path, or nil when unknown.
func (s *Store) FileByPath(path string) (*File, error) {
	var f File
	err := s.db.QueryRow(`SELECT id, path, hash, last_compiled FROM files WHERE path = ?`, path).
		Scan(&f.ID, &f.Path, &f.Hash, &f.LastCompiled)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path %s: %w", path, err)
	}
	return &f, nil
}

// SymbolsByPath returns the symbols recorded for path in insertion order.
func (s *Store) SymbolsByPath(path string) ([]Symbol, error) {
	rows, err := s.db.Query(`
		SELECT sym.name, sym.kind, sym.arity
		FROM symbols sym JOIN files f ON sym.file_id = f.id
		WHERE f.path = ?
		ORDER BY sym.id`, path)
	if err != nil {
		return nil, fmt.Errorf("symbols by path %s: %w", path, err)
	}
	defer rows.Close()

	var out []Symbol
	for rows.Next() {
		var sym Symbol
		if err := rows.Scan(&sym.Name, &sym.Kind, &sym.Arity); err != nil {
			return nil, fmt.Errorf("symbols by path %s: scan: %w", path, err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// AllSymbols returns every cached symbol with its file path, ordered by path
// then definition order.
func (s *Store) AllSymbols() ([]FileSymbol, error) {
	rows, err := s.db.Query(`
		SELECT f.path, sym.name, sym.kind, sym.arity
		FROM symbols sym JOIN files f ON sym.file_id = f.id
		ORDER BY f.path, sym.id`)
	if err != nil {
		return nil, fmt.Errorf("all symbols: %w", err)
	}
	defer rows.Close()

	var out []FileSymbol
	for rows.Next() {
		var row FileSymbol
		if err := rows.Scan(&row.Path, &row.Name, &row.Kind, &row.Arity); err != nil {
			return nil, fmt.Errorf("all symbols: scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
