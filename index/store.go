// Package index persists extracted documentation in a SQLite database so
// repeated queries (CLI lookups, LSP hovers) do not re-extract unchanged
// files.
package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lexcodex/docmark/engine"
)

// Store wraps the SQLite database holding per-file metadata and doc entries.
type Store struct {
	db *sql.DB
}

// FileRecord is the stored metadata for one indexed file.
type FileRecord struct {
	ID          string
	Path        string
	ContentHash string
	DocCount    int
	IndexedAt   time.Time
}

// Stats aggregates index-wide counts.
type Stats struct {
	TotalFiles       int
	TotalDocs        int
	DocsByVisibility map[string]int
	DatabaseSize     int64
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL UNIQUE,
		content_hash TEXT,
		doc_count INTEGER,
		indexed_at TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS docs (
		id TEXT PRIMARY KEY,
		file_id TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT,
		line INTEGER,
		visibility TEXT,
		text TEXT,
		FOREIGN KEY(file_id) REFERENCES files(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS docs_name ON docs(name);
	CREATE INDEX IF NOT EXISTS docs_file_line ON docs(file_id, line);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// FileID derives the stable identifier for a path.
func FileID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:8])
}

// HashContent returns the content hash used for change detection.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// SaveFile replaces the stored docs for path in one transaction. A file
// whose content hash matches the stored one is skipped.
func (s *Store) SaveFile(path, contentHash string, docs []engine.Doc) error {
	if path == "" {
		return errors.New("path required")
	}
	fileID := FileID(path)

	if existing, err := s.GetFile(path); err == nil && existing != nil {
		if existing.ContentHash == contentHash {
			return nil
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM docs WHERE file_id = ?`, fileID); err != nil {
		return err
	}
	query := `
	INSERT INTO files (id, path, content_hash, doc_count, indexed_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		path=excluded.path,
		content_hash=excluded.content_hash,
		doc_count=excluded.doc_count,
		indexed_at=excluded.indexed_at
	`
	if _, err := tx.Exec(query, fileID, path, contentHash, len(docs), time.Now().UTC()); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO docs (id, file_id, name, kind, line, visibility, text)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, doc := range docs {
		id := fmt.Sprintf("%s:%d:%s", fileID, doc.Line, doc.Name)
		if _, err := stmt.Exec(id, fileID, doc.Name, doc.Kind, doc.Line, doc.VisLabel, doc.Text); err != nil {
			return fmt.Errorf("doc %d (%s): %w", i, doc.Name, err)
		}
	}
	return tx.Commit()
}

// GetFile fetches the metadata stored for path, or nil when absent.
func (s *Store) GetFile(path string) (*FileRecord, error) {
	row := s.db.QueryRow(`SELECT id, path, content_hash, doc_count, indexed_at
		FROM files WHERE path = ?`, path)
	rec := &FileRecord{}
	err := row.Scan(&rec.ID, &rec.Path, &rec.ContentHash, &rec.DocCount, &rec.IndexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteFile removes a file and, via cascade, its docs.
func (s *Store) DeleteFile(path string) error {
	_, err := s.db.Exec(`DELETE FROM files WHERE id = ?`, FileID(path))
	return err
}

// DocsForFile returns the stored docs for path in line order.
func (s *Store) DocsForFile(path string) ([]engine.Doc, error) {
	rows, err := s.db.Query(`SELECT f.path, d.name, d.kind, d.line, d.visibility, d.text
		FROM docs d INNER JOIN files f ON f.id = d.file_id
		WHERE d.file_id = ? ORDER BY d.line`, FileID(path))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocs(rows)
}

// DocQuery filters SearchDocs.
type DocQuery struct {
	NamePattern  string
	Kinds        []string
	Visibilities []string
	Limit        int
}

// SearchDocs queries stored docs.
func (s *Store) SearchDocs(query DocQuery) ([]engine.Doc, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0)
	builder.WriteString(`SELECT f.path, d.name, d.kind, d.line, d.visibility, d.text
		FROM docs d INNER JOIN files f ON f.id = d.file_id WHERE 1=1`)
	if query.NamePattern != "" {
		builder.WriteString(" AND d.name LIKE ?")
		args = append(args, query.NamePattern)
	}
	if len(query.Kinds) > 0 {
		builder.WriteString(" AND d.kind IN (")
		builder.WriteString(placeholders(len(query.Kinds)))
		builder.WriteString(")")
		for _, k := range query.Kinds {
			args = append(args, k)
		}
	}
	if len(query.Visibilities) > 0 {
		builder.WriteString(" AND d.visibility IN (")
		builder.WriteString(placeholders(len(query.Visibilities)))
		builder.WriteString(")")
		for _, v := range query.Visibilities {
			args = append(args, v)
		}
	}
	builder.WriteString(" ORDER BY f.path, d.line")
	if query.Limit > 0 {
		builder.WriteString(fmt.Sprintf(" LIMIT %d", query.Limit))
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocs(rows)
}

// DocAtLine returns the doc entry recorded closest at-or-before line in the
// file, used by hover lookups.
func (s *Store) DocAtLine(path string, line int) (*engine.Doc, error) {
	row := s.db.QueryRow(`SELECT f.path, d.name, d.kind, d.line, d.visibility, d.text
		FROM docs d INNER JOIN files f ON f.id = d.file_id
		WHERE d.file_id = ? AND d.line <= ?
		ORDER BY d.line DESC LIMIT 1`, FileID(path), line)
	doc := engine.Doc{}
	err := row.Scan(&doc.File, &doc.Name, &doc.Kind, &doc.Line, &doc.VisLabel, &doc.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetStats aggregates counts across the index.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{DocsByVisibility: make(map[string]int)}
	s.db.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&stats.TotalFiles)
	s.db.QueryRow(`SELECT COUNT(*) FROM docs`).Scan(&stats.TotalDocs)
	rows, err := s.db.Query(`SELECT visibility, COUNT(*) FROM docs GROUP BY visibility`)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var vis string
			var count int
			rows.Scan(&vis, &count)
			stats.DocsByVisibility[vis] = count
		}
	}
	var pageCount, pageSize int
	s.db.QueryRow(`PRAGMA page_count`).Scan(&pageCount)
	s.db.QueryRow(`PRAGMA page_size`).Scan(&pageSize)
	stats.DatabaseSize = int64(pageCount * pageSize)
	return stats, nil
}

// Vacuum performs database maintenance.
func (s *Store) Vacuum() error {
	_, err := s.db.Exec(`VACUUM`)
	return err
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ",")
}

func scanDocs(rows *sql.Rows) ([]engine.Doc, error) {
	results := make([]engine.Doc, 0)
	for rows.Next() {
		doc := engine.Doc{}
		if err := rows.Scan(&doc.File, &doc.Name, &doc.Kind, &doc.Line, &doc.VisLabel, &doc.Text); err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	return results, rows.Err()
}
