package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"
)

// Document holds the metadata of a corpus document stored in a Store.
type Document struct {
	Id        int
	Name      string
	Runes     int // The number of characters in the document
	Bytes     int // The size of the document in UTF-8 bytes
	UpdatedAt time.Time
}

// SetupSchema initializes the corpus table in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {
	const schemaDocuments = `
CREATE TABLE IF NOT EXISTS corpus_documents (
    document_id INTEGER PRIMARY KEY,
    document_name TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    rune_count INTEGER NOT NULL,
    byte_count INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
`
	if _, err := db.Exec(schemaDocuments); err != nil {
		return fmt.Errorf("could not create corpus schema: %w", err)
	}
	return nil
}

// Store keeps named corpus documents in a SQLite database. It holds prepared
// statements for every query it runs.
type Store struct {
	db          *sql.DB
	stmtGet     *sql.Stmt
	stmtList    *sql.Stmt
	stmtPut     *sql.Stmt
	stmtRemove  *sql.Stmt
	stmtGetMeta *sql.Stmt
	logger      *slog.Logger
}

// NewStore creates a Store on a database that has been set up with
// SetupSchema, returning an error if any statement fails to prepare. On
// failure every statement prepared so far is closed again.
func NewStore(db *sql.DB) (*Store, error) {
	var prepared []*sql.Stmt
	var err error
	prepare := func(query string) *sql.Stmt {
		if err != nil {
			return nil
		}
		var stmt *sql.Stmt
		if stmt, err = db.Prepare(query); err != nil {
			return nil
		}
		prepared = append(prepared, stmt)
		return stmt
	}

	s := &Store{
		db:       db,
		stmtGet:  prepare(`SELECT content FROM corpus_documents WHERE document_name = ?;`),
		stmtList: prepare(`SELECT document_id, document_name, rune_count, byte_count, updated_at FROM corpus_documents ORDER BY document_name;`),
		stmtPut: prepare(`
		INSERT INTO corpus_documents (document_name, content, rune_count, byte_count, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(document_name) DO UPDATE SET content = excluded.content, rune_count = excluded.rune_count,
			byte_count = excluded.byte_count, updated_at = excluded.updated_at
		RETURNING document_id;`),
		stmtRemove:  prepare(`DELETE FROM corpus_documents WHERE document_name = ?;`),
		stmtGetMeta: prepare(`SELECT document_id, rune_count, byte_count, updated_at FROM corpus_documents WHERE document_name = ?;`),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err != nil {
		for _, stmt := range prepared {
			_ = stmt.Close()
		}
		return nil, err
	}
	return s, nil
}

// Close releases all prepared statements held by the Store. The database
// itself is left open.
func (s *Store) Close() {
	_ = s.stmtGet.Close()
	_ = s.stmtList.Close()
	_ = s.stmtPut.Close()
	_ = s.stmtRemove.Close()
	_ = s.stmtGetMeta.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Put reads r and stores it under name, replacing any document with the same
// name.
func (s *Store) Put(ctx context.Context, name string, r io.Reader, opts ...ReadOption) (Document, error) {
	if name == "" {
		return Document{}, fmt.Errorf("document name must not be empty")
	}
	text, err := Read(r, opts...)
	if err != nil {
		return Document{}, fmt.Errorf("could not read document '%s': %w", name, err)
	}

	doc := Document{
		Name:      name,
		Runes:     utf8.RuneCountInString(text),
		Bytes:     len(text),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	err = s.stmtPut.QueryRowContext(ctx, name, text, doc.Runes, doc.Bytes, doc.UpdatedAt.Unix()).Scan(&doc.Id)
	if err != nil {
		return Document{}, fmt.Errorf("could not store document '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Corpus document stored",
		slog.String("document_name", name),
		slog.Int("document_id", doc.Id),
		slog.Int("runes", doc.Runes),
		slog.Int("bytes", doc.Bytes),
	)
	return doc, nil
}

// Get returns the text of the named document. It returns sql.ErrNoRows if no
// such document exists.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	var text string
	if err := s.stmtGet.QueryRowContext(ctx, name).Scan(&text); err != nil {
		return "", err
	}
	return text, nil
}

// Info returns the metadata of the named document. It returns sql.ErrNoRows
// if no such document exists.
func (s *Store) Info(ctx context.Context, name string) (Document, error) {
	doc := Document{Name: name}
	var updated int64
	err := s.stmtGetMeta.QueryRowContext(ctx, name).Scan(&doc.Id, &doc.Runes, &doc.Bytes, &updated)
	if err != nil {
		return Document{}, err
	}
	doc.UpdatedAt = time.Unix(updated, 0).UTC()
	return doc, nil
}

// List returns the metadata of every stored document, ordered by name.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	rows, err := s.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	docs := make([]Document, 0)
	for rows.Next() {
		var doc Document
		var updated int64
		if err = rows.Scan(&doc.Id, &doc.Name, &doc.Runes, &doc.Bytes, &updated); err != nil {
			return nil, err
		}
		doc.UpdatedAt = time.Unix(updated, 0).UTC()
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Remove deletes the named document. It returns an error wrapping
// sql.ErrNoRows if no such document exists.
func (s *Store) Remove(ctx context.Context, name string) error {
	res, err := s.stmtRemove.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove document '%s': %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document '%s': %w", name, sql.ErrNoRows)
	}

	s.logger.InfoContext(ctx, "Corpus document removed", slog.String("document_name", name))
	return nil
}
