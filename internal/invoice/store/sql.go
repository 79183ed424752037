package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

// Dialect selects the bind parameter syntax of the driver.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) param(n int) string {
	if d == SQLite {
		return "?"
	}

	return fmt.Sprintf("$%d", n)
}

// documentID is the primary key of the only row the table ever holds.
const documentID = 1

// SQL stores the document as one JSON row.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	return &SQL{db: db, dialect: dialect}
}

// EnsureSchema creates the documents table when it is missing.
func (s *SQL) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}

	return nil
}

func (s *SQL) Load(ctx context.Context) (*invoice.Document, error) {
	query := `SELECT body FROM documents WHERE id = ` + s.dialect.param(1)

	var body string

	err := s.db.QueryRowContext(ctx, query, documentID).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("loading document: %w", err)
	}

	return decode([]byte(body))
}

// Save upserts the single row in one statement.
func (s *SQL) Save(ctx context.Context, doc *invoice.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	query := `
		INSERT INTO documents (id, body, updated_at)
		VALUES (` + s.dialect.param(1) + `, ` + s.dialect.param(2) + `, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, documentID, string(body)); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	return nil
}
