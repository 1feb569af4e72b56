// Package store handles SQLite persistence of generated passages.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/hippotype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// DefaultLimit is the number of passages kept per domain.
const DefaultLimit = 200

// timeLayout is fixed width so created_at sorts as text in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNoPassage is returned when no cached passage matches.
var ErrNoPassage = errors.New("no cached passage")

// Store wraps SQLite access for the passage cache.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passages (
			id INTEGER PRIMARY KEY,
			domain TEXT NOT NULL,
			text TEXT NOT NULL,
			topic TEXT NOT NULL,
			model TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_passages_domain_created ON passages(domain, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SavePassage stores a generated passage and returns its id.
func (s *Store) SavePassage(ctx context.Context, p model.Passage) (int64, error) {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO passages (domain, text, topic, model, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(p.Domain),
		p.Text,
		p.Topic,
		p.Model,
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RandomPassage returns a random cached passage for the domain.
func (s *Store) RandomPassage(ctx context.Context, domain model.Domain) (model.Passage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, domain, text, topic, model, created_at
		FROM passages
		WHERE domain = ?
		ORDER BY RANDOM()
		LIMIT 1`, string(domain))

	var p model.Passage
	var dom, createdAt string
	if err := row.Scan(&p.ID, &dom, &p.Text, &p.Topic, &p.Model, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Passage{}, ErrNoPassage
		}
		return model.Passage{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Passage{}, err
	}
	p.Domain = model.Domain(dom)
	p.CreatedAt = parsed
	return p, nil
}

// CountPassages returns the number of cached passages. An empty domain counts all.
func (s *Store) CountPassages(ctx context.Context, domain model.Domain) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM passages WHERE (? = '' OR domain = ?)`,
		string(domain), string(domain)).Scan(&n)
	return n, err
}

// Prune deletes the oldest passages of a domain beyond keep and returns the
// number removed.
func (s *Store) Prune(ctx context.Context, domain model.Domain, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM passages
		WHERE domain = ? AND id NOT IN (
			SELECT id FROM passages
			WHERE domain = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)`, string(domain), string(domain), keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
