// Package history keeps a SQLite log of analysis runs so an agent can see
// how the graph evolved over a session. The log is best effort: a history
// failure never fails the analysis that produced it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded analysis run.
type Entry struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	SourceLabel string    `json:"source_label"`
	SourceHash  string    `json:"source_hash"`
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
	CycleCount  int       `json:"cycle_count"`
	OrphanCount int       `json:"orphan_count"`
}

type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TIMESTAMP NOT NULL,
		source_label TEXT NOT NULL,
		source_hash TEXT NOT NULL,
		node_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		cycle_count INTEGER NOT NULL,
		orphan_count INTEGER NOT NULL
	);`)
	return err
}

// Record appends one analysis run. CreatedAt defaults to now when unset.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses
			(created_at, source_label, source_hash, node_count, edge_count, cycle_count, orphan_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.CreatedAt, e.SourceLabel, e.SourceHash,
		e.NodeCount, e.EdgeCount, e.CycleCount, e.OrphanCount)
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source_label, source_hash,
		        node_count, edge_count, cycle_count, orphan_count
		 FROM analyses ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.SourceLabel, &e.SourceHash,
			&e.NodeCount, &e.EdgeCount, &e.CycleCount, &e.OrphanCount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
