// Package sink loads parsed records into a destination table, the same way a
// host wires a parsed record to a live database rather than just an in-memory
// value. Each backend subpackage opens its own *sql.DB and shares the
// placeholder/insert-statement bookkeeping implemented here.
package sink

import (
	"database/sql"
	"fmt"
	"strings"
)

// Config addresses one destination table in one database.
type Config struct {
	DSN             string
	Table           string
	Columns         []string
	InsertBatchSize int
}

// Sink is the common shape every backend in this package implements.
type Sink interface {
	DB() *sql.DB
	// Insert writes rows (each one value per Columns entry, in order) to
	// Table, batching InsertBatchSize rows per statement.
	Insert(rows [][]any) error
	Close() error
}

// Open opens db (already sql.Open'd by a backend constructor against its own
// driver) and wraps it with the shared batched-insert logic, parameterized on
// the placeholder style the backend's driver expects.
func Open(db *sql.DB, cfg Config, placeholder func(n int) string) Sink {
	if cfg.InsertBatchSize <= 0 {
		cfg.InsertBatchSize = 500
	}
	return &sink{db: db, cfg: cfg, placeholder: placeholder}
}

type sink struct {
	db          *sql.DB
	cfg         Config
	placeholder func(n int) string
}

func (s *sink) DB() *sql.DB { return s.db }

func (s *sink) Close() error { return s.db.Close() }

func (s *sink) Insert(rows [][]any) error {
	for start := 0; start < len(rows); start += s.cfg.InsertBatchSize {
		end := min(start+s.cfg.InsertBatchSize, len(rows))
		if err := s.insertBatch(rows[start:end]); err != nil {
			return fmt.Errorf("sink: insert into %s: %w", s.cfg.Table, err)
		}
	}
	return nil
}

func (s *sink) insertBatch(rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	query, args := s.buildInsert(rows)
	_, err := s.db.Exec(query, args...)
	return err
}

func (s *sink) buildInsert(rows [][]any) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "insert into %s (%s) values ", s.cfg.Table, strings.Join(s.cfg.Columns, ", "))

	args := make([]any, 0, len(rows)*len(s.cfg.Columns))
	n := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(s.placeholder(n))
			n++
			args = append(args, v)
		}
		b.WriteByte(')')
	}

	return b.String(), args
}

// QuestionPlaceholder is the MySQL/SQLite style: every parameter is "?".
func QuestionPlaceholder(int) string { return "?" }

// DollarPlaceholder is the PostgreSQL style: "$1", "$2", ...
func DollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// AtPlaceholder is the SQL Server style: "@p1", "@p2", ...
func AtPlaceholder(n int) string { return fmt.Sprintf("@p%d", n) }
