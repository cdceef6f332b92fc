package sqlite3

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/k0kubun/xparse/sink"
)

// NewSink opens a SQLite destination using cfg.DSN as the database file path.
func NewSink(cfg sink.Config) (sink.Sink, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	return sink.Open(db, cfg, sink.QuestionPlaceholder), nil
}
