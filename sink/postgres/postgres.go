package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/k0kubun/xparse/sink"
)

// NewSink opens a PostgreSQL destination using cfg.DSN verbatim (a lib/pq
// connection string or URL).
func NewSink(cfg sink.Config) (sink.Sink, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}
	return sink.Open(db, cfg, sink.DollarPlaceholder), nil
}
