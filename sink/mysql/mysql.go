package mysql

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"github.com/k0kubun/xparse/sink"
)

// NewSink opens a MySQL destination using cfg.DSN verbatim (the
// go-sql-driver/mysql DSN format, user:pass@tcp(host:port)/dbname).
func NewSink(cfg sink.Config) (sink.Sink, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, err
	}
	return sink.Open(db, cfg, sink.QuestionPlaceholder), nil
}
