package mssql

import (
	"database/sql"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/k0kubun/xparse/sink"
)

// NewSink opens a SQL Server destination using cfg.DSN verbatim (the
// go-mssqldb "sqlserver://" URL form).
func NewSink(cfg sink.Config) (sink.Sink, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}
	return sink.Open(db, cfg, sink.AtPlaceholder), nil
}
