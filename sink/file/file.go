// Package file is the pseudo-sink used for dry runs and tests: it writes
// parsed rows as delimited text instead of loading them into a live database.
package file

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
)

type FileSink struct {
	w      *bufio.Writer
	closer io.Closer
	delim  string
}

// NewSink opens path for writing (truncating it) and returns a FileSink that
// joins each row's values with delim.
func NewSink(path string, delim string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{w: bufio.NewWriter(f), closer: f, delim: delim}, nil
}

func (s *FileSink) DB() *sql.DB { return nil }

func (s *FileSink) Insert(rows [][]any) error {
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = fmt.Sprint(v)
		}
		if _, err := fmt.Fprintln(s.w, strings.Join(fields, s.delim)); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.closer.Close()
}
