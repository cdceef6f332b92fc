package main

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/k0kubun/xparse/core"
	"github.com/k0kubun/xparse/core/coretypes"
	"github.com/k0kubun/xparse/internal/util"
	"github.com/k0kubun/xparse/shard"
	"github.com/k0kubun/xparse/sink"
	sinkmysql "github.com/k0kubun/xparse/sink/mysql"
	sinkmssql "github.com/k0kubun/xparse/sink/mssql"
	sinkpostgres "github.com/k0kubun/xparse/sink/postgres"
	sinksqlite3 "github.com/k0kubun/xparse/sink/sqlite3"
)

func main() {
	util.InitSlog()
	opts := parseOptions(os.Args[1:])

	parsed, err := opts.resolve()
	if err != nil {
		log.Fatal(err)
	}

	content, err := readInput(opts.File)
	if err != nil {
		log.Fatalf("failed to read %q: %s", opts.File, err)
	}

	fields, err := run(content, parsed, opts.Concurrency)
	if err != nil {
		log.Fatal(err)
	}

	if opts.DBDSN == "" {
		for _, f := range fields {
			fmt.Println(f)
		}
		return
	}

	if err := load(fields, opts); err != nil {
		log.Fatal(err)
	}
}

// run shards the input's lines across Concurrency workers, each decoding its
// line as one string field with the resolved options. One Source per worker,
// as the core package requires.
func run(content []byte, opts *core.Options, concurrency int) ([]string, error) {
	return shard.ParseLines(content, opts, concurrency, func(src core.Source, pos, length int) ([]string, error) {
		r := core.XParse[core.PosLen](src, pos, length, opts, coretypes.String)
		pl, ok := r.Value()
		if !ok {
			return nil, fmt.Errorf("xparse: cannot parse line (code %s)", r.Code)
		}
		return []string{core.GetString(src, pl, opts.E)}, nil
	})
}

func load(fields []string, opts *cliOptions) error {
	cfg := sink.Config{DSN: opts.DBDSN, Table: opts.DBTable, Columns: []string{"value"}}

	var (
		s   sink.Sink
		err error
	)
	switch opts.DBDriver {
	case "mysql":
		s, err = sinkmysql.NewSink(cfg)
	case "postgres":
		s, err = sinkpostgres.NewSink(cfg)
	case "mssql":
		s, err = sinkmssql.NewSink(cfg)
	case "sqlite3":
		s, err = sinksqlite3.NewSink(cfg)
	default:
		return fmt.Errorf("xparse: unknown db driver %q", opts.DBDriver)
	}
	if err != nil {
		return err
	}
	defer s.Close()

	rows := make([][]any, len(fields))
	for i, f := range fields {
		rows[i] = []any{f}
	}
	return s.Insert(rows)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return nil, fmt.Errorf("stdin is not piped")
		}

		var buf bytes.Buffer
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			buf.Write(scanner.Bytes())
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	}
	return os.ReadFile(path)
}
