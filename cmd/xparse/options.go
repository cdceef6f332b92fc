package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/k0kubun/pp/v3"
	"golang.org/x/term"

	"github.com/k0kubun/xparse/config"
	"github.com/k0kubun/xparse/core"
)

// cliOptions is the flag-level shape; it holds string/byte overrides of the
// fields core.Options needs as real bytes, the same split a YAML Profile
// does in the config package.
type cliOptions struct {
	Delim            string `long:"delim" description:"Field delimiter" value-name:"char" default:","`
	Quoted           bool   `long:"quoted" description:"Enable quoted-field handling"`
	OQ               string `long:"oq" description:"Open-quote byte" value-name:"char" default:"\""`
	CQ               string `long:"cq" description:"Close-quote byte" value-name:"char" default:"\""`
	E                string `long:"escape" description:"Escape byte" value-name:"char" default:"\""`
	Wh1              string `long:"wh1" description:"First whitespace byte"`
	Wh2              string `long:"wh2" description:"Second whitespace byte"`
	Comment          string `long:"comment" description:"Comment-line prefix"`
	IgnoreRepeated   bool   `long:"ignore-repeated" description:"Treat repeated delimiters as one"`
	IgnoreEmptyLines bool   `long:"ignore-empty-lines" description:"Skip blank lines instead of yielding empty records"`
	StripWhitespace  bool   `long:"strip-whitespace" description:"Strip leading/trailing whitespace from fields"`
	Sentinel         []string `long:"sentinel" description:"Value(s) treated as missing, e.g. NA"`
	Config           string `long:"config" description:"YAML file overriding all of the above"`
	Concurrency      int    `long:"concurrency" description:"Worker count for sharded parsing" default:"4"`
	DBDSN            string `long:"db-dsn" description:"Destination DSN; selects a live sink instead of stdout"`
	DBDriver         string `long:"db-driver" description:"Destination driver (mysql, postgres, mssql, sqlite3)" default:"sqlite3"`
	DBTable          string `long:"db-table" description:"Destination table name"`
	PasswordPrompt   bool   `long:"password-prompt" description:"Prompt for a DSN password instead of embedding one"`
	Debug            bool   `long:"debug" description:"Pretty-print the resolved options before running"`
	Help             bool   `long:"help" description:"Show this help"`
	Version          bool   `long:"version" description:"Show this version"`

	File string
}

var version string

func parseOptions(args []string) *cliOptions {
	var opts cliOptions

	p := flags.NewParser(&opts, flags.None)
	p.Usage = "[options] input_file"
	rest, err := p.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if opts.Help {
		p.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if opts.PasswordPrompt {
		fmt.Print("Enter Password: ")
		pass, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println()
		opts.DBDSN = strings.Replace(opts.DBDSN, "$PASSWORD", string(pass), 1)
	}

	if len(rest) == 0 {
		opts.File = "-"
	} else {
		opts.File = rest[0]
	}

	return &opts
}

// resolve builds a validated core.Options, letting --config win over the
// individual flags when given: with --config set, the file is loaded via
// config.Load and every other parsing flag is ignored.
func (o *cliOptions) resolve() (*core.Options, error) {
	if o.Config != "" {
		return config.Load(o.Config)
	}

	byteOf := func(s string) byte {
		if s == "" {
			return 0
		}
		return s[0]
	}

	var sentinel []string
	if len(o.Sentinel) > 0 {
		sentinel = o.Sentinel
	}

	resolved, err := core.NewOptions(core.Options{
		Delim:            o.Delim,
		Quoted:           o.Quoted,
		OQ:               byteOf(o.OQ),
		CQ:               byteOf(o.CQ),
		E:                byteOf(o.E),
		Wh1:              byteOf(o.Wh1),
		Wh2:              byteOf(o.Wh2),
		Comment:          o.Comment,
		IgnoreRepeated:   o.IgnoreRepeated,
		IgnoreEmptyLines: o.IgnoreEmptyLines,
		StripWhitespace:  o.StripWhitespace,
		Sentinel:         sentinel,
	})
	if err != nil {
		return nil, fmt.Errorf("xparse: %w", err)
	}

	if o.Debug {
		pp.Println(resolved)
	}
	return resolved, nil
}
