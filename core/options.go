package core

import (
	"fmt"
	"sort"
)

// Options is an immutable configuration snapshot shared by every layer of one
// parse. It is built once by NewOptions and never mutated afterward, so it is
// safe to share across goroutines the way a host shards work across workers (see
// the shard package).
type Options struct {
	// Sentinel is nil when sentinel matching is disabled, a non-nil empty slice
	// when an empty field should be treated as missing, or a non-empty set of
	// byte strings sorted longest-first (ties broken by insertion order).
	Sentinel []string

	Wh1, Wh2 byte

	Quoted  bool
	OQ, CQ, E byte

	// Delim is "" for no delimiter, a single byte, or a multi-byte string.
	Delim string

	Decimal byte

	Trues, Falses []string

	DateFormat string

	IgnoreRepeated   bool
	IgnoreEmptyLines bool
	Comment          string

	StripWhitespace bool
	StripQuoted     bool
}

// NewOptions validates and normalizes opts, sorting Sentinel longest-first and
// checking the construction invariants from the spec. It never mutates the input.
func NewOptions(opts Options) (*Options, error) {
	o := opts

	if o.Quoted {
		if o.OQ >= 0x80 || o.CQ >= 0x80 || o.E >= 0x80 {
			return nil, fmt.Errorf("core: oq/cq/e must be ASCII when quoted is enabled")
		}
		if o.Delim != "" {
			for _, b := range []byte{o.OQ, o.CQ, o.E, o.Wh1, o.Wh2} {
				if len(o.Delim) >= 1 && o.Delim[0] == b {
					return nil, fmt.Errorf("core: delim must differ from oq/cq/e/wh1/wh2 when quoted is enabled")
				}
			}
		}
	}

	if o.Sentinel != nil {
		sorted := make([]string, len(o.Sentinel))
		copy(sorted, o.Sentinel)
		sort.SliceStable(sorted, func(i, j int) bool {
			return len(sorted[i]) > len(sorted[j])
		})
		o.Sentinel = sorted

		for _, s := range o.Sentinel {
			if s == "" {
				continue
			}
			if len(s) >= 1 && (s[0] == o.Wh1 || s[0] == o.Wh2) {
				return nil, fmt.Errorf("core: sentinel %q may not begin with wh1/wh2", s)
			}
			if o.Quoted && len(s) >= 1 && (s[0] == o.OQ || s[0] == o.CQ || s[0] == o.E) {
				return nil, fmt.Errorf("core: sentinel %q may not begin with oq/cq/e", s)
			}
			if o.Delim != "" && len(s) >= len(o.Delim) && s[:len(o.Delim)] == o.Delim {
				return nil, fmt.Errorf("core: sentinel %q may not begin with delim", s)
			}
		}
	}

	if o.StripQuoted {
		o.StripWhitespace = true
	}

	return &o, nil
}

// delimBytes returns Delim as a []byte, or nil when no delimiter is configured.
func (o *Options) delimBytes() []byte {
	if o.Delim == "" {
		return nil
	}
	return []byte(o.Delim)
}

func (o *Options) commentBytes() []byte {
	if o.Comment == "" {
		return nil
	}
	return []byte(o.Comment)
}

func isWh(o *Options, b byte) bool { return b == o.Wh1 || b == o.Wh2 }
