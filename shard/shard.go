// Package shard implements the host-side concurrency model the core pipeline
// leaves external: a parser is single-threaded and synchronous, so wide
// inputs are handled by sharding across workers, one Source per worker, with
// the immutable Options record shared read-only across all of them.
package shard

import (
	"bytes"

	"golang.org/x/sync/errgroup"

	"github.com/k0kubun/xparse/core"
	"github.com/k0kubun/xparse/internal/util"
)

// Concurrent runs f over every input, at most concurrency at a time (0 means
// sequential, negative means unbounded), and returns outputs in input order.
// Every input's index is known up front, so each worker writes its own result
// straight into its own slot of a preallocated slice instead of reporting
// back through a channel to be sorted afterward — concurrent writes to
// disjoint indices of the same slice need no further synchronization. Every
// worker still runs to completion (the group carries no context to cancel);
// the first error any of them returned is the one reported.
func Concurrent[Tin any, Tout any](inputs []Tin, concurrency int, f func(Tin) (Tout, error)) ([]Tout, error) {
	eg := errgroup.Group{}
	switch {
	case concurrency == 0:
		eg.SetLimit(1)
	case concurrency > 0:
		eg.SetLimit(concurrency)
	}

	out := make([]Tout, len(inputs))
	for i, in := range inputs {
		i, in := i, in
		eg.Go(func() error {
			v, err := f(in)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseLines splits data into newline-aligned byte ranges, hands each range to
// its own worker as an exclusively-owned core.Source, and flattens the
// per-line results back into one slice in line order. parseOne is free to
// pull as many fields out of its line as it likes (e.g. by alternating
// core.XParse2 with core.CheckDelim to step over the separator between
// fields) — whatever it returns for a line is appended to the overall result
// in order.
func ParseLines[T any](data []byte, opts *core.Options, concurrency int, parseOne func(src core.Source, pos, length int) ([]T, error)) ([]T, error) {
	lines := util.TransformSlice(splitLines(data), trimNewline)
	lines = dropSkippedLines(lines, opts)

	perLine, err := Concurrent(lines, concurrency, func(line []byte) ([]T, error) {
		src := core.NewBufferSource(line)
		return parseOne(src, 0, len(line))
	})
	if err != nil {
		return nil, err
	}

	var out []T
	for _, fields := range perLine {
		out = append(out, fields...)
	}
	return out, nil
}

// splitLines slices data into ranges ending just after each '\n' (the final
// range may be unterminated), without copying any bytes.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, data[start:i+1])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}

func trimNewline(line []byte) []byte {
	return bytes.TrimSuffix(bytes.TrimSuffix(line, []byte("\n")), []byte("\r"))
}

// dropSkippedLines filters out whole lines that opts says never reach a
// TypeParser at all — blank lines when IgnoreEmptyLines is set, and
// comment-prefixed lines — so a worker is never spun up just to discover its
// line was going to be skipped anyway.
func dropSkippedLines(lines [][]byte, opts *core.Options) [][]byte {
	comment := []byte(opts.Comment)
	kept := lines[:0]
	for _, line := range lines {
		if opts.IgnoreEmptyLines && len(line) == 0 {
			continue
		}
		if len(comment) > 0 && bytes.HasPrefix(line, comment) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}
