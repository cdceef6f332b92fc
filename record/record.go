// Package record provides the high-level convenience wrappers the core
// pipeline deliberately leaves out: Parse/TryParse around a single value with
// no surrounding record structure, and a generic string-to-T fallback for
// types that don't get a dedicated TypeParser.
package record

import (
	"fmt"

	"github.com/k0kubun/xparse/core"
)

// ParseError is returned by Parse when the field failed to parse or left
// trailing bytes unconsumed.
type ParseError struct {
	Fragment string
	Target   string
	Code     core.ReturnCode
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record: cannot parse %q as %s (code %s)", e.Fragment, e.Target, e.Code)
}

// Parse runs the condensed pipeline (xparse2) over the whole of buf and
// returns an error if the value did not parse cleanly or left trailing bytes.
func Parse[T any](buf []byte, opts *core.Options, tp core.TypeParser[T]) (T, error) {
	src := core.NewBufferSource(buf)
	r := core.XParse2[T](src, 0, len(buf), opts, tp)
	v, ok := r.Value()
	if !ok || r.TLen != len(buf) {
		var zero T
		return zero, &ParseError{Fragment: string(buf), Target: fmt.Sprintf("%T", v), Code: r.Code}
	}
	return v, nil
}

// TryParse is Parse without the error: it reports false instead of failing.
func TryParse[T any](buf []byte, opts *core.Options, tp core.TypeParser[T]) (T, bool) {
	src := core.NewBufferSource(buf)
	r := core.XParse2[T](src, 0, len(buf), opts, tp)
	v, ok := r.Value()
	if !ok || r.TLen != len(buf) {
		var zero T
		return zero, false
	}
	return v, true
}

// ParseConvert is the generic fallback described by the core TypeParser
// contract: it captures the field's raw text via the greedy string pipeline
// (core.XParse with coretypes.String, so quoting/delimiters/whitespace are
// still honored) and hands the decoded substring to a host-supplied
// string-to-T converter. It is how a host adds a type the core has no
// built-in TypeParser for, without writing its own Source-level scanner.
func ParseConvert[T any](src core.Source, pos, length int, opts *core.Options, stringTP core.TypeParser[core.PosLen], convert func(string) (T, error)) (int, core.ReturnCode, T, error) {
	r := core.XParse[core.PosLen](src, pos, length, opts, stringTP)
	pl, ok := r.Value()
	if !ok {
		var zero T
		return pos + r.TLen, r.Code, zero, fmt.Errorf("record: field is not a parsable string (code %s)", r.Code)
	}
	text := core.GetString(src, pl, opts.E)
	v, err := convert(text)
	if err != nil {
		var zero T
		return pos + r.TLen, r.Code, zero, &ParseError{Fragment: text, Target: fmt.Sprintf("%T", v), Code: r.Code}
	}
	return pos + r.TLen, r.Code, v, nil
}
