package coretypes

import (
	"strconv"

	"github.com/k0kubun/xparse/core"
)

// Float64 is a TypeParser for IEEE-754 double-precision floats. It scans
// forward over the longest run of bytes that could plausibly form a float
// literal (sign, digits, opts.Decimal, exponent marker and sign), then hands
// the captured text to strconv.ParseFloat — this is a reference
// implementation, not a Ryu-grade formatter/parser pair.
func Float64(src core.Source, pos, length int, b byte, code core.ReturnCode, pl core.PosLen, opts *core.Options) (int, core.ReturnCode, core.PosLen, float64) {
	start := pos

	if b == '-' || b == '+' {
		pos++
		src.Advance()
	}
	sawDigit := false
	for !src.Eof(pos, length) && isDigit(src.Peek(pos)) {
		sawDigit = true
		pos++
		src.Advance()
	}
	if !src.Eof(pos, length) && src.Peek(pos) == opts.Decimal {
		pos++
		src.Advance()
		for !src.Eof(pos, length) && isDigit(src.Peek(pos)) {
			sawDigit = true
			pos++
			src.Advance()
		}
	}
	if !sawDigit {
		return pos, code | core.INVALID, pl, 0
	}
	if !src.Eof(pos, length) {
		e := src.Peek(pos)
		if e == 'e' || e == 'E' {
			save := pos
			pos++
			src.Advance()
			if !src.Eof(pos, length) && (src.Peek(pos) == '-' || src.Peek(pos) == '+') {
				pos++
				src.Advance()
			}
			expDigits := false
			for !src.Eof(pos, length) && isDigit(src.Peek(pos)) {
				expDigits = true
				pos++
				src.Advance()
			}
			if !expDigits {
				pos = save
			}
		}
	}

	text := make([]byte, 0, pos-start)
	for i := start; i < pos; i++ {
		ch := src.Peek(i)
		if ch == opts.Decimal && ch != '.' {
			ch = '.'
		}
		text = append(text, ch)
	}

	v, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return pos, code | core.OVERFLOW, pl, v
		}
		return pos, code | core.INVALID, pl, 0
	}
	return pos, code | core.OK, pl, v
}
