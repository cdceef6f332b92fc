package coretypes

import "github.com/k0kubun/xparse/core"

// Int64 is a TypeParser for signed 64-bit integers. It consumes an optional
// leading sign followed by one or more decimal digits, stopping at (without
// consuming) the first byte that is neither, and never touches a trailing
// delimiter, quote, or whitespace — that is the wrapping layers' job.
func Int64(src core.Source, pos, length int, b byte, code core.ReturnCode, pl core.PosLen, opts *core.Options) (int, core.ReturnCode, core.PosLen, int64) {
	neg := false
	if b == '-' || b == '+' {
		neg = b == '-'
		pos++
		src.Advance()
		if src.Eof(pos, length) {
			return pos, code | core.INVALID, pl, 0
		}
		b = src.Peek(pos)
	}

	var acc int64
	digits := 0
	overflow := false
	for !src.Eof(pos, length) && isDigit(b) {
		d := int64(b - '0')
		if acc > (1<<63-1-d)/10 {
			overflow = true
		} else {
			acc = acc*10 + d
		}
		digits++
		pos++
		src.Advance()
		if src.Eof(pos, length) {
			break
		}
		b = src.Peek(pos)
	}

	if digits == 0 {
		return pos, code | core.INVALID, pl, 0
	}
	if neg {
		acc = -acc
	}
	if overflow {
		return pos, code | core.OVERFLOW, pl, 0
	}
	return pos, code | core.OK, pl, acc
}
