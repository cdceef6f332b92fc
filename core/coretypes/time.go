package coretypes

import (
	"time"

	"github.com/k0kubun/xparse/core"
)

// DefaultDateFormat is used when opts.DateFormat is empty, matching Go's
// reference-time layout convention (Mon Jan 2 15:04:05 MST 2006).
const DefaultDateFormat = "2006-01-02T15:04:05Z07:00"

// Time is a TypeParser for timestamps. It looks at up to len(layout) bytes
// (opts.DateFormat, or DefaultDateFormat) and consumes the longest prefix of
// them that time.Parse accepts, so a value rendered narrower than the layout
// (a "Z" zone, single-digit days/months) still parses; values rendered wider
// than the layout itself are not supported by this reference implementation.
func Time(src core.Source, pos, length int, b byte, code core.ReturnCode, pl core.PosLen, opts *core.Options) (int, core.ReturnCode, core.PosLen, time.Time) {
	layout := opts.DateFormat
	if layout == "" {
		layout = DefaultDateFormat
	}

	n := len(layout)
	buf := make([]byte, 0, n)
	for i := 0; i < n && !src.Eof(pos+i, length); i++ {
		buf = append(buf, src.Peek(pos+i))
	}

	for k := len(buf); k > 0; k-- {
		t, err := time.Parse(layout, string(buf[:k]))
		if err != nil {
			continue
		}
		for i := 0; i < k; i++ {
			src.Advance()
		}
		return pos + k, code | core.OK, pl, t
	}
	return pos, code | core.INVALID, pl, time.Time{}
}
