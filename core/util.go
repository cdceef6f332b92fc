package core

// CheckDelim advances past a delimiter at pos, or a run of them when
// IgnoreRepeated is set, without parsing a value. It is the manual companion
// to XParse2: a host that calls XParse2 field-by-field to skip the Delimiter
// layer's framing altogether still needs something to step over the
// separator between fields itself, and this is that something. It returns
// the position unchanged and a zero ReturnCode when pos isn't at a
// delimiter at all.
func CheckDelim(src Source, pos, length int, opts *Options) (int, ReturnCode) {
	delim := opts.delimBytes()
	if len(delim) == 0 {
		return pos, 0
	}

	var code ReturnCode
	for !src.Eof(pos, length) && compareBytes(src, pos, length, delim) {
		pos += len(delim)
		code |= DELIMITED
		if !opts.IgnoreRepeated {
			break
		}
	}
	return pos, code
}

// GetString materializes the substring pl describes out of src into a newly
// allocated string, undoubling escape bytes when pl.Escaped() is set (a run of
// `e e` decodes to one literal `e`; `e` followed by any other byte decodes to
// that byte alone). Every other part of the pipeline works with PosLen instead
// of strings so that a caller who only needs a handful of fields out of a wide
// record never pays for the ones it skips.
func GetString(src Source, pl PosLen, e byte) string {
	n := pl.Len()
	if n == 0 {
		return ""
	}
	buf := make([]byte, 0, n)
	for i := 0; i < n; {
		b := src.Peek(pl.Pos() + i)
		if pl.Escaped() && b == e && i+1 < n {
			i++
			b = src.Peek(pl.Pos() + i)
		}
		buf = append(buf, b)
		i++
	}
	return string(buf)
}
