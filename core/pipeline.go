package core

// This file implements the seven-layer pipeline as a chain of plain generic
// functions, each calling the next by name rather than through an interface or a
// stored closure, so every instantiation for a given {T, inner TypeParser} is a
// monomorphized, inlinable call graph with no virtual dispatch in the hot path.
//
// Composition order (outermost first), per the spec:
//
//	Result ← Delimiter ← EmptySentinel ← Whitespace ← Quoted ← Whitespace ← Sentinel ← TypeParser

func zeroVal[T any]() T {
	var z T
	return z
}

// XParse runs the full pipeline: Result wraps Delimiter wraps EmptySentinel wraps
// Whitespace wraps Quoted wraps Whitespace wraps Sentinel wraps the TypeParser tp.
func XParse[T any](src Source, pos, length int, opts *Options, tp TypeParser[T]) Result[T] {
	start := pos
	// A field may open with a run of comment/blank lines left over from the
	// previous record's newline — e.g. the very first field of a stream that
	// begins with a comment line. Mid-delimiter transitions within one record
	// are covered by the Delimiter layer's own post-newline check instead.
	pos = checkCommentAndEmptyLines(src, pos, length, opts)
	pl := NewPosLen(pos)
	endPos, code, pl, val := delimiterLayer(src, pos, length, opts, tp, pl)
	return Result[T]{Code: code, TLen: endPos - start, Val: val, valid: code.OK()}
}

// XParse2 runs the condensed pipeline used by the non-delimited high-level parse
// path: Result wraps Sentinel wraps the TypeParser tp. No quoting, whitespace
// stripping, or delimiter/newline framing is applied.
func XParse2[T any](src Source, pos, length int, opts *Options, tp TypeParser[T]) Result[T] {
	start := pos
	pl := NewPosLen(pos)
	endPos, code, pl, val := sentinelLayer(src, pos, length, opts, tp, pl, 0)
	return Result[T]{Code: code, TLen: endPos - start, Val: val, valid: code.OK()}
}

// --- Layer: Delimiter -------------------------------------------------------

func delimiterLayer[T any](src Source, pos, length int, opts *Options, tp TypeParser[T], pl PosLen) (int, ReturnCode, PosLen, T) {
	pos, code, pl, val := emptySentinelLayer(src, pos, length, opts, tp, pl)
	if code.Delimited() || code.EOF() {
		return pos, code, pl, val
	}
	return findDelimiter(src, pos, length, opts, code, pl, val)
}

func findDelimiter[T any](src Source, pos, length int, opts *Options, code ReturnCode, pl PosLen, val T) (int, ReturnCode, PosLen, T) {
	delim := opts.delimBytes()
	greedy := stringLike[T]()

	for {
		if src.Eof(pos, length) {
			code |= EOF
			return pos, code, pl, val
		}

		if len(delim) == 1 && !opts.IgnoreRepeated {
			if src.Peek(pos) == delim[0] {
				pos++
				src.Advance()
				code |= DELIMITED
				return pos, code, pl, val
			}
		} else if len(delim) > 1 && !opts.IgnoreRepeated {
			if compareBytes(src, pos, length, delim) {
				pos += len(delim)
				code |= DELIMITED
				return pos, code, pl, val
			}
		} else if len(delim) == 1 && opts.IgnoreRepeated {
			consumed := false
			for !src.Eof(pos, length) {
				b := src.Peek(pos)
				if b == delim[0] {
					pos++
					src.Advance()
					consumed = true
					continue
				}
				if b == '\n' || b == '\r' {
					pos = consumeNewline(src, pos, length)
					pos = checkCommentAndEmptyLines(src, pos, length, opts)
					code |= NEWLINE
					consumed = true
					break
				}
				break
			}
			if consumed {
				if src.Eof(pos, length) {
					code |= EOF
				} else {
					code |= DELIMITED
				}
				return pos, code, pl, val
			}
		} else if len(delim) > 1 && opts.IgnoreRepeated {
			consumed := false
			for !src.Eof(pos, length) {
				if compareBytes(src, pos, length, delim) {
					pos += len(delim)
					consumed = true
					continue
				}
				b := src.Peek(pos)
				if b == '\n' || b == '\r' {
					pos = consumeNewline(src, pos, length)
					pos = checkCommentAndEmptyLines(src, pos, length, opts)
					code |= NEWLINE
					consumed = true
					break
				}
				break
			}
			if consumed {
				if src.Eof(pos, length) {
					code |= EOF
				} else {
					code |= DELIMITED
				}
				return pos, code, pl, val
			}
		}

		// No delimiter matched this iteration: check for a lone newline.
		if !src.Eof(pos, length) {
			b := src.Peek(pos)
			if b == '\n' || b == '\r' {
				pos = consumeNewline(src, pos, length)
				pos = checkCommentAndEmptyLines(src, pos, length, opts)
				code |= NEWLINE
				if src.Eof(pos, length) {
					code |= EOF
				}
				return pos, code, pl, val
			}
		}

		code |= INVALID_DELIMITER

		if greedy {
			strip := opts.StripWhitespace
			b := src.Peek(pos)
			pos++
			src.Advance()
			if !(strip && isWh(opts, b)) {
				pl = pl.ExtendTo(pos)
			}
		} else {
			pos++
			src.Advance()
		}
	}
}

// consumeNewline advances past one LF, CR, or CRLF sequence at pos.
func consumeNewline(src Source, pos, length int) int {
	b := src.Peek(pos)
	pos++
	src.Advance()
	if b == '\r' && !src.Eof(pos, length) && src.Peek(pos) == '\n' {
		pos++
		src.Advance()
	}
	return pos
}

// checkCommentAndEmptyLines repeatedly consumes a configured comment-to-EOL run
// and/or a blank line, until neither applies in one iteration.
func checkCommentAndEmptyLines(src Source, pos, length int, opts *Options) int {
	for {
		progressed := false

		if opts.IgnoreEmptyLines && !src.Eof(pos, length) {
			b := src.Peek(pos)
			if b == '\n' {
				pos++
				src.Advance()
				progressed = true
			} else if b == '\r' {
				next := pos + 1
				if !src.Eof(next, length) && src.Peek(next) == '\n' {
					pos += 2
					src.Advance()
					src.Advance()
				} else {
					pos++
					src.Advance()
				}
				progressed = true
			}
		}

		comment := opts.commentBytes()
		if len(comment) > 0 && compareBytes(src, pos, length, comment) {
			pos += len(comment)
			for !src.Eof(pos, length) {
				b := src.Peek(pos)
				pos++
				src.Advance()
				if b == '\n' {
					break
				}
				if b == '\r' {
					if !src.Eof(pos, length) && src.Peek(pos) == '\n' {
						pos++
						src.Advance()
					}
					break
				}
			}
			progressed = true
		}

		if !progressed {
			return pos
		}
	}
}

// --- Layer: EmptySentinel ---------------------------------------------------

func emptySentinelLayer[T any](src Source, pos, length int, opts *Options, tp TypeParser[T], pl PosLen) (int, ReturnCode, PosLen, T) {
	if src.Eof(pos, length) {
		switch {
		case opts.Sentinel != nil && len(opts.Sentinel) == 0:
			pl = pl.WithMissing(true)
			return pos, SENTINEL | EOF, pl, zeroVal[T]()
		case opts.Sentinel == nil:
			return pos, INVALID | EOF, pl, zeroVal[T]()
		}
	}

	start := pos
	pos, code, pl, val := whitespaceOuterLayer(src, pos, length, opts, tp, pl)

	if opts.Sentinel != nil && pos == start {
		pl = pl.WithMissing(true)
		code = code.clearValue() | SENTINEL
	}
	return pos, code, pl, val
}

// --- Layer: Whitespace (outer, wraps Quoted) --------------------------------

func whitespaceOuterLayer[T any](src Source, pos, length int, opts *Options, tp TypeParser[T], pl PosLen) (int, ReturnCode, PosLen, T) {
	for !src.Eof(pos, length) && isWh(opts, src.Peek(pos)) {
		pos++
		src.Advance()
		if opts.StripWhitespace {
			pl = pl.WithPos(pos)
		}
	}
	if src.Eof(pos, length) {
		return pos, INVALID | EOF, pl, zeroVal[T]()
	}

	pos, code, pl, val := quotedLayer(src, pos, length, opts, tp, pl)

	greedy := stringLike[T]()
	stripTrailing := !code.EOF() && (!greedy || (greedy && code.Quoted() && code.EscapedString()))
	if stripTrailing {
		for !src.Eof(pos, length) && isWh(opts, src.Peek(pos)) {
			pos++
			src.Advance()
		}
	}
	return pos, code, pl, val
}

// --- Layer: Quoted -----------------------------------------------------------

// quotedLayer detects an open quote and, for non-string-like inner types, finds
// the matching close quote itself via closeQuoteScanner. String-like inner
// types are trusted to have walked all the way to (and past) the close quote
// themselves via FindEndQuoted, since only the TypeParser knows where its own
// value content ends versus begins; quotedLayer only ever lends it the QUOTED
// bit through the threaded-through code parameter.
func quotedLayer[T any](src Source, pos, length int, opts *Options, tp TypeParser[T], pl PosLen) (int, ReturnCode, PosLen, T) {
	if !opts.Quoted || src.Eof(pos, length) || src.Peek(pos) != opts.OQ {
		return whitespaceInnerLayer(src, pos, length, opts, tp, pl, 0)
	}

	pos++
	src.Advance()
	code := QUOTED
	pl = pl.WithPos(pos)

	if src.Eof(pos, length) {
		return pos, code | INVALID_QUOTED_FIELD | EOF, pl, zeroVal[T]()
	}

	pos, code, pl, val := whitespaceInnerLayer(src, pos, length, opts, tp, pl, code)

	if stringLike[T]() && code.Quoted() {
		return pos, code, pl, val
	}
	if code.EOF() {
		return pos, code | INVALID_QUOTED_FIELD, pl, val
	}

	pos, code, pl = closeQuoteScanner(src, pos, length, opts, code, pl)
	return pos, code, pl, val
}

// closeQuoteScanner implements §4.4's close-quote scanner for non-string-like
// inner types: it walks forward from just past the scalar value to the real
// closing quote. A scalar value has nothing legitimate to say between itself
// and that closing quote, so any byte found there is a problem: first tracks
// whether the scanner is still looking at the very first byte past the value,
// and the scan is only clean (no INVALID) when the real close quote is that
// first byte. An escape sequence (cq-doubling when same, or a distinct escape
// byte otherwise) always means there was more than just the closing quote, so
// it is flagged INVALID immediately rather than waited out.
func closeQuoteScanner(src Source, pos, length int, opts *Options, code ReturnCode, pl PosLen) (int, ReturnCode, PosLen) {
	same := opts.CQ == opts.E
	first := true

	for {
		if src.Eof(pos, length) {
			return pos, code | INVALID_QUOTED_FIELD | EOF, pl
		}
		b := src.Peek(pos)

		if same && b == opts.CQ {
			pos++
			src.Advance()
			if !src.Eof(pos, length) && src.Peek(pos) == opts.CQ {
				code |= INVALID | ESCAPED_STRING
				pl = pl.WithEscaped(true)
				pos++
				src.Advance()
				first = false
				continue
			}
			if !first {
				code |= INVALID
			}
			return pos, code, pl
		}

		if !same && b == opts.E {
			pos++
			src.Advance()
			if src.Eof(pos, length) {
				return pos, code | INVALID_QUOTED_FIELD | EOF, pl
			}
			code |= INVALID | ESCAPED_STRING
			pl = pl.WithEscaped(true)
			pos++
			src.Advance()
			first = false
			continue
		}

		if b == opts.CQ {
			pos++
			src.Advance()
			if !first {
				code |= INVALID
			}
			return pos, code, pl
		}

		code |= INVALID
		pos++
		src.Advance()
		first = false
	}
}

// FindEndQuoted is the string-like counterpart of closeQuoteScanner, exported
// for use by Greedy TypeParsers (see coretypes): it grows pl to cover every
// scanned byte (honoring StripQuoted at the trailing edge) instead of flagging
// stray bytes as invalid, since any byte is valid content inside a quoted
// string.
func FindEndQuoted(src Source, pos, length int, opts *Options, pl PosLen) (int, ReturnCode, PosLen) {
	var code ReturnCode
	same := opts.CQ == opts.E

	for {
		if src.Eof(pos, length) {
			return pos, code | INVALID_QUOTED_FIELD | EOF, pl
		}
		b := src.Peek(pos)

		if same && b == opts.CQ {
			pos++
			src.Advance()
			if !src.Eof(pos, length) && src.Peek(pos) == opts.CQ {
				code |= ESCAPED_STRING
				pl = pl.WithEscaped(true)
				pl = pl.ExtendTo(pos + 1)
				pos++
				src.Advance()
				continue
			}
			return pos, code, pl
		}

		if !same && b == opts.E {
			pos++
			src.Advance()
			if src.Eof(pos, length) {
				return pos, code | INVALID_QUOTED_FIELD | EOF, pl
			}
			code |= ESCAPED_STRING
			pl = pl.WithEscaped(true)
			pl = pl.ExtendTo(pos + 1)
			pos++
			src.Advance()
			continue
		}

		if b == opts.CQ {
			pos++
			src.Advance()
			return pos, code, pl
		}

		if !(opts.StripQuoted && isWh(opts, b)) {
			pl = pl.ExtendTo(pos + 1)
		}
		pos++
		src.Advance()
	}
}

// FindFieldEnd is the unquoted counterpart of FindEndQuoted: it grows pl up to
// (but not past) the next delimiter match, newline, or EOF, for use by a
// Greedy TypeParser when QUOTED is not set. The caller (quotedLayer's sibling
// path and ultimately the Delimiter layer) consumes the delimiter/newline
// itself; FindFieldEnd stops right before it.
func FindFieldEnd(src Source, pos, length int, opts *Options, pl PosLen) (int, ReturnCode, PosLen) {
	delim := opts.delimBytes()
	var code ReturnCode

	for {
		if src.Eof(pos, length) {
			return pos, code | EOF, pl
		}
		if len(delim) > 0 && compareBytes(src, pos, length, delim) {
			return pos, code, pl
		}
		b := src.Peek(pos)
		if b == '\n' || b == '\r' {
			return pos, code, pl
		}
		if !(opts.StripWhitespace && isWh(opts, b)) {
			pl = pl.ExtendTo(pos + 1)
		}
		pos++
		src.Advance()
	}
}

// --- Layer: Whitespace (inner, wraps Sentinel) ------------------------------

func whitespaceInnerLayer[T any](src Source, pos, length int, opts *Options, tp TypeParser[T], pl PosLen, code ReturnCode) (int, ReturnCode, PosLen, T) {
	for !src.Eof(pos, length) && isWh(opts, src.Peek(pos)) {
		pos++
		src.Advance()
		if opts.StripQuoted {
			pl = pl.WithPos(pos)
		}
	}
	if src.Eof(pos, length) {
		return pos, code | INVALID | EOF, pl, zeroVal[T]()
	}

	pos, code, pl, val := sentinelLayer(src, pos, length, opts, tp, pl, code)

	greedy := stringLike[T]()
	stripTrailing := !code.EOF() && (!greedy || (greedy && code.Quoted() && code.EscapedString()))
	if stripTrailing {
		for !src.Eof(pos, length) && isWh(opts, src.Peek(pos)) {
			pos++
			src.Advance()
		}
	}
	return pos, code, pl, val
}

// --- Layer: Sentinel ----------------------------------------------------------

func sentinelLayer[T any](src Source, pos, length int, opts *Options, tp TypeParser[T], pl PosLen, code ReturnCode) (int, ReturnCode, PosLen, T) {
	sentinelPos := 0
	if opts.Sentinel != nil {
		for _, s := range opts.Sentinel {
			if s == "" {
				continue
			}
			if compareBytes(src, pos, length, []byte(s)) {
				sentinelPos = pos + len(s)
				break
			}
		}
	}

	if src.Eof(pos, length) {
		return pos, code | INVALID | EOF, pl, zeroVal[T]()
	}
	b := src.Peek(pos)
	endPos, code, pl, val := tp(src, pos, length, b, code, pl, opts)

	if opts.Sentinel != nil && sentinelPos > 0 && sentinelPos >= endPos {
		code = code.clearValue() | SENTINEL
		pl = pl.WithMissing(true)
		endPos = sentinelPos
		if src.Eof(endPos, length) {
			code |= EOF
		}
	}

	return endPos, code, pl, val
}
