package coretypes

import "github.com/k0kubun/xparse/core"

var defaultTrues = []string{"true", "True", "TRUE", "1"}
var defaultFalses = []string{"false", "False", "FALSE", "0"}

// Bool is a TypeParser for booleans. It matches the longest configured
// opts.Trues/opts.Falses token at the current position (falling back to the
// common true/false/1/0 spellings when neither is configured) and consumes
// exactly that token.
func Bool(src core.Source, pos, length int, b byte, code core.ReturnCode, pl core.PosLen, opts *core.Options) (int, core.ReturnCode, core.PosLen, bool) {
	trues, falses := opts.Trues, opts.Falses
	if trues == nil && falses == nil {
		trues, falses = defaultTrues, defaultFalses
	}

	if n, ok := matchLongest(src, pos, length, trues); ok {
		return pos + n, code | core.OK, pl, true
	}
	if n, ok := matchLongest(src, pos, length, falses); ok {
		return pos + n, code | core.OK, pl, false
	}
	return pos, code | core.INVALID, pl, false
}

func matchLongest(src core.Source, pos, length int, tokens []string) (int, bool) {
	best := -1
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if matchesAt(src, pos, length, t) && len(t) > best {
			best = len(t)
		}
	}
	if best < 0 {
		return 0, false
	}
	for i := 0; i < best; i++ {
		src.Advance()
	}
	return best, true
}

func matchesAt(src core.Source, pos, length int, want string) bool {
	for i := 0; i < len(want); i++ {
		p := pos + i
		if src.Eof(p, length) || src.Peek(p) != want[i] {
			return false
		}
	}
	return true
}
