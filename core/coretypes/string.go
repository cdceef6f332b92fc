package coretypes

import "github.com/k0kubun/xparse/core"

// String is the canonical Greedy TypeParser: it determines its own field
// boundary rather than relying on the framing layers to find it, walking to
// the close quote (core.FindEndQuoted) when QUOTED is already set on the
// incoming code, or to the next delimiter/newline/EOF (core.FindFieldEnd)
// otherwise. Its value is the grown PosLen itself; callers reify it with
// core.GetString.
func String(src core.Source, pos, length int, b byte, code core.ReturnCode, pl core.PosLen, opts *core.Options) (int, core.ReturnCode, core.PosLen, core.PosLen) {
	var newPos int
	var newCode core.ReturnCode
	if code.Quoted() {
		newPos, newCode, pl = core.FindEndQuoted(src, pos, length, opts, pl)
	} else {
		newPos, newCode, pl = core.FindFieldEnd(src, pos, length, opts, pl)
	}
	code |= newCode
	if !code.Invalid() {
		code |= core.OK
	}
	return newPos, code, pl, pl
}
