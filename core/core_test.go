package core_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0kubun/xparse/core"
	"github.com/k0kubun/xparse/core/coretypes"
)

func csvOptions(t *testing.T, overrides func(*core.Options)) *core.Options {
	t.Helper()
	o := core.Options{
		Wh1:    ' ',
		Wh2:    '\t',
		Quoted: true,
		OQ:     '"',
		CQ:     '"',
		E:      '"',
		Delim:  ",",
	}
	if overrides != nil {
		overrides(&o)
	}
	opts, err := core.NewOptions(o)
	require.NoError(t, err)
	return opts
}

// Scenario 1: "12,34\n", parse int at offset 0 and then offset 3.
func TestXParseIntDelimitedThenNewlineEOF(t *testing.T) {
	opts := csvOptions(t, nil)
	src := core.NewBufferSource([]byte("12,34\n"))

	r1 := core.XParse[int64](src, 0, 6, opts, coretypes.Int64)
	v1, ok := r1.Value()
	require.True(t, ok)
	assert.Equal(t, int64(12), v1)
	assert.Equal(t, 3, r1.TLen)
	assert.True(t, r1.Code.OK())
	assert.True(t, r1.Code.Delimited())

	r2 := core.XParse[int64](src, 3, 6, opts, coretypes.Int64)
	v2, ok := r2.Value()
	require.True(t, ok)
	assert.Equal(t, int64(34), v2)
	assert.Equal(t, 3, r2.TLen)
	assert.True(t, r2.Code.Newline())
	assert.True(t, r2.Code.EOF())
}

// Scenario 2: `"hel""lo",x`, parse string at offset 0.
func TestXParseQuotedEscapedString(t *testing.T) {
	opts := csvOptions(t, nil)
	input := []byte(`"hel""lo",x`)
	src := core.NewBufferSource(input)

	r := core.XParse[core.PosLen](src, 0, len(input), opts, coretypes.String)
	pl, ok := r.Value()
	require.True(t, ok)
	assert.Equal(t, 10, r.TLen)
	assert.True(t, r.Code.Quoted())
	assert.True(t, r.Code.EscapedString())
	assert.True(t, r.Code.Delimited())
	assert.True(t, pl.Escaped())

	decoded := core.GetString(src, pl, opts.E)
	assert.Equal(t, `hel"lo`, decoded)
}

// Scenario 3: "NA,7" with sentinel=["NA"], int type at offset 0.
func TestXParseSentinelMasksValue(t *testing.T) {
	opts := csvOptions(t, func(o *core.Options) { o.Sentinel = []string{"NA"} })
	input := []byte("NA,7")
	src := core.NewBufferSource(input)

	r := core.XParse[int64](src, 0, len(input), opts, coretypes.Int64)
	_, ok := r.Value()
	assert.False(t, ok)
	assert.True(t, r.Code.Sentinel())
	assert.True(t, r.Code.Delimited())
	assert.Equal(t, 3, r.TLen)
}

// Scenario 4: `"unterminated,`, parse string at offset 0.
func TestXParseUnterminatedQuote(t *testing.T) {
	opts := csvOptions(t, nil)
	input := []byte(`"unterminated,`)
	src := core.NewBufferSource(input)

	r := core.XParse[core.PosLen](src, 0, len(input), opts, coretypes.String)
	_, ok := r.Value()
	assert.False(t, ok)
	assert.True(t, r.Code.InvalidQuotedField())
	assert.True(t, r.Code.EOF())
	assert.Equal(t, len(input), r.TLen)
}

// A quoted scalar (non-string-like) value followed by any bytes before the
// real closing quote is invalid, even when those bytes look like a valid
// escaped-quote pair: escaping only has meaning for string content, so for an
// int field `"5"""` is `5` followed by garbage, not `5` followed by a literal
// `"`.
func TestXParseQuotedIntTrailingBytesBeforeCloseQuoteInvalid(t *testing.T) {
	opts := csvOptions(t, nil)
	input := []byte(`"5"""`)
	src := core.NewBufferSource(input)

	r := core.XParse[int64](src, 0, len(input), opts, coretypes.Int64)
	_, ok := r.Value()
	assert.False(t, ok)
	assert.True(t, r.Code.Invalid())
	assert.True(t, r.Code.EOF())
}

// Scenario 5: "   42   ,x" with stripwhitespace=true, int at offset 0.
func TestXParseStripWhitespace(t *testing.T) {
	opts := csvOptions(t, func(o *core.Options) { o.StripWhitespace = true })
	input := []byte("   42   ,x")
	src := core.NewBufferSource(input)

	r := core.XParse[int64](src, 0, len(input), opts, coretypes.Int64)
	v, ok := r.Value()
	require.True(t, ok)
	assert.Equal(t, int64(42), v)
	assert.Equal(t, 9, r.TLen)
	assert.True(t, r.Code.Delimited())
}

// Scenario 6: "1,,,2" with delim=',', ignorerepeated=true.
func TestXParseIgnoreRepeatedDelimiter(t *testing.T) {
	opts := csvOptions(t, func(o *core.Options) { o.IgnoreRepeated = true })
	input := []byte("1,,,2")
	src := core.NewBufferSource(input)

	r1 := core.XParse[int64](src, 0, len(input), opts, coretypes.Int64)
	v1, ok := r1.Value()
	require.True(t, ok)
	assert.Equal(t, int64(1), v1)
	assert.Equal(t, 4, r1.TLen)
	assert.True(t, r1.Code.Delimited())

	r2 := core.XParse[int64](src, 4, len(input), opts, coretypes.Int64)
	v2, ok := r2.Value()
	require.True(t, ok)
	assert.Equal(t, int64(2), v2)
	assert.Equal(t, 1, r2.TLen)
	assert.True(t, r2.Code.EOF())
}

// Scenario 7: "#c\n5", int with comment="#", ignoreemptylines=true at offset 0.
func TestXParseCommentLineSkipped(t *testing.T) {
	opts := csvOptions(t, func(o *core.Options) {
		o.Comment = "#"
		o.IgnoreEmptyLines = true
	})
	input := []byte("#c\n5")
	src := core.NewBufferSource(input)

	r := core.XParse[int64](src, 0, len(input), opts, coretypes.Int64)
	v, ok := r.Value()
	require.True(t, ok)
	assert.Equal(t, int64(5), v)
	assert.Equal(t, 4, r.TLen)
	assert.True(t, r.Code.EOF())
}

// An INVALID value (trailing garbage the int TypeParser can't consume) is
// still masked by a sentinel that matches at least as many bytes as the
// value did, since the sentinel layer clears OK/INVALID/OVERFLOW before
// flagging SENTINEL regardless of what the inner TypeParser returned.
func TestXParseSentinelMasksInvalidValue(t *testing.T) {
	opts := csvOptions(t, func(o *core.Options) { o.Sentinel = []string{"abc"} })
	input := []byte("abc,7")
	src := core.NewBufferSource(input)

	r := core.XParse[int64](src, 0, len(input), opts, coretypes.Int64)
	_, ok := r.Value()
	assert.False(t, ok)
	assert.True(t, r.Code.Sentinel())
	assert.False(t, r.Code.Invalid())
	assert.True(t, r.Code.Delimited())
}

func TestXParse2CondensedPipelineSkipsFraming(t *testing.T) {
	opts := csvOptions(t, nil)
	input := []byte(`"42"`)
	src := core.NewBufferSource(input)

	// XParse2 never looks at quotes: the leading " is simply not a digit.
	r := core.XParse2[int64](src, 0, len(input), opts, coretypes.Int64)
	_, ok := r.Value()
	assert.False(t, ok)
}

func TestOptionsRejectsSentinelPrefixingDelim(t *testing.T) {
	_, err := core.NewOptions(core.Options{
		Wh1: ' ', Wh2: '\t', Delim: ",", Sentinel: []string{",x"},
	})
	assert.Error(t, err)
}

func TestOptionsSortsSentinelsLongestFirst(t *testing.T) {
	opts, err := core.NewOptions(core.Options{
		Wh1: ' ', Wh2: '\t', Delim: ",",
		Sentinel: []string{"N/A", "NA", "NULL"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"NULL", "N/A", "NA"}, opts.Sentinel)
}

func TestPosLenPacking(t *testing.T) {
	pl := core.NewPosLen(10).ExtendTo(17).WithEscaped(true)
	assert.Equal(t, 10, pl.Pos())
	assert.Equal(t, 7, pl.Len())
	assert.Equal(t, 17, pl.End())
	assert.True(t, pl.Escaped())
	assert.False(t, pl.Missing())
}

func TestReturnCodeOKExcludesInvalid(t *testing.T) {
	assert.True(t, (core.OK).OK())
	assert.False(t, (core.OK | core.INVALID).OK())
	assert.True(t, (core.INVALID).Invalid())
	assert.False(t, core.ReturnCode(0).Succeeded())
}

func TestCheckDelimAdvancesPastOneDelimiter(t *testing.T) {
	opts := csvOptions(t, nil)
	src := core.NewBufferSource([]byte(",rest"))

	pos, code := core.CheckDelim(src, 0, 5, opts)
	assert.Equal(t, 1, pos)
	assert.True(t, code.Delimited())
}

func TestCheckDelimConsumesRepeatedRunWhenConfigured(t *testing.T) {
	opts := csvOptions(t, func(o *core.Options) { o.IgnoreRepeated = true })
	src := core.NewBufferSource([]byte(",,,rest"))

	pos, code := core.CheckDelim(src, 0, 7, opts)
	assert.Equal(t, 3, pos)
	assert.True(t, code.Delimited())
}

func TestCheckDelimStopsAtFirstWhenNotIgnoringRepeated(t *testing.T) {
	opts := csvOptions(t, nil)
	src := core.NewBufferSource([]byte(",,,rest"))

	pos, code := core.CheckDelim(src, 0, 7, opts)
	assert.Equal(t, 1, pos)
	assert.True(t, code.Delimited())
}

func TestCheckDelimNoMatchLeavesPosUnchanged(t *testing.T) {
	opts := csvOptions(t, nil)
	src := core.NewBufferSource([]byte("x,rest"))

	pos, code := core.CheckDelim(src, 0, 6, opts)
	assert.Equal(t, 0, pos)
	assert.Equal(t, core.ReturnCode(0), code)
}

func TestStreamSourceMatchesBufferSource(t *testing.T) {
	opts := csvOptions(t, nil)
	buf := []byte(`"hel""lo",99` + "\n")

	bufSrc := core.NewBufferSource(buf)
	rBuf := core.XParse[core.PosLen](bufSrc, 0, len(buf), opts, coretypes.String)

	streamSrc := core.NewStreamSource(newSlowReader(buf))
	rStream := core.XParse[core.PosLen](streamSrc, 0, len(buf), opts, coretypes.String)

	assert.Equal(t, rBuf.Code, rStream.Code)
	assert.Equal(t, rBuf.TLen, rStream.TLen)
}

// slowReader hands back bytes one at a time to exercise StreamSource's fill loop.
type slowReader struct {
	buf []byte
	pos int
}

func newSlowReader(buf []byte) *slowReader { return &slowReader{buf: buf} }

func (r *slowReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	p[0] = r.buf[r.pos]
	r.pos++
	return 1, nil
}
