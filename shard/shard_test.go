package shard_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0kubun/xparse/core"
	"github.com/k0kubun/xparse/core/coretypes"
	"github.com/k0kubun/xparse/record"
	"github.com/k0kubun/xparse/shard"
)

func TestConcurrentPreservesOrder(t *testing.T) {
	inputs := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	out, err := shard.Concurrent(inputs, 4, func(in int) (int, error) {
		return in * in, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 4, 9, 16, 25, 36, 49, 64, 81}, out)
}

func TestConcurrentPropagatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	_, err := shard.Concurrent([]int{1, 2, 3}, 2, func(in int) (int, error) {
		if in == 2 {
			return 0, boom
		}
		return in, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestConcurrentZeroLimitRunsSequentially(t *testing.T) {
	out, err := shard.Concurrent([]int{1, 2, 3}, 0, func(in int) (int, error) {
		return in + 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, out)
}

func opts(t *testing.T) *core.Options {
	t.Helper()
	o, err := core.NewOptions(core.Options{Wh1: ' ', Wh2: '\t', Delim: ","})
	require.NoError(t, err)
	return o
}

// TestConcurrentParsesLines shards a batch of pre-split text lines across
// workers, the way a host would use shard.Concurrent to drive many
// Source-owning workers over record.Parse/core.XParse in parallel, and checks
// that one unparsable line ("abc") fails the whole batch with a nil result.
func TestConcurrentParsesLines(t *testing.T) {
	lines := [][]byte{[]byte("10"), []byte("20"), []byte("30"), []byte("abc")}

	out, err := shard.Concurrent(lines, 3, func(line []byte) (int64, error) {
		return record.Parse(line, opts(t), coretypes.Int64)
	})

	require.Error(t, err)
	assert.Nil(t, out)
}

func TestParseLinesSplitsAndFlattens(t *testing.T) {
	data := []byte("1,2\n3,4\n5,6\n")
	o := opts(t)

	parseOne := func(src core.Source, pos, length int) ([]int64, error) {
		var fields []int64
		for {
			r := core.XParse2[int64](src, pos, length, o, coretypes.Int64)
			v, ok := r.Value()
			if !ok {
				return nil, fmt.Errorf("bad field (code %s)", r.Code)
			}
			fields = append(fields, v)
			pos += r.TLen

			var code core.ReturnCode
			pos, code = core.CheckDelim(src, pos, length, o)
			if !code.Delimited() {
				break
			}
		}
		return fields, nil
	}

	out, err := shard.ParseLines(data, o, 2, parseOne)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, out)
}

func TestParseLinesSkipsCommentAndBlankLines(t *testing.T) {
	o, err := core.NewOptions(core.Options{Wh1: ' ', Wh2: '\t', Comment: "#", IgnoreEmptyLines: true})
	require.NoError(t, err)

	data := []byte("# a header comment\n10\n\n20\n")
	parseOne := func(src core.Source, pos, length int) ([]int64, error) {
		r := core.XParse2[int64](src, pos, length, o, coretypes.Int64)
		v, ok := r.Value()
		if !ok {
			return nil, fmt.Errorf("bad field (code %s)", r.Code)
		}
		return []int64{v}, nil
	}

	out, err := shard.ParseLines(data, o, 1, parseOne)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, out)
}
