package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0kubun/xparse/core"
)

func TestRunParsesLinesConcurrently(t *testing.T) {
	opts, err := core.NewOptions(core.Options{Wh1: ' ', Wh2: '\t'})
	require.NoError(t, err)

	fields, err := run([]byte("alice\nbob\ncarol\n"), opts, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, fields)
}

func TestRunReportsBadLine(t *testing.T) {
	opts, err := core.NewOptions(core.Options{Wh1: ' ', Wh2: '\t', Quoted: true, OQ: '"', CQ: '"', E: '"'})
	require.NoError(t, err)

	_, err = run([]byte("\"unterminated"), opts, 1)
	assert.Error(t, err)
}
