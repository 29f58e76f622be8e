package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("123", "456789012345678901")
	require.NoError(t, err)
	assert.Equal(t, []int64{123, 456789012345678901}, ids)

	_, err = parseIDs("123", "not-a-snowflake")
	assert.Error(t, err)
}
