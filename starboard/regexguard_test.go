package starboard

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardMatches(t *testing.T) {
	g := NewGuard(time.Second)

	matched, err := g.Matches("hello world", `^hello`)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = g.Matches("goodbye", `^hello`)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestGuardInvalidPattern(t *testing.T) {
	g := NewGuard(time.Second)

	_, err := g.Matches("anything", `[unclosed`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPatternTimeout)
}

func TestGuardTimeout(t *testing.T) {
	g := NewGuard(time.Nanosecond)

	// Large enough that the scan cannot finish before the timer fires.
	text := strings.Repeat("a", 8<<20)
	_, err := g.Matches(text, `a*b`)
	assert.ErrorIs(t, err, ErrPatternTimeout)
}

func TestGuardCachesCompiledPatterns(t *testing.T) {
	g := NewGuard(time.Second)

	_, err := g.Matches("abc", `abc`)
	require.NoError(t, err)

	g.mu.Lock()
	_, cached := g.compiled[`abc`]
	g.mu.Unlock()
	assert.True(t, cached)
}
