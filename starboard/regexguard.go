package starboard

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"
)

// ErrPatternTimeout is returned when a pattern match exceeds the guard's
// wall-clock bound. User-supplied patterns must not be able to stall the
// event pipeline.
var ErrPatternTimeout = errors.New("pattern match timed out")

// Guard runs regex matches under a hard time limit and caches compiled
// patterns. Safe for concurrent use.
type Guard struct {
	timeout time.Duration

	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
}

// NewGuard creates a guard with the given per-match time limit.
func NewGuard(timeout time.Duration) *Guard {
	if timeout <= 0 {
		timeout = 100 * time.Millisecond
	}
	return &Guard{
		timeout:  timeout,
		compiled: make(map[string]*regexp.Regexp),
	}
}

// Matches reports whether pattern matches text. Returns ErrPatternTimeout if
// the match does not finish within the guard's bound; the match goroutine is
// abandoned and finishes on its own.
func (g *Guard) Matches(text, pattern string) (bool, error) {
	re, err := g.compile(pattern)
	if err != nil {
		return false, err
	}

	done := make(chan bool, 1)
	go func() {
		done <- re.MatchString(text)
	}()

	select {
	case matched := <-done:
		return matched, nil
	case <-time.After(g.timeout):
		return false, ErrPatternTimeout
	}
}

func (g *Guard) compile(pattern string) (*regexp.Regexp, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if re, ok := g.compiled[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	g.compiled[pattern] = re
	return re, nil
}
