package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAnalyzer struct {
	calls       int
	suggestions []string
	err         error
}

func (a *countingAnalyzer) Analyze(ctx context.Context, source string) ([]string, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.suggestions, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCachedAnalyzer_HitSkipsProvider(t *testing.T) {
	next := &countingAnalyzer{suggestions: []string{"use a docstring"}}
	cached, err := NewCachedAnalyzer(next, 8, discardLogger())
	require.NoError(t, err)

	first, err := cached.Analyze(context.Background(), "def f():\n    pass")
	require.NoError(t, err)
	second, err := cached.Analyze(context.Background(), "def f():\n    pass")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
}

func TestCachedAnalyzer_DistinctSourcesMiss(t *testing.T) {
	next := &countingAnalyzer{suggestions: []string{"ok"}}
	cached, err := NewCachedAnalyzer(next, 8, discardLogger())
	require.NoError(t, err)

	_, err = cached.Analyze(context.Background(), "def f():\n    pass")
	require.NoError(t, err)
	_, err = cached.Analyze(context.Background(), "def g():\n    pass")
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestCachedAnalyzer_ErrorsAreNotCached(t *testing.T) {
	next := &countingAnalyzer{err: errors.New("provider down")}
	cached, err := NewCachedAnalyzer(next, 8, discardLogger())
	require.NoError(t, err)

	_, err = cached.Analyze(context.Background(), "def f():\n    pass")
	require.Error(t, err)

	next.err = nil
	next.suggestions = []string{"recovered"}

	suggestions, err := cached.Analyze(context.Background(), "def f():\n    pass")
	require.NoError(t, err)
	assert.Equal(t, []string{"recovered"}, suggestions)
	assert.Equal(t, 2, next.calls)
}

func TestCachedAnalyzer_ReturnedSliceIsIsolated(t *testing.T) {
	next := &countingAnalyzer{suggestions: []string{"original"}}
	cached, err := NewCachedAnalyzer(next, 8, discardLogger())
	require.NoError(t, err)

	first, err := cached.Analyze(context.Background(), "def f():\n    pass")
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := cached.Analyze(context.Background(), "def f():\n    pass")
	require.NoError(t, err)
	assert.Equal(t, []string{"original"}, second)
}
