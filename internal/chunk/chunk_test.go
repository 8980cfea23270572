package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindowCoversEveryToken(t *testing.T) {
	windows := SlidingWindow(5000, 100, 50)
	require.NotEmpty(t, windows)

	covered := make([]bool, 5000)
	for _, w := range windows {
		require.True(t, w.Start >= 0 && w.End <= 5000 && w.Start < w.End, "invalid window bounds: %+v", w)
		assert.Equal(t, 100, w.End-w.Start, "every window should be full size: %+v", w)
		for i := w.Start; i < w.End; i++ {
			covered[i] = true
		}
	}
	for i, ok := range covered {
		require.True(t, ok, "token %d not covered", i)
	}
}

func TestSlidingWindowShortInput(t *testing.T) {
	windows := SlidingWindow(40, 100, 50)
	require.Len(t, windows, 1)
	assert.Equal(t, Window{Index: 0, Start: 0, End: 40}, windows[0])
}

func TestSlidingWindowTailIsFullSize(t *testing.T) {
	windows := SlidingWindow(130, 100, 50)
	require.Len(t, windows, 2)
	assert.Equal(t, 0, windows[0].Start)
	assert.Equal(t, 30, windows[1].Start)
	assert.Equal(t, 130, windows[1].End)
}

func TestSlidingWindowDegenerateArguments(t *testing.T) {
	assert.Nil(t, SlidingWindow(10, 0, 0))
	assert.Nil(t, SlidingWindow(0, 10, 0))

	windows := SlidingWindow(20, 5, 9)
	require.NotEmpty(t, windows)
	assert.Equal(t, 20, windows[len(windows)-1].End)
}

func TestWindowTokens(t *testing.T) {
	tokens := []string{"a", "b", "c", "d"}
	w := Window{Start: 1, End: 3}
	assert.Equal(t, []string{"b", "c"}, w.Tokens(tokens))
}
