package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"writing_assessor/internal/document"
	"writing_assessor/internal/lexicon"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("housing ", n)) + "."
}

func score(t *testing.T, text string, ctx Context) (Report, bool) {
	t.Helper()
	lex := lexicon.MustDefault()
	doc, err := document.Normalize(text, document.DefaultMinTokens, lex)
	require.NoError(t, err)
	return New(DefaultConfig(), lex).Score(doc, ctx)
}

func TestNotApplicableWithoutTarget(t *testing.T) {
	_, ok := score(t, words(10), Context{TargetPrompt: "Describe your town."})
	assert.False(t, ok)
}

func TestLengthFit(t *testing.T) {
	tests := []struct {
		name   string
		words  int
		target int
		want   float64
	}{
		{name: "short", words: 95, target: 100, want: 95},
		{name: "on target", words: 100, target: 100, want: 100},
		{name: "within tolerance", words: 150, target: 100, want: 100},
		{name: "overrun", words: 190, target: 100, want: 60},
		{name: "far overrun", words: 95, target: 20, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, ok := score(t, words(tt.words), Context{TargetPromptWordCount: tt.target})
			require.True(t, ok)
			assert.InDelta(t, tt.want, report.Score, 1e-9)
			assert.Nil(t, report.Coverage)
		})
	}
}

func TestPromptCoverageIsBlended(t *testing.T) {
	text := "Urban housing is expensive. Many families cannot find flats near their work."
	report, ok := score(t, text, Context{TargetPromptWordCount: 13, TargetPrompt: "Discuss urban housing policy."})
	require.True(t, ok)

	require.NotNil(t, report.Coverage)
	assert.Equal(t, 0.5, *report.Coverage)
	assert.Equal(t, 100.0, report.LengthFit)
	assert.InDelta(t, 80.0, report.Score, 1e-9)
}

func TestPromptWithoutContentWordsFallsBackToLength(t *testing.T) {
	report, ok := score(t, words(50), Context{TargetPromptWordCount: 100, TargetPrompt: "What do you do?"})
	require.True(t, ok)
	assert.Nil(t, report.Coverage)
	assert.Equal(t, 50.0, report.Score)
}
