package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"writing_assessor/internal/document"
	"writing_assessor/internal/lexicon"
)

func analyze(t *testing.T, text string) Report {
	t.Helper()
	lex := lexicon.MustDefault()
	doc, err := document.Normalize(text, document.DefaultMinTokens, lex)
	require.NoError(t, err)
	return New(DefaultConfig(), lex).Analyze(doc)
}

func TestShortUniformSentences(t *testing.T) {
	report := analyze(t, "I go. I eat. I sleep.")

	assert.Equal(t, 2.0, report.AvgSentenceLength)
	assert.Zero(t, report.SentenceLengthSD)
	assert.Zero(t, report.SubordinateShare)
	assert.Equal(t, 0.5, report.LexicalDensity)
	assert.InDelta(t, 13.33, report.Score, 0.01)
}

func TestSimpleTextIsCapped(t *testing.T) {
	report := analyze(t, "Because dogs bark, cats run. When birds sing, cats listen.")

	assert.Equal(t, 1.0, report.SubordinateShare)
	assert.Equal(t, 30.0, report.Score)
}

func TestVariedSubordinatedText(t *testing.T) {
	text := "Although urban planning is often regarded as a technical discipline, it is ostensibly a political endeavour. " +
		"Consequently, decisions about housing exacerbate inequalities which remain largely invisible. " +
		"Moreover, the juxtaposition of luxury towers and neglected estates is a quintessential feature of many cities. " +
		"However, some councils have adopted a nuanced approach that seeks to mitigate these pressures.\n\n" +
		"In contrast, critics argue that such measures are perfunctory, because they rarely address the underlying economic forces. " +
		"Nevertheless, the evidence suggests that sustained investment can be transformative. " +
		"Finally, we should recognise that progress is inexorable only when citizens participate."
	report := analyze(t, text)

	assert.InDelta(t, 13.57, report.AvgSentenceLength, 0.01)
	assert.InDelta(t, 4.0/7.0, report.SubordinateShare, 1e-9)
	assert.InDelta(t, 56.0/95.0, report.LexicalDensity, 1e-9)
	assert.InDelta(t, 75.38, report.Score, 0.05)
}

func TestLongerSentencesScoreHigher(t *testing.T) {
	short := analyze(t, "The market opened. People bought fruit. Prices were low.")
	long := analyze(t, "The market opened early on Saturday morning while the traders were still unpacking. "+
		"People who had travelled from nearby villages bought fruit before the prices rose.")

	assert.Greater(t, long.Score, short.Score)
	assert.Greater(t, long.AvgSentenceLength, short.AvgSentenceLength)
}
