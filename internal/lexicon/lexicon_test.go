package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"writing_assessor/internal/cefr"
)

func TestDefaultLexiconCoversEveryLevel(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	for _, level := range cefr.Levels {
		assert.NotEmpty(t, lex.Markers(level), "level %s", level)
	}
	assert.Contains(t, lex.Markers(cefr.C2), "quintessential")
	assert.Contains(t, lex.Markers(cefr.A1), "go")
	assert.Equal(t, []string{"addition", "causal", "contrast", "sequential"}, lex.ConnectiveCategories())
	assert.Contains(t, lex.Connectives("contrast"), "on the other hand")
	assert.Contains(t, lex.Subordinators(), "although")
}

func TestDefaultIsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b := MustDefault()
	assert.Same(t, a, b)
}

func TestAccessorsReturnCopies(t *testing.T) {
	lex := MustDefault()
	markers := lex.Markers(cefr.C2)
	markers[0] = "mutated"
	assert.NotEqual(t, "mutated", lex.Markers(cefr.C2)[0])
}

func TestWordClasses(t *testing.T) {
	lex := MustDefault()
	assert.True(t, lex.IsPronoun("they"))
	assert.False(t, lex.IsPronoun("we"))
	assert.True(t, lex.IsFunctionWord("the"))
	assert.True(t, lex.IsAbbreviation("dr"))
	assert.True(t, lex.IsAbbreviation("e.g."))
	assert.False(t, lex.IsAbbreviation("sleep"))

	assert.True(t, lex.IsContentWord("discipline"))
	assert.False(t, lex.IsContentWord("them"))
	assert.False(t, lex.IsContentWord("2024"))
	assert.True(t, lex.IsContentWord("3d"))
	assert.False(t, lex.IsContentWord(""))
}

func TestParseRejectsInvalidLexicons(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "bad yaml", raw: "levels: [unterminated"},
		{name: "unknown level", raw: "levels:\n  D1: [word]\n"},
		{name: "missing level", raw: "levels:\n  A1: [a]\n  A2: [b]\n  B1: [c]\n  B2: [d]\n  C1: [e]\nconnectives:\n  addition: [also]\n"},
		{name: "duplicate marker", raw: "levels:\n  A1: [a]\n  A2: [b]\n  B1: [c]\n  B2: [d]\n  C1: [e]\n  C2: [a]\nconnectives:\n  addition: [also]\n"},
		{name: "no connectives", raw: "levels:\n  A1: [a]\n  A2: [b]\n  B1: [c]\n  B2: [d]\n  C1: [e]\n  C2: [f]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadFileNormalizesEntries(t *testing.T) {
	raw := `
levels:
  a1: ["  Hello  ", hello]
  A2: [Weekend]
  B1: [opinion]
  B2: [crucial]
  C1: ["In   Light Of"]
  C2: [tacit]
connectives:
  Contrast: [However]
`
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	lex, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, lex.Markers(cefr.A1))
	assert.Equal(t, []string{"in light of"}, lex.Markers(cefr.C1))
	assert.Equal(t, []string{"contrast"}, lex.ConnectiveCategories())
	assert.Equal(t, []string{"however"}, lex.Connectives("contrast"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
