package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"writing_assessor/internal/lexicon"
)

func TestNormalizeSplitsSentencesAndTokens(t *testing.T) {
	doc, err := Normalize("I go. I eat! Do I sleep?", DefaultMinTokens, nil)
	require.NoError(t, err)

	require.Len(t, doc.Sentences, 3)
	assert.Equal(t, "I go.", doc.Sentences[0].Text)
	assert.Equal(t, ".", doc.Sentences[0].Terminal)
	assert.Equal(t, "!", doc.Sentences[1].Terminal)
	assert.Equal(t, "?", doc.Sentences[2].Terminal)
	assert.Equal(t, []string{"Do", "I", "sleep"}, doc.Sentences[2].Tokens)
	assert.Equal(t, []string{"do", "i", "sleep"}, doc.Sentences[2].Lower)
	assert.Equal(t, 7, doc.WordCount)
	assert.Equal(t, 24, doc.CharCount)
	assert.Equal(t, 1, doc.Paragraphs)
	assert.Equal(t, doc.Tokens, []string{"I", "go", "I", "eat", "Do", "I", "sleep"})
}

func TestNormalizeKeepsAbbreviationsAndInitials(t *testing.T) {
	text := "Dr. Smith met J. Brown at 3.30 in the afternoon. They discussed fruit, e.g. apples and pears."
	doc, err := Normalize(text, DefaultMinTokens, lexicon.MustDefault())
	require.NoError(t, err)

	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, "Dr. Smith met J. Brown at 3.30 in the afternoon.", doc.Sentences[0].Text)
	assert.Contains(t, doc.Sentences[0].Tokens, "3")
}

func TestNormalizeCapitalLetterBeforeNewSentence(t *testing.T) {
	lex := lexicon.MustDefault()

	doc, err := Normalize("We chose plan B. It was cheaper than plan A. Everyone agreed with me.", DefaultMinTokens, lex)
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 3)
	assert.Equal(t, "We chose plan B.", doc.Sentences[0].Text)
	assert.Equal(t, "It was cheaper than plan A.", doc.Sentences[1].Text)

	doc, err = Normalize("J. K. Rowling wrote it. Readers loved it.", DefaultMinTokens, lex)
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 2)
	assert.Equal(t, "J. K. Rowling wrote it.", doc.Sentences[0].Text)

	doc, err = Normalize("The answer was C. Then we moved on.", DefaultMinTokens, lex)
	require.NoError(t, err)
	assert.Len(t, doc.Sentences, 2)

	doc, err = Normalize("Our team finished in group D.", DefaultMinTokens, lex)
	require.NoError(t, err)
	assert.Len(t, doc.Sentences, 1)
	assert.Equal(t, ".", doc.Sentences[0].Terminal)
}

func TestSentenceFindCountsEveryOccurrence(t *testing.T) {
	doc, err := Normalize("In light of this, quintessential ideas stay quintessential in light of change.", DefaultMinTokens, nil)
	require.NoError(t, err)
	s := doc.Sentences[0]

	assert.Equal(t, []int{4, 7}, s.Find("quintessential"))
	assert.Equal(t, []int{0, 8}, s.Find("in light of"))
	assert.Nil(t, s.Find("light in"))
	assert.Nil(t, s.Find(""))
}

func TestNormalizeWithoutAbbreviationListSplitsOnDr(t *testing.T) {
	doc, err := Normalize("Dr. Smith arrived late today.", DefaultMinTokens, nil)
	require.NoError(t, err)
	assert.Len(t, doc.Sentences, 2)
}

func TestNormalizePronounIIsNotAnInitial(t *testing.T) {
	doc, err := Normalize("She left before I. Then we ate dinner.", DefaultMinTokens, nil)
	require.NoError(t, err)
	assert.Len(t, doc.Sentences, 2)
}

func TestNormalizeParagraphsAndUnterminatedText(t *testing.T) {
	text := "First paragraph has one sentence.\r\n\r\nSecond paragraph starts here. It ends without a stop"
	doc, err := Normalize(text, DefaultMinTokens, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Paragraphs)
	require.Len(t, doc.Sentences, 3)
	assert.Equal(t, 0, doc.Sentences[0].Paragraph)
	assert.Equal(t, 1, doc.Sentences[1].Paragraph)
	assert.Equal(t, "", doc.Sentences[2].Terminal)
	assert.Equal(t, 2, doc.Sentences[2].Index)
}

func TestNormalizeFoldsCurlyApostrophes(t *testing.T) {
	doc, err := Normalize("She doesn’t like the city’s noise.", DefaultMinTokens, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"she", "doesn't", "like", "the", "city's", "noise"}, doc.Lower)
}

func TestSentenceHasMatchesWholePhrases(t *testing.T) {
	doc, err := Normalize("On the other hand, the otherwise calm sea was rough.", DefaultMinTokens, nil)
	require.NoError(t, err)
	s := doc.Sentences[0]

	assert.True(t, s.Has("on the other hand"))
	assert.True(t, s.Has("sea"))
	assert.False(t, s.Has("hand the other"))
	assert.False(t, s.Has("wise"))
}

func TestNormalizeRejectsShortInput(t *testing.T) {
	for _, text := range []string{"", "   ", "Hi", "Hi there", "!!! ???"} {
		_, err := Normalize(text, DefaultMinTokens, nil)
		var tooShort *InputTooShortError
		require.True(t, errors.As(err, &tooShort), "text %q: %v", text, err)
		assert.Equal(t, DefaultMinTokens, tooShort.Min)
	}
}

func TestNormalizeRejectsUnsupportedContent(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "digits only", text: "123 456 789 1011"},
		{name: "cyrillic", text: "Привет как дела сегодня друг"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.text, DefaultMinTokens, nil)
			var unsupported *UnsupportedContentError
			require.True(t, errors.As(err, &unsupported), "got %v", err)
			assert.NotEmpty(t, unsupported.Reason)
		})
	}
}

func TestNormalizeMinTokensFloor(t *testing.T) {
	doc, err := Normalize("Hi", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.WordCount)

	_, err = Normalize("one two three four", 5, nil)
	var tooShort *InputTooShortError
	require.ErrorAs(t, err, &tooShort)
	assert.Equal(t, 4, tooShort.Tokens)
	assert.Equal(t, "input too short: 4 tokens, need at least 5", err.Error())
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"write", "about", "your", "city's", "parks"}, Words("Write about your city’s parks!"))
	assert.Empty(t, Words(" ... "))
}
