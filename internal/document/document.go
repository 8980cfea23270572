// Package document turns raw submitted text into the tokenized, sentence-split
// form every analyzer works on.
package document

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)
	sentenceEnd    = regexp.MustCompile(`[.!?]+["'”)\]]*(?:\s+|$)`)
	wordPattern    = regexp.MustCompile(`[\p{L}\p{N}]+(?:'[\p{L}\p{N}]+)*`)
	apostrophes    = strings.NewReplacer("’", "'", "‘", "'", "\r\n", "\n", "\r", "\n")
)

// DefaultMinTokens is the token floor below which a text is not scored.
const DefaultMinTokens = 3

type Sentence struct {
	Index     int
	Paragraph int
	// Text is the raw sentence including its terminal punctuation.
	Text   string
	Tokens []string
	Lower  []string
	// Terminal is ".", "!", "?" or "" when the sentence is unterminated.
	Terminal string

	padded string
}

func (s Sentence) Len() int {
	return len(s.Tokens)
}

// Has reports whether a lower-case word or phrase occurs in the sentence as
// whole tokens.
func (s Sentence) Has(phrase string) bool {
	return strings.Contains(s.padded, " "+phrase+" ")
}

// Find returns the token index of every occurrence of a lower-case word or
// phrase in the sentence.
func (s Sentence) Find(phrase string) []int {
	words := strings.Fields(phrase)
	if len(words) == 0 || !s.Has(phrase) {
		return nil
	}
	var at []int
	for i := 0; i+len(words) <= len(s.Lower); i++ {
		if slices.Equal(s.Lower[i:i+len(words)], words) {
			at = append(at, i)
		}
	}
	return at
}

// Document is the normalized form of one submission. It is built once by
// Normalize and only read afterwards.
type Document struct {
	Text       string
	Tokens     []string
	Lower      []string
	Sentences  []Sentence
	Paragraphs int
	WordCount  int
	CharCount  int
}

// Abbreviations decides whether a word followed by a full stop is an
// abbreviation rather than the end of a sentence.
type Abbreviations interface {
	IsAbbreviation(word string) bool
}

// wordClasses is implemented by abbreviation sources that also know closed
// word classes. It lets a capital letter before "It" or "Everyone" end a
// sentence instead of reading as an initial.
type wordClasses interface {
	IsFunctionWord(word string) bool
	IsPronoun(word string) bool
}

// Normalize splits text into paragraphs, sentences and word tokens. It fails
// with *InputTooShortError when there are fewer than minTokens tokens and with
// *UnsupportedContentError when the text is not Latin-script prose.
func Normalize(text string, minTokens int, abbr Abbreviations) (*Document, error) {
	if minTokens < 1 {
		minTokens = 1
	}
	trimmed := strings.TrimSpace(apostrophes.Replace(text))

	doc := &Document{
		Text:      trimmed,
		CharCount: utf8.RuneCountInString(trimmed),
	}
	for _, para := range paragraphBreak.Split(trimmed, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		before := len(doc.Sentences)
		for _, raw := range splitSentences(para, abbr) {
			doc.addSentence(raw.text, raw.terminal, doc.Paragraphs)
		}
		if len(doc.Sentences) > before {
			doc.Paragraphs++
		}
	}
	doc.WordCount = len(doc.Tokens)

	if doc.WordCount < minTokens {
		return nil, &InputTooShortError{Tokens: doc.WordCount, Min: minTokens}
	}
	if reason := unsupportedReason(trimmed); reason != "" {
		return nil, &UnsupportedContentError{Reason: reason}
	}
	return doc, nil
}

// Words returns the lower-cased word tokens of text, tokenized the same way
// as Normalize does.
func Words(text string) []string {
	tokens := wordPattern.FindAllString(apostrophes.Replace(text), -1)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}
	return tokens
}

func (d *Document) addSentence(text, terminal string, paragraph int) {
	tokens := wordPattern.FindAllString(text, -1)
	if len(tokens) == 0 {
		return
	}
	lower := make([]string, len(tokens))
	for i, t := range tokens {
		lower[i] = strings.ToLower(t)
	}
	d.Sentences = append(d.Sentences, Sentence{
		Index:     len(d.Sentences),
		Paragraph: paragraph,
		Text:      text,
		Tokens:    tokens,
		Lower:     lower,
		Terminal:  terminal,
		padded:    " " + strings.Join(lower, " ") + " ",
	})
	d.Tokens = append(d.Tokens, tokens...)
	d.Lower = append(d.Lower, lower...)
}

type rawSentence struct {
	text     string
	terminal string
}

func splitSentences(para string, abbr Abbreviations) []rawSentence {
	var out []rawSentence
	start := 0
	for _, m := range sentenceEnd.FindAllStringIndex(para, -1) {
		mark := para[m[0]:m[1]]
		if isAbbreviation(para[start:m[0]], mark, para[m[1]:], abbr) {
			continue
		}
		out = append(out, rawSentence{
			text:     strings.TrimSpace(para[start:m[1]]),
			terminal: mark[:1],
		})
		start = m[1]
	}
	if rest := strings.TrimSpace(para[start:]); rest != "" {
		out = append(out, rawSentence{text: rest})
	}
	return out
}

// isAbbreviation reports whether a single full stop closes an abbreviation
// or an initial ("Dr.", "e.g.", "J.") instead of a sentence.
func isAbbreviation(before, mark, after string, abbr Abbreviations) bool {
	if !strings.HasPrefix(mark, ".") || strings.HasPrefix(mark, "..") {
		return false
	}
	fields := strings.Fields(before)
	if len(fields) == 0 {
		return false
	}
	word := strings.TrimLeft(fields[len(fields)-1], `("'[`)
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsUpper(r) && word != "I" && startsName(after, abbr)
	}
	return abbr != nil && abbr.IsAbbreviation(strings.ToLower(word))
}

// startsName reports whether the text after a capital letter and its full
// stop continues a name: another initial or a capitalized word that is not a
// function word or pronoun. "plan B. It was" ends a sentence, "J. K. Rowling"
// and "J. Brown" do not.
func startsName(after string, abbr Abbreviations) bool {
	fields := strings.Fields(after)
	if len(fields) == 0 {
		return false
	}
	next := strings.TrimLeft(fields[0], `("'[`)
	r, _ := utf8.DecodeRuneInString(next)
	if !unicode.IsUpper(r) {
		return false
	}
	if utf8.RuneCountInString(next) == 2 && strings.HasSuffix(next, ".") {
		return true
	}
	word := strings.ToLower(strings.TrimRight(next, `.,;:!?"')]`))
	if word == "i" {
		return false
	}
	if classes, ok := abbr.(wordClasses); ok {
		return !classes.IsFunctionWord(word) && !classes.IsPronoun(word)
	}
	return true
}

func unsupportedReason(text string) string {
	letters, latin := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Latin, r) {
			latin++
		}
	}
	switch {
	case letters == 0:
		return "no alphabetic content"
	case latin*2 < letters:
		return "text is not written in a Latin script"
	}
	return ""
}
