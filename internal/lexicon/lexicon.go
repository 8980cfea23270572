// Package lexicon holds the read-only reference vocabulary the analyzers
// match against: per-level markers, discourse connectives, subordinators,
// pronouns and function words. A Lexicon is built once and never mutated,
// so one instance can be shared by concurrent assessments.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"writing_assessor/internal/cefr"
)

//go:embed lexicon.yaml
var defaultYAML []byte

type file struct {
	Levels        map[string][]string `yaml:"levels"`
	Connectives   map[string][]string `yaml:"connectives"`
	Subordinators []string            `yaml:"subordinators"`
	Pronouns      []string            `yaml:"pronouns"`
	FunctionWords []string            `yaml:"function_words"`
	Abbreviations []string            `yaml:"abbreviations"`
}

type Lexicon struct {
	markers       map[cefr.Level][]string
	connectives   map[string][]string
	categories    []string
	subordinators []string
	pronouns      map[string]struct{}
	functionWords map[string]struct{}
	abbreviations map[string]struct{}
}

var loadDefault = sync.OnceValues(func() (*Lexicon, error) {
	return Parse(defaultYAML)
})

// Default returns the embedded lexicon.
func Default() (*Lexicon, error) {
	return loadDefault()
}

// MustDefault is Default for callers that treat a broken embedded lexicon as
// a programming error.
func MustDefault() *Lexicon {
	lex, err := Default()
	if err != nil {
		panic(err)
	}
	return lex
}

// LoadFile reads a lexicon from a YAML file with the same shape as the
// embedded one.
func LoadFile(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Lexicon, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}

	lex := &Lexicon{
		markers:       make(map[cefr.Level][]string, len(cefr.Levels)),
		connectives:   make(map[string][]string, len(f.Connectives)),
		subordinators: normalizeList(f.Subordinators),
		pronouns:      toSet(f.Pronouns),
		functionWords: toSet(f.FunctionWords),
		abbreviations: toSet(f.Abbreviations),
	}

	owner := map[string]cefr.Level{}
	for name, entries := range f.Levels {
		level, err := cefr.ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("lexicon levels: %w", err)
		}
		list := normalizeList(entries)
		for _, m := range list {
			if prev, ok := owner[m]; ok && prev != level {
				return nil, fmt.Errorf("lexicon marker %q listed under both %s and %s", m, prev, level)
			}
			owner[m] = level
		}
		lex.markers[level] = list
	}
	for _, level := range cefr.Levels {
		if len(lex.markers[level]) == 0 {
			return nil, fmt.Errorf("lexicon has no markers for %s", level)
		}
	}

	for category, entries := range f.Connectives {
		category = strings.ToLower(strings.TrimSpace(category))
		list := normalizeList(entries)
		if category == "" || len(list) == 0 {
			continue
		}
		lex.connectives[category] = list
		lex.categories = append(lex.categories, category)
	}
	if len(lex.categories) == 0 {
		return nil, fmt.Errorf("lexicon has no connectives")
	}
	slices.Sort(lex.categories)

	return lex, nil
}

// Markers returns the markers for one level.
func (l *Lexicon) Markers(level cefr.Level) []string {
	return slices.Clone(l.markers[level])
}

// ConnectiveCategories returns the connective categories in sorted order.
func (l *Lexicon) ConnectiveCategories() []string {
	return slices.Clone(l.categories)
}

func (l *Lexicon) Connectives(category string) []string {
	return slices.Clone(l.connectives[category])
}

func (l *Lexicon) Subordinators() []string {
	return slices.Clone(l.subordinators)
}

func (l *Lexicon) IsPronoun(word string) bool {
	_, ok := l.pronouns[word]
	return ok
}

func (l *Lexicon) IsFunctionWord(word string) bool {
	_, ok := l.functionWords[word]
	return ok
}

func (l *Lexicon) IsAbbreviation(word string) bool {
	_, ok := l.abbreviations[strings.TrimSuffix(word, ".")]
	return ok
}

// IsContentWord reports whether a lower-cased token carries lexical meaning:
// not a function word, not a pronoun, not a bare number.
func (l *Lexicon) IsContentWord(word string) bool {
	if word == "" || l.IsFunctionWord(word) || l.IsPronoun(word) {
		return false
	}
	for _, r := range word {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

func normalizeList(entries []string) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		e = strings.Join(strings.Fields(strings.ToLower(e)), " ")
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

func toSet(entries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range normalizeList(entries) {
		set[e] = struct{}{}
	}
	return set
}
