// Package task scores how well a text fits the assignment it answers.
package task

import (
	"math"
	"unicode/utf8"

	"writing_assessor/internal/document"
	"writing_assessor/internal/lexicon"
	"writing_assessor/internal/textstat"
)

// Context describes the assignment. The zero value means no assignment, in
// which case task achievement is not scored.
type Context struct {
	TargetPromptWordCount int    `json:"targetPromptWordCount,omitempty"`
	TargetPrompt          string `json:"targetPrompt,omitempty"`
}

func (c Context) Applicable() bool {
	return c.TargetPromptWordCount > 0
}

type Config struct {
	// LengthShare is the weight of length fit when a prompt is given; the
	// rest goes to prompt coverage.
	LengthShare float64
	// Tolerance is the words/target ratio up to which overrun is free.
	Tolerance float64
	// OverrunFloor is the lowest length fit an overlong text can get.
	OverrunFloor float64
}

func DefaultConfig() Config {
	return Config{LengthShare: 0.6, Tolerance: 1.5, OverrunFloor: 50}
}

type Report struct {
	Score     float64 `json:"score"`
	LengthFit float64 `json:"lengthFit"`
	// Coverage is nil when no prompt with content words was given.
	Coverage *float64 `json:"coverage,omitempty"`
}

type Scorer struct {
	cfg Config
	lex *lexicon.Lexicon
}

func New(cfg Config, lex *lexicon.Lexicon) *Scorer {
	return &Scorer{cfg: cfg, lex: lex}
}

// Score returns false when the context carries no target word count.
func (s *Scorer) Score(doc *document.Document, ctx Context) (Report, bool) {
	if !ctx.Applicable() {
		return Report{}, false
	}

	r := Report{LengthFit: s.lengthFit(doc.WordCount, ctx.TargetPromptWordCount)}
	score := r.LengthFit
	if coverage, ok := s.coverage(doc, ctx.TargetPrompt); ok {
		r.Coverage = &coverage
		score = s.cfg.LengthShare*r.LengthFit + (1-s.cfg.LengthShare)*100*coverage
	}
	r.Score = textstat.Round(textstat.Clamp100(score), 2)
	return r, true
}

func (s *Scorer) lengthFit(words, target int) float64 {
	ratio := float64(words) / float64(target)
	switch {
	case ratio < 1:
		return 100 * ratio
	case ratio <= s.cfg.Tolerance:
		return 100
	}
	return math.Max(s.cfg.OverrunFloor, 100-100*(ratio-s.cfg.Tolerance))
}

// coverage is the share of the prompt's distinct content words that the
// text uses.
func (s *Scorer) coverage(doc *document.Document, prompt string) (float64, bool) {
	wanted := map[string]struct{}{}
	for _, w := range document.Words(prompt) {
		if utf8.RuneCountInString(w) >= 3 && s.lex.IsContentWord(w) {
			wanted[w] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return 0, false
	}
	used := map[string]struct{}{}
	for _, w := range doc.Lower {
		used[w] = struct{}{}
	}
	hits := 0
	for w := range wanted {
		if _, ok := used[w]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(wanted)), true
}
