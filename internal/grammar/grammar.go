// Package grammar runs a fixed battery of pattern rules over each sentence and
// turns the findings into a grammar score.
package grammar

import (
	"math"

	"writing_assessor/internal/cefr"
	"writing_assessor/internal/document"
	"writing_assessor/internal/textstat"
)

type Rule string

const (
	RuleAgreement      Rule = "subject-verb-agreement"
	RuleArticle        Rule = "article"
	RuleRepeatedWord   Rule = "repeated-word"
	RuleComparative    Rule = "double-comparative"
	RulePunctuation    Rule = "punctuation"
	RuleCapitalization Rule = "capitalization"
	RuleTense          Rule = "tense-consistency"
	RuleNegation       Rule = "double-negative"
	RuleRunOn          Rule = "run-on"
	RuleSubordinate    Rule = "subordinate-clause"
)

// GrammarError is one rule firing on one sentence. Level is the CEFR level
// at which the pattern is still expected; lower levels weigh less.
type GrammarError struct {
	Rule        Rule       `json:"rule"`
	Description string     `json:"description"`
	Level       cefr.Level `json:"level"`
	Severity    float64    `json:"severity"`
	Sentence    int        `json:"sentence"`
	Excerpt     string     `json:"excerpt"`
	Hint        string     `json:"hint"`
}

type Config struct {
	// PenaltyScale converts severity per sentence into score points.
	PenaltyScale float64
}

func DefaultConfig() Config {
	return Config{PenaltyScale: 8}
}

type Report struct {
	Score  float64        `json:"score"`
	Errors []GrammarError `json:"errors"`
}

type Analyzer struct {
	cfg Config
}

func New(cfg Config) *Analyzer {
	if cfg.PenaltyScale <= 0 {
		cfg.PenaltyScale = DefaultConfig().PenaltyScale
	}
	return &Analyzer{cfg: cfg}
}

// Analyze checks every sentence against every rule. A rule contributes at
// most one error per sentence; the penalty is averaged over sentences.
func (a *Analyzer) Analyze(doc *document.Document) Report {
	frames := timeFrames(doc.Sentences)

	var errs []GrammarError
	total := 0.0
	for i, s := range doc.Sentences {
		for _, r := range battery {
			excerpt := r.check(s, frames[i])
			if excerpt == "" {
				continue
			}
			errs = append(errs, GrammarError{
				Rule:        r.id,
				Description: r.description,
				Level:       r.level,
				Severity:    r.severity,
				Sentence:    s.Index,
				Excerpt:     excerpt,
				Hint:        r.hint,
			})
			total += r.severity
		}
	}

	score := 100.0
	if n := len(doc.Sentences); n > 0 {
		score = 100 - total/float64(n)*a.cfg.PenaltyScale
	}
	return Report{
		Score:  textstat.Round(math.Max(0, score), 2),
		Errors: errs,
	}
}

// Rules lists the battery in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(battery))
	for i, r := range battery {
		out[i] = r.id
	}
	return out
}

// HintFor returns the learner-facing advice for a rule, or "" if unknown.
func HintFor(id Rule) string {
	for _, r := range battery {
		if r.id == id {
			return r.hint
		}
	}
	return ""
}
