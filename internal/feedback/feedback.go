// Package feedback derives the overview and improvement suggestions from
// finished scores. It never changes a score.
package feedback

import (
	"fmt"
	"slices"

	"writing_assessor/internal/cefr"
	"writing_assessor/internal/grammar"
)

type Dimension string

const (
	Vocabulary      Dimension = "vocabulary"
	Grammar         Dimension = "grammar"
	Coherence       Dimension = "coherence"
	Complexity      Dimension = "complexity"
	TaskAchievement Dimension = "taskAchievement"
)

// Order is the fixed tie-break order between dimensions.
var Order = []Dimension{Vocabulary, Grammar, Coherence, Complexity, TaskAchievement}

func (d Dimension) Label() string {
	switch d {
	case Complexity:
		return "sentence complexity"
	case TaskAchievement:
		return "task achievement"
	}
	return string(d)
}

var templates = map[Dimension][2]string{
	Vocabulary: {
		`Replace everyday words such as "good" or "big" with more precise alternatives.`,
		"Use topic-specific words and phrases instead of repeating the same ones.",
	},
	Grammar: {
		"Reread each sentence and check that every verb agrees with its subject and tense.",
		"Rewrite the sentences flagged below and look for the same pattern elsewhere in your text.",
	},
	Coherence: {
		`Link your ideas with connectives such as "however", "therefore" or "in addition".`,
		"Organize the text into paragraphs, each built around one main idea.",
	},
	Complexity: {
		`Combine short sentences with subordinate clauses ("although", "because", "which").`,
		"Vary the length and the openings of your sentences.",
	},
	TaskAchievement: {
		"Check the required length and develop your answer until it fits the word count.",
		"Answer every part of the prompt explicitly, reusing its key words.",
	},
}

type Score struct {
	Dimension Dimension
	Value     float64
}

type Input struct {
	// Scores lists the available sub-scores in Order.
	Scores    []Score
	Errors    []grammar.GrammarError
	Aggregate cefr.Aggregate
	Words     int
	Sentences int
}

type Config struct {
	// Threshold marks every dimension scoring below it as weak.
	Threshold float64
	// MaxSuggestions truncates the list; 0 keeps everything.
	MaxSuggestions int
}

func DefaultConfig() Config {
	return Config{Threshold: 70, MaxSuggestions: 6}
}

type Output struct {
	Overview      []string
	Suggestions   []string
	GrammarErrors []string
}

func Generate(cfg Config, in Input) Output {
	out := Output{
		GrammarErrors: Descriptions(in.Errors),
		Suggestions:   []string{},
	}
	if len(in.Scores) == 0 {
		return out
	}

	ranked := slices.Clone(in.Scores)
	slices.SortStableFunc(ranked, func(a, b Score) int {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		}
		return slices.Index(Order, a.Dimension) - slices.Index(Order, b.Dimension)
	})
	weakest := ranked[0]
	strongest := ranked[len(ranked)-1]
	for _, s := range ranked[1:] {
		// highest value, earliest in Order on ties
		if s.Value == strongest.Value && slices.Index(Order, s.Dimension) < slices.Index(Order, strongest.Dimension) {
			strongest = s
		}
	}

	for i, s := range ranked {
		if i > 0 && s.Value >= cfg.Threshold {
			break
		}
		t := templates[s.Dimension]
		out.Suggestions = append(out.Suggestions, t[0], t[1])
	}
	seen := map[grammar.Rule]bool{}
	for _, e := range in.Errors {
		if seen[e.Rule] || e.Hint == "" {
			continue
		}
		seen[e.Rule] = true
		out.Suggestions = append(out.Suggestions, e.Hint)
	}
	if cfg.MaxSuggestions > 0 && len(out.Suggestions) > cfg.MaxSuggestions {
		out.Suggestions = out.Suggestions[:cfg.MaxSuggestions]
	}

	out.Overview = overview(in, strongest, weakest)
	return out
}

// Descriptions returns the distinct error descriptions in first-seen order.
func Descriptions(errs []grammar.GrammarError) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, e := range errs {
		if seen[e.Description] {
			continue
		}
		seen[e.Description] = true
		out = append(out, e.Description)
	}
	return out
}

func overview(in Input, strongest, weakest Score) []string {
	lines := []string{
		fmt.Sprintf("Estimated level %s with an overall score of %.1f%%.", in.Aggregate.Band, in.Aggregate.Score),
		fmt.Sprintf("Strongest area: %s (%.1f%%).", strongest.Dimension.Label(), strongest.Value),
		fmt.Sprintf("Weakest area: %s (%.1f%%).", weakest.Dimension.Label(), weakest.Value),
	}

	c := in.Aggregate.Confidence
	switch {
	case c >= 0.75:
		lines = append(lines, fmt.Sprintf("The sub-scores agree closely, so the estimate is reliable (confidence %.2f).", c))
	case c >= 0.5:
		lines = append(lines, fmt.Sprintf("The sub-scores vary somewhat; treat the level as indicative (confidence %.2f).", c))
	default:
		lines = append(lines, fmt.Sprintf("Skills are unevenly developed, so the level is only approximate (confidence %.2f).", c))
	}

	lines = append(lines, fmt.Sprintf("Analysed %s in %s.", plural(in.Words, "word"), plural(in.Sentences, "sentence")))
	if kinds := len(Descriptions(in.Errors)); kinds > 0 {
		lines = append(lines, fmt.Sprintf("Found %s of %s.", plural(len(in.Errors), "grammar issue"), plural(kinds, "kind")))
	} else {
		lines = append(lines, "No grammar issues were detected.")
	}
	if in.Aggregate.Band == cefr.BandC1C2 {
		lines = append(lines, "C1 and C2 are reported together as one band.")
	}
	return lines
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
