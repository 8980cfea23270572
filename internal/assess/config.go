package assess

import (
	"os"
	"strconv"
	"strings"

	"writing_assessor/internal/coherence"
	"writing_assessor/internal/complexity"
	"writing_assessor/internal/document"
	"writing_assessor/internal/feedback"
	"writing_assessor/internal/grammar"
	"writing_assessor/internal/lexical"
	"writing_assessor/internal/lexicon"
	"writing_assessor/internal/task"
)

type Config struct {
	// MinTokens is the token floor below which Assess fails with
	// *InputTooShortError.
	MinTokens int
	// Parallel runs the four analyzers on Workers goroutines.
	Parallel bool
	Workers  int
	// ConfidenceScale is the sub-score standard deviation at which
	// confidence drops to one half.
	ConfidenceScale float64
	// LexiconPath overrides the embedded reference vocabulary.
	LexiconPath string

	Lexical    lexical.Config
	Grammar    grammar.Config
	Coherence  coherence.Config
	Complexity complexity.Config
	Task       task.Config
	Feedback   feedback.Config
}

func DefaultConfig() Config {
	g := grammar.DefaultConfig()
	g.PenaltyScale = getenvFloat("CEFR_GRAMMAR_PENALTY_SCALE", g.PenaltyScale)

	f := feedback.DefaultConfig()
	f.Threshold = getenvFloat("CEFR_SUGGESTION_THRESHOLD", f.Threshold)
	f.MaxSuggestions = getenvInt("CEFR_MAX_SUGGESTIONS", f.MaxSuggestions)

	return Config{
		MinTokens:       getenvInt("CEFR_MIN_TOKENS", document.DefaultMinTokens),
		Parallel:        getenvBool("CEFR_PARALLEL", true),
		Workers:         getenvInt("CEFR_WORKERS", 4),
		ConfidenceScale: getenvFloat("CEFR_CONFIDENCE_SCALE", 20),
		LexiconPath:     strings.TrimSpace(os.Getenv("CEFR_LEXICON_PATH")),
		Lexical:         lexical.DefaultConfig(),
		Grammar:         g,
		Coherence:       coherence.DefaultConfig(),
		Complexity:      complexity.DefaultConfig(),
		Task:            task.DefaultConfig(),
		Feedback:        f,
	}
}

// LoadLexicon returns the override lexicon at LexiconPath, or the embedded
// default when no path is set.
func (c Config) LoadLexicon() (*lexicon.Lexicon, error) {
	if c.LexiconPath == "" {
		return lexicon.Default()
	}
	return lexicon.LoadFile(c.LexiconPath)
}

func getenvInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getenvFloat(name string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getenvBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	return raw == "1" || raw == "true" || raw == "yes" || raw == "on"
}
