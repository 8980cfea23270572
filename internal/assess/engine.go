// Package assess is the single entry point of the scoring engine: it turns a
// submitted text into an immutable Result.
package assess

import (
	"errors"
	"fmt"
	"slices"

	"writing_assessor/internal/cefr"
	"writing_assessor/internal/coherence"
	"writing_assessor/internal/complexity"
	"writing_assessor/internal/document"
	"writing_assessor/internal/feedback"
	"writing_assessor/internal/grammar"
	"writing_assessor/internal/lexical"
	"writing_assessor/internal/lexicon"
	"writing_assessor/internal/logging"
	"writing_assessor/internal/pipeline"
	"writing_assessor/internal/task"
)

type (
	TaskContext             = task.Context
	InputTooShortError      = document.InputTooShortError
	UnsupportedContentError = document.UnsupportedContentError
)

// IsInputError reports whether err rejects the input itself. Such errors are
// the caller's to surface ("write more"), never a failure of the engine.
func IsInputError(err error) bool {
	var short *InputTooShortError
	var unsupported *UnsupportedContentError
	return errors.As(err, &short) || errors.As(err, &unsupported)
}

type Sublevels struct {
	Vocabulary      float64  `json:"vocabulary"`
	Grammar         float64  `json:"grammar"`
	Coherence       float64  `json:"coherence"`
	Complexity      float64  `json:"complexity"`
	TaskAchievement *float64 `json:"taskAchievement,omitempty"`
}

type Result struct {
	Score           float64   `json:"score"`
	CEFRLevel       cefr.Band `json:"cefrLevel"`
	Overview        []string  `json:"overview"`
	GrammarErrors   []string  `json:"grammarErrors"`
	Suggestions     []string  `json:"suggestions"`
	ConfidenceLevel float64   `json:"confidenceLevel"`
	Sublevels       Sublevels `json:"sublevels"`
}

// Analysis is a Result together with the analyzer reports it was built from.
type Analysis struct {
	Result     Result            `json:"result"`
	Words      int               `json:"words"`
	Sentences  int               `json:"sentences"`
	Paragraphs int               `json:"paragraphs"`
	Characters int               `json:"characters"`
	Lexical    lexical.Report    `json:"lexical"`
	Grammar    grammar.Report    `json:"grammar"`
	Coherence  coherence.Report  `json:"coherence"`
	Complexity complexity.Report `json:"complexity"`
	Task       *task.Report      `json:"task,omitempty"`
}

type Engine struct {
	cfg    Config
	lex    *lexicon.Lexicon
	logger logging.Logger

	lexical    *lexical.Analyzer
	grammar    *grammar.Analyzer
	coherence  *coherence.Analyzer
	complexity *complexity.Analyzer
	task       *task.Scorer
}

// New builds an engine. A nil lexicon selects the embedded default and a nil
// logger discards everything. The engine holds no per-call state and is safe
// for concurrent use.
func New(cfg Config, lex *lexicon.Lexicon, logger logging.Logger) *Engine {
	if lex == nil {
		lex = lexicon.MustDefault()
	}
	return &Engine{
		cfg:        cfg,
		lex:        lex,
		logger:     logging.OrNop(logger),
		lexical:    lexical.New(cfg.Lexical, lex),
		grammar:    grammar.New(cfg.Grammar),
		coherence:  coherence.New(cfg.Coherence, lex),
		complexity: complexity.New(cfg.Complexity, lex),
		task:       task.New(cfg.Task, lex),
	}
}

// Assess scores text. The only errors are *InputTooShortError and
// *UnsupportedContentError.
func (e *Engine) Assess(text string, tc TaskContext) (Result, error) {
	a, err := e.Analyze(text, tc)
	if err != nil {
		return Result{}, err
	}
	return a.Result, nil
}

// Analyze is Assess with the per-analyzer detail kept.
func (e *Engine) Analyze(text string, tc TaskContext) (Analysis, error) {
	doc, err := document.Normalize(text, e.cfg.MinTokens, e.lex)
	if err != nil {
		e.logger.Log(logging.Debug, "NORMALIZE", "input rejected", err.Error())
		return Analysis{}, err
	}
	e.logger.Log(logging.Debug, "NORMALIZE", "text normalized",
		fmt.Sprintf("words=%d sentences=%d paragraphs=%d", doc.WordCount, len(doc.Sentences), doc.Paragraphs))

	a := Analysis{
		Words:      doc.WordCount,
		Sentences:  len(doc.Sentences),
		Paragraphs: doc.Paragraphs,
		Characters: doc.CharCount,
	}
	tasks := []pipeline.Task{
		func() error { a.Lexical = e.lexical.Analyze(doc); return nil },
		func() error { a.Grammar = e.grammar.Analyze(doc); return nil },
		func() error { a.Coherence = e.coherence.Analyze(doc); return nil },
		func() error { a.Complexity = e.complexity.Analyze(doc); return nil },
	}
	workers := 1
	if e.cfg.Parallel {
		workers = e.cfg.Workers
	}
	// A failed analyzer keeps its zero report so the assessment still completes.
	for _, err := range pipeline.Run(tasks, workers) {
		e.logger.Log(logging.Risk, "ANALYZE", "analyzer failed", err.Error())
	}

	core := []float64{a.Lexical.Score, a.Grammar.Score, a.Coherence.Score, a.Complexity.Score}
	available := slices.Clone(core)
	scores := []feedback.Score{
		{Dimension: feedback.Vocabulary, Value: a.Lexical.Score},
		{Dimension: feedback.Grammar, Value: a.Grammar.Score},
		{Dimension: feedback.Coherence, Value: a.Coherence.Score},
		{Dimension: feedback.Complexity, Value: a.Complexity.Score},
	}
	sub := Sublevels{
		Vocabulary: a.Lexical.Score,
		Grammar:    a.Grammar.Score,
		Coherence:  a.Coherence.Score,
		Complexity: a.Complexity.Score,
	}
	if report, ok := e.task.Score(doc, tc); ok {
		a.Task = &report
		v := report.Score
		sub.TaskAchievement = &v
		available = append(available, v)
		scores = append(scores, feedback.Score{Dimension: feedback.TaskAchievement, Value: v})
	}

	agg := cefr.Combine(available, core, e.cfg.ConfidenceScale)
	fb := feedback.Generate(e.cfg.Feedback, feedback.Input{
		Scores:    scores,
		Errors:    a.Grammar.Errors,
		Aggregate: agg,
		Words:     doc.WordCount,
		Sentences: len(doc.Sentences),
	})

	a.Result = Result{
		Score:           agg.Score,
		CEFRLevel:       agg.Band,
		Overview:        fb.Overview,
		GrammarErrors:   fb.GrammarErrors,
		Suggestions:     fb.Suggestions,
		ConfidenceLevel: agg.Confidence,
		Sublevels:       sub,
	}
	e.logger.Log(logging.Analysis, "SCORING", "assessment scored",
		fmt.Sprintf("score=%.2f band=%s confidence=%.3f grammar_errors=%d", agg.Score, agg.Band, agg.Confidence, len(a.Grammar.Errors)))
	return a, nil
}
