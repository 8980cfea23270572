// Package complexity scores sentence structure: length, variety,
// subordination and lexical density.
package complexity

import (
	"writing_assessor/internal/document"
	"writing_assessor/internal/lexicon"
	"writing_assessor/internal/textstat"
)

type Config struct {
	LengthWeight        float64
	VarietyWeight       float64
	SubordinationWeight float64
	DensityWeight       float64

	// Average sentence length maps linearly from LengthFloor (0) to
	// LengthFloor+LengthRange (1).
	LengthFloor float64
	LengthRange float64
	// VarietySpread is the length standard deviation that earns full variety.
	VarietySpread float64
	// SubordinationTarget is the share of sentences with a subordinate
	// clause that earns full credit.
	SubordinationTarget float64
	// Lexical density maps linearly from DensityFloor to DensityFloor+DensityRange.
	DensityFloor float64
	DensityRange float64

	// Texts of short, uniform sentences are capped at SimpleCap.
	SimpleMaxAvg    float64
	SimpleMaxSpread float64
	SimpleCap       float64
}

func DefaultConfig() Config {
	return Config{
		LengthWeight:        0.25,
		VarietyWeight:       0.2,
		SubordinationWeight: 0.35,
		DensityWeight:       0.2,
		LengthFloor:         5,
		LengthRange:         15,
		VarietySpread:       8,
		SubordinationTarget: 0.5,
		DensityFloor:        0.3,
		DensityRange:        0.3,
		SimpleMaxAvg:        6,
		SimpleMaxSpread:     2,
		SimpleCap:           30,
	}
}

type Report struct {
	Score             float64 `json:"score"`
	AvgSentenceLength float64 `json:"avgSentenceLength"`
	SentenceLengthSD  float64 `json:"sentenceLengthSd"`
	SubordinateShare  float64 `json:"subordinateShare"`
	LexicalDensity    float64 `json:"lexicalDensity"`
}

type Analyzer struct {
	cfg Config
	lex *lexicon.Lexicon
}

func New(cfg Config, lex *lexicon.Lexicon) *Analyzer {
	return &Analyzer{cfg: cfg, lex: lex}
}

func (a *Analyzer) Analyze(doc *document.Document) Report {
	var r Report
	n := len(doc.Sentences)
	if n == 0 || doc.WordCount == 0 {
		return r
	}

	lengths := make([]float64, n)
	subordinate := 0
	subordinators := a.lex.Subordinators()
	for i, s := range doc.Sentences {
		lengths[i] = float64(s.Len())
		for _, m := range subordinators {
			if s.Has(m) {
				subordinate++
				break
			}
		}
	}
	r.AvgSentenceLength, r.SentenceLengthSD = textstat.MeanStd(lengths)
	r.SubordinateShare = float64(subordinate) / float64(n)

	content := 0
	for _, w := range doc.Lower {
		if a.lex.IsContentWord(w) {
			content++
		}
	}
	r.LexicalDensity = float64(content) / float64(doc.WordCount)

	score := 100 * (a.cfg.LengthWeight*textstat.Clamp01((r.AvgSentenceLength-a.cfg.LengthFloor)/a.cfg.LengthRange) +
		a.cfg.VarietyWeight*textstat.Clamp01(r.SentenceLengthSD/a.cfg.VarietySpread) +
		a.cfg.SubordinationWeight*textstat.Clamp01(r.SubordinateShare/a.cfg.SubordinationTarget) +
		a.cfg.DensityWeight*textstat.Clamp01((r.LexicalDensity-a.cfg.DensityFloor)/a.cfg.DensityRange))
	if r.AvgSentenceLength < a.cfg.SimpleMaxAvg && r.SentenceLengthSD < a.cfg.SimpleMaxSpread {
		score = min(score, a.cfg.SimpleCap)
	}
	r.Score = textstat.Round(textstat.Clamp100(score), 2)
	return r
}
