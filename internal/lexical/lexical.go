// Package lexical scores vocabulary sophistication.
package lexical

import (
	"math"
	"strings"

	"writing_assessor/internal/cefr"
	"writing_assessor/internal/document"
	"writing_assessor/internal/lexicon"
	"writing_assessor/internal/textstat"
)

type Config struct {
	// LevelWeights is the value of one marker hit per level. Higher levels
	// must weigh more.
	LevelWeights map[cefr.Level]float64
	// BlockTokens is the text length one unit of hits is measured against.
	BlockTokens int
	// RateCap bounds hits per block for a single level.
	RateCap float64
	// AdvancedFrom is the lowest level whose marker tokens are left out of
	// the length and diversity measures, so adding them only ever adds hits.
	AdvancedFrom cefr.Level
	// DiversityWindow is the MATTR window for texts longer than one window.
	DiversityWindow int
	// DiversityTarget is the type/token ratio at which repetition stops
	// costing anything.
	DiversityTarget float64
	// FloorScale times the type/token ratio is the score of a text with no
	// marker hits. Must stay below 20.
	FloorScale float64
}

func DefaultConfig() Config {
	return Config{
		LevelWeights: map[cefr.Level]float64{
			cefr.A1: 0.5,
			cefr.A2: 1,
			cefr.B1: 2,
			cefr.B2: 3,
			cefr.C1: 4.5,
			cefr.C2: 6,
		},
		BlockTokens:     50,
		RateCap:         2,
		AdvancedFrom:    cefr.C1,
		DiversityWindow: 100,
		DiversityTarget: 0.6,
		FloorScale:      19,
	}
}

type Report struct {
	Score          float64            `json:"score"`
	Hits           map[cefr.Level]int `json:"hits"`
	Sophistication float64            `json:"sophistication"`
	Diversity      float64            `json:"diversity"`
	Floor          float64            `json:"floor"`
}

type Analyzer struct {
	cfg Config
	lex *lexicon.Lexicon
}

func New(cfg Config, lex *lexicon.Lexicon) *Analyzer {
	return &Analyzer{cfg: cfg, lex: lex}
}

// Analyze counts every per-level marker occurrence, normalizes the hits by
// text length and scales the result by vocabulary diversity. Only a text that
// reaches the rate cap at every level scores 100. A text without any marker
// still scores its floor, proportional to type/token ratio.
func (a *Analyzer) Analyze(doc *document.Document) Report {
	hits := make(map[cefr.Level]int, len(cefr.Levels))
	covered := make([][]bool, len(doc.Sentences))
	for i, s := range doc.Sentences {
		covered[i] = make([]bool, len(s.Lower))
	}
	for _, level := range cefr.Levels {
		hits[level] = countMarkers(doc, a.lex.Markers(level), covered, level >= a.cfg.AdvancedFrom)
	}

	// length and diversity are measured on the tokens outside advanced markers
	var base []string
	for i, s := range doc.Sentences {
		for j, w := range s.Lower {
			if !covered[i][j] {
				base = append(base, w)
			}
		}
	}

	units := math.Max(1, float64(len(base))/float64(max(1, a.cfg.BlockTokens)))
	weighted, best := 0.0, 0.0
	for _, level := range cefr.Levels {
		rate := math.Min(float64(hits[level])/units, a.cfg.RateCap)
		weighted += a.cfg.LevelWeights[level] * rate
		best += a.cfg.LevelWeights[level] * a.cfg.RateCap
	}
	sophistication := 0.0
	if best > 0 {
		sophistication = textstat.Clamp01(weighted / best)
	}

	diversity := 1.0
	if len(base) > 0 {
		diversity = textstat.MATTR(base, a.cfg.DiversityWindow)
	}
	multiplier := 0.6 + 0.4*textstat.Clamp01(diversity/a.cfg.DiversityTarget)
	floor := a.cfg.FloorScale * diversity

	score := floor + (100-floor)*sophistication*multiplier
	return Report{
		Score:          textstat.Round(textstat.Clamp100(score), 2),
		Hits:           hits,
		Sophistication: sophistication,
		Diversity:      diversity,
		Floor:          floor,
	}
}

// countMarkers returns how many times the markers occur in the text. Phrases
// are matched inside sentences so they never straddle a boundary. When mark
// is set the matched tokens are flagged in covered.
func countMarkers(doc *document.Document, markers []string, covered [][]bool, mark bool) int {
	n := 0
	for _, m := range markers {
		size := len(strings.Fields(m))
		for i, s := range doc.Sentences {
			at := s.Find(m)
			n += len(at)
			if !mark {
				continue
			}
			for _, start := range at {
				for j := start; j < start+size; j++ {
					covered[i][j] = true
				}
			}
		}
	}
	return n
}
