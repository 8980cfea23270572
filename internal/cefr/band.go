package cefr

import (
	"math"

	"writing_assessor/internal/textstat"
)

// Band is the reported outcome of an assessment. C1 and C2 share one band:
// the heuristic signals cannot separate them reliably, so the scale stops
// at five bands.
type Band string

const (
	BandA1   Band = "A1"
	BandA2   Band = "A2"
	BandB1   Band = "B1"
	BandB2   Band = "B2"
	BandC1C2 Band = "C1-C2"
)

type threshold struct {
	min  float64
	band Band
}

// Lower bounds are inclusive and evaluated from the top down.
var thresholds = []threshold{
	{min: 80, band: BandC1C2},
	{min: 75, band: BandB2},
	{min: 70, band: BandB1},
	{min: 65, band: BandA2},
}

// MapScore maps an overall percentage onto a band.
func MapScore(score float64) Band {
	for _, t := range thresholds {
		if score >= t.min {
			return t.band
		}
	}
	return BandA1
}

// Levels returns the CEFR levels the band covers.
func (b Band) Levels() []Level {
	switch b {
	case BandA1:
		return []Level{A1}
	case BandA2:
		return []Level{A2}
	case BandB1:
		return []Level{B1}
	case BandB2:
		return []Level{B2}
	case BandC1C2:
		return []Level{C1, C2}
	}
	return nil
}

// Aggregate is the combined outcome of the sub-scores.
type Aggregate struct {
	Score      float64
	Band       Band
	Confidence float64
}

// Combine averages the available sub-scores and maps the mean onto a band.
// The score is rounded to two decimals before mapping so the reported score
// and band always agree. Confidence is derived from core alone: the spread of
// the four analyzer scores, not the optional task score.
func Combine(available []float64, core []float64, confidenceScale float64) Aggregate {
	mean, _ := textstat.MeanStd(available)
	score := textstat.Round(textstat.Clamp100(mean), 2)
	return Aggregate{
		Score:      score,
		Band:       MapScore(score),
		Confidence: Confidence(core, confidenceScale),
	}
}

// Confidence is 1 / (1 + sd/scale) over the sub-scores: 1 when they agree
// perfectly and falling towards 0 as they spread apart.
func Confidence(scores []float64, scale float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	if scale <= 0 {
		scale = 20
	}
	_, sd := textstat.MeanStd(scores)
	c := 1 / (1 + sd/scale)
	return textstat.Round(math.Min(1, math.Max(0, c)), 3)
}
