// Package coherence scores discourse organization: connectives, segmentation
// and whether pronouns have something to refer to.
package coherence

import (
	"unicode/utf8"

	"writing_assessor/internal/document"
	"writing_assessor/internal/lexicon"
	"writing_assessor/internal/textstat"
)

type Config struct {
	ConnectiveWeight   float64
	SegmentationWeight float64
	ReferenceWeight    float64
	// ConnectiveTarget is the connectives-per-sentence rate that earns the
	// full density share.
	ConnectiveTarget float64
	// CategoryShare is the part of the connective signal earned by using
	// several categories (contrast, causal, ...) instead of one.
	CategoryShare float64
	// LengthSpread is the sentence length standard deviation that counts as
	// fully deliberate structuring.
	LengthSpread float64
	// ParagraphBonus is added to segmentation for multi-paragraph texts of
	// at least ParagraphMinSentences sentences.
	ParagraphBonus        float64
	ParagraphMinSentences int
	// NoConnectiveCap bounds the score of a multi-sentence text without a
	// single connective.
	NoConnectiveCap float64
	// AntecedentMinLen is the shortest content word accepted as antecedent.
	AntecedentMinLen int
}

func DefaultConfig() Config {
	return Config{
		ConnectiveWeight:      0.5,
		SegmentationWeight:    0.25,
		ReferenceWeight:       0.25,
		ConnectiveTarget:      0.5,
		CategoryShare:         0.3,
		LengthSpread:          6,
		ParagraphBonus:        0.2,
		ParagraphMinSentences: 4,
		NoConnectiveCap:       40,
		AntecedentMinLen:      3,
	}
}

type Report struct {
	Score        float64 `json:"score"`
	Connectives  int     `json:"connectives"`
	Categories   int     `json:"categories"`
	Pronouns     int     `json:"pronouns"`
	Dangling     int     `json:"dangling"`
	Connective   float64 `json:"connective"`
	Segmentation float64 `json:"segmentation"`
	Reference    float64 `json:"reference"`
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
	if n == 0 {
		return r
	}

	categories := a.lex.ConnectiveCategories()
	for _, category := range categories {
		used := false
		for _, c := range a.lex.Connectives(category) {
			for _, s := range doc.Sentences {
				if s.Has(c) {
					r.Connectives++
					used = true
				}
			}
		}
		if used {
			r.Categories++
		}
	}
	density := textstat.Clamp01(float64(r.Connectives) / float64(n) / a.cfg.ConnectiveTarget)
	r.Connective = (1-a.cfg.CategoryShare)*density +
		a.cfg.CategoryShare*float64(r.Categories)/float64(max(1, len(categories)))

	lengths := make([]float64, n)
	for i, s := range doc.Sentences {
		lengths[i] = float64(s.Len())
	}
	_, sd := textstat.MeanStd(lengths)
	segmentation := sd / a.cfg.LengthSpread
	if doc.Paragraphs >= 2 && n >= a.cfg.ParagraphMinSentences {
		segmentation += a.cfg.ParagraphBonus
	}
	r.Segmentation = textstat.Clamp01(segmentation)

	r.Pronouns, r.Dangling = a.references(doc.Sentences)
	r.Reference = 1
	if r.Pronouns > 0 {
		r.Reference = 1 - float64(r.Dangling)/float64(r.Pronouns)
	}

	score := 100 * (a.cfg.ConnectiveWeight*r.Connective +
		a.cfg.SegmentationWeight*r.Segmentation +
		a.cfg.ReferenceWeight*r.Reference)
	if n >= 2 && r.Connectives == 0 {
		score = min(score, a.cfg.NoConnectiveCap)
	}
	r.Score = textstat.Round(textstat.Clamp100(score), 2)
	return r
}

// references counts third-person pronouns and those with no candidate
// antecedent earlier in the same sentence or anywhere in the previous one.
func (a *Analyzer) references(sentences []document.Sentence) (pronouns, dangling int) {
	for i, s := range sentences {
		prev := false
		if i > 0 {
			prev = a.hasAntecedent(sentences[i-1].Lower)
		}
		for j, w := range s.Lower {
			if !a.lex.IsPronoun(w) {
				continue
			}
			pronouns++
			if !prev && !a.hasAntecedent(s.Lower[:j]) {
				dangling++
			}
		}
	}
	return pronouns, dangling
}

func (a *Analyzer) hasAntecedent(words []string) bool {
	for _, w := range words {
		if utf8.RuneCountInString(w) >= a.cfg.AntecedentMinLen && a.lex.IsContentWord(w) {
			return true
		}
	}
	return false
}
