// Package extractor implements automatic term candidate extraction: seed
// bigrams are collected from a tokenized text, then iteratively expanded to
// the left and right while the expansion keeps scoring well, following the
// two-phase algorithm of original_source/core/src/extractor.cpp.
package extractor

import (
	"sort"

	"github.com/igelhaus/qubiq/logging"
	"github.com/igelhaus/qubiq/qerr"
	"github.com/igelhaus/qubiq/sequence"
	"github.com/igelhaus/qubiq/text"
)

// Defaults mirror original_source/core/include/qubiq/extractor.h.
const (
	DefaultMinBigramFrequency      = 3
	DefaultMinBigramScore          = 5.0
	DefaultMaxSourceExtractionRate = 0.3
	DefaultMaxLeftExpansionDistance  = 2
	DefaultMaxRightExpansionDistance = 2
	DefaultQualityDecreaseThreshold  = 3.0
)

// TermFilter is applied to every surviving candidate once expansion settles;
// a candidate is discarded unless the configured filter passes it.
type TermFilter interface {
	Passes(s *sequence.LexemeSequence) bool
}

// TermFilterFunc adapts a plain function to TermFilter.
type TermFilterFunc func(s *sequence.LexemeSequence) bool

// Passes calls f.
func (f TermFilterFunc) Passes(s *sequence.LexemeSequence) bool { return f(s) }

// Config holds the tunable thresholds of the extraction algorithm.
type Config struct {
	MinBigramFrequency      int
	MinBigramScore          float64
	MaxSourceExtractionRate float64

	MaxLeftExpansionDistance  int
	MaxRightExpansionDistance int

	QualityDecreaseThreshold float64

	Filter TermFilter
}

// DefaultConfig returns the algorithm's default thresholds with no filter
// attached.
func DefaultConfig() Config {
	return Config{
		MinBigramFrequency:        DefaultMinBigramFrequency,
		MinBigramScore:            DefaultMinBigramScore,
		MaxSourceExtractionRate:   DefaultMaxSourceExtractionRate,
		MaxLeftExpansionDistance:  DefaultMaxLeftExpansionDistance,
		MaxRightExpansionDistance: DefaultMaxRightExpansionDistance,
		QualityDecreaseThreshold:  DefaultQualityDecreaseThreshold,
	}
}

// Extractor runs the seed-and-expand term extraction algorithm over a
// tokenized Text.
type Extractor struct {
	text *text.Text
	cfg  Config

	candidates []*sequence.LexemeSequence
	extracted  map[string]struct{}
}

// New constructs an Extractor over t with the given configuration.
func New(t *text.Text, cfg Config) *Extractor {
	return &Extractor{text: t, cfg: cfg}
}

// Candidates returns the number of candidates currently held, useful for
// progress reporting while Extract is running on another goroutine.
func (e *Extractor) Candidates() int { return len(e.candidates) }

// Extract runs the full two-phase algorithm: bigram seed collection
// followed by iterative left/right expansion. It returns qerr.KindNoSeeds
// if no bigram clears both MinBigramFrequency and MinBigramScore.
func (e *Extractor) Extract() ([]*sequence.LexemeSequence, error) {
	logging.Logger().InfoFields("starting extraction")

	e.candidates = nil
	e.extracted = make(map[string]struct{})

	if !e.collectGoodBigrams() {
		return nil, qerr.New(qerr.KindNoSeeds, "no bigram cleared the minimum frequency and score thresholds", nil)
	}

	logging.Logger().InfoFields("expanding good bigrams")

	i := 0
	for i < len(e.candidates) {
		candidate := e.candidates[i]

		numExpandedLeft := 0
		numExpandedRight := 0

		if candidate.LeftExpansionDistance() < e.cfg.MaxLeftExpansionDistance {
			numExpandedLeft = e.expand(candidate, true)
		}
		if candidate.RightExpansionDistance() < e.cfg.MaxRightExpansionDistance {
			numExpandedRight = e.expand(candidate, false)
		}
		numExpansions := numExpandedLeft + numExpandedRight

		logging.Logger().DebugFields("expanded candidate",
			logging.String("image", candidate.Image()),
			logging.Int("left", numExpandedLeft),
			logging.Int("right", numExpandedRight),
			logging.Float64("score", candidate.Score()))

		if numExpansions == 0 || e.treatAsTerm(candidate, numExpansions) {
			i++
			continue
		}

		delete(e.extracted, string(candidate.Key()))
		e.candidates = append(e.candidates[:i], e.candidates[i+1:]...)
	}

	logging.Logger().InfoFields("extraction finished")

	if e.cfg.Filter != nil {
		e.applyFilter()
	}

	return e.candidates, nil
}

func (e *Extractor) applyFilter() {
	kept := e.candidates[:0]
	for _, c := range e.candidates {
		if e.cfg.Filter.Passes(c) {
			kept = append(kept, c)
		}
	}
	e.candidates = kept
}

// SortedByScore returns Extract's result sorted by descending score. It does
// not mutate the Extractor's internal candidate list.
func (e *Extractor) SortedByScore() []*sequence.LexemeSequence {
	out := make([]*sequence.LexemeSequence, len(e.candidates))
	copy(out, e.candidates)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score() > out[j].Score() })
	return out
}

func (e *Extractor) collectGoodBigrams() bool {
	logging.Logger().InfoFields("collecting good bigrams")
	textLen := e.text.Length()
	index := e.text.Wordforms()

	for i := 0; i < textLen; i++ {
		bigram := sequence.New(index, textLen, i, 2, 1)
		if !bigram.IsValid() {
			continue
		}
		key := string(bigram.Key())
		if _, seen := e.extracted[key]; seen {
			continue
		}
		if !e.isGoodBigram(bigram) {
			continue
		}
		e.extracted[key] = struct{}{}
		e.candidates = append(e.candidates, bigram)
	}

	logging.Logger().InfoFields("good bigrams collected")
	return len(e.extracted) > 0
}

func (e *Extractor) isGoodBigram(bigram *sequence.LexemeSequence) bool {
	return bigram.Frequency() >= e.cfg.MinBigramFrequency && bigram.Score() >= e.cfg.MinBigramScore
}

func (e *Extractor) treatAsTerm(candidate *sequence.LexemeSequence, numExpansions int) bool {
	expRatio := float64(numExpansions) / float64(candidate.Frequency())
	return expRatio <= e.cfg.MaxSourceExtractionRate
}

func (e *Extractor) expand(candidate *sequence.LexemeSequence, isLeftExpanded bool) int {
	numExpanded := 0
	textLen := e.text.Length()
	index := e.text.Wordforms()

	n := candidate.Length() + 1
	n1 := 1
	if !isLeftExpanded {
		n1 = candidate.Length()
	}

	for _, offset := range candidate.Positions() {
		if isLeftExpanded {
			offset--
		}
		expanded := sequence.New(index, textLen, offset, n, n1)
		if !e.validateExpanded(expanded, candidate) {
			continue
		}
		numExpanded += e.storeExpanded(expanded, candidate, isLeftExpanded)
	}
	return numExpanded
}

func (e *Extractor) validateExpanded(expanded, source *sequence.LexemeSequence) bool {
	if !expanded.IsValid() {
		return false
	}
	if _, seen := e.extracted[string(expanded.Key())]; seen {
		return false
	}
	return e.hasBetterScore(expanded, source)
}

func (e *Extractor) hasBetterScore(expanded, source *sequence.LexemeSequence) bool {
	return expanded.Score() > 0.0 && expanded.Score() > source.Score()-e.cfg.QualityDecreaseThreshold
}

// storeExpanded records a validated expansion and inherits the source's
// expansion distances plus one more step on the side it was expanded.
func (e *Extractor) storeExpanded(expanded, source *sequence.LexemeSequence, isLeftExpanded bool) int {
	expanded.IncLeftExpansionDistance(source.LeftExpansionDistance())
	expanded.IncRightExpansionDistance(source.RightExpansionDistance())
	if isLeftExpanded {
		expanded.IncLeftExpansionDistance(1)
	} else {
		expanded.IncRightExpansionDistance(1)
	}

	e.candidates = append(e.candidates, expanded)
	e.extracted[string(expanded.Key())] = struct{}{}
	return 1
}
