// Package sequence implements LexemeSequence: an immutable n-gram value
// over a lexeme.LexemeIndex, together with the mutual-information and
// log-likelihood-ratio metrics the extractor uses to judge candidate terms.
package sequence

import (
	"math"

	"github.com/igelhaus/qubiq/lexeme"
)

// State enumerates the validity states a LexemeSequence construction can
// land on. Only State == OK carries computed metrics.
type State int

const (
	StateOK State = iota
	StateBadIndex
	StateEmpty
	StateUnigram
	StateBadBoundary
	StateBadOffset
	StateBadOffsetN
	StateHasBoundaries
)

func (s State) String() string {
	switch s {
	case StateOK:
		return "OK"
	case StateBadIndex:
		return "BAD_INDEX"
	case StateEmpty:
		return "EMPTY"
	case StateUnigram:
		return "UNIGRAM"
	case StateBadBoundary:
		return "BAD_BOUNDARY"
	case StateBadOffset:
		return "BAD_OFFSET"
	case StateBadOffsetN:
		return "BAD_OFFSET_N"
	case StateHasBoundaries:
		return "HAS_BOUNDARIES"
	default:
		return "UNKNOWN"
	}
}

// minMutualInformation is the MI threshold gating whether score equals LLR
// or is clamped to zero (spec.md §4.3, glossary "Sequence score").
const minMutualInformation = 2.5

// probabilityAdjustment nudges a degenerate H0 probability of exactly 0 or
// 1 away from the boundary so ll() doesn't take log(0).
const probabilityAdjustment = 0.001

// LexemeSequence is an immutable n-token sequence starting at offset in the
// text indexed by index, split into a prefix of length n1 and a suffix of
// length n-n1.
type LexemeSequence struct {
	index *lexeme.LexemeIndex
	state State

	n1 int

	f     int
	mi    float64
	llr   float64
	score float64

	led int
	red int

	key      []byte
	lexemes  []*lexeme.Lexeme
	offsets  []int
	position int
}

// New constructs a LexemeSequence of length n, split after n1 tokens,
// starting at offset, over index (which must cover a dense text of
// textLen tokens). Construction never fails: invalid combinations produce
// a LexemeSequence whose State() is not StateOK and whose metrics/
// containers are all zero-valued.
func New(index *lexeme.LexemeIndex, textLen, offset, n, n1 int) *LexemeSequence {
	s := &LexemeSequence{index: index, position: offset}

	s.state = calculateState(index, textLen, offset, n, n1)
	if s.state != StateOK {
		return s
	}

	s.state = s.buildSequence(offset, n)
	if s.state != StateOK {
		return s
	}

	s.n1 = n1
	s.calculateMetrics(textLen, offset, n, n1)
	return s
}

func calculateState(index *lexeme.LexemeIndex, textLen, offset, n, n1 int) State {
	if index == nil {
		return StateBadIndex
	}
	if n < 2 {
		return StateUnigram
	}
	if n1 < 1 || n1 >= n {
		return StateBadBoundary
	}
	if offset < 0 || offset >= textLen {
		return StateBadOffset
	}
	if offset+n > textLen {
		return StateBadOffsetN
	}
	return StateOK
}

func (s *LexemeSequence) buildSequence(offset, n int) State {
	lexemes := make([]*lexeme.Lexeme, 0, n)
	key := make([]byte, 0, n*8)
	for i := 0; i < n; i++ {
		l, ok := s.index.FindByPosition(offset + i)
		if !ok || l.IsBoundary() {
			return StateHasBoundaries
		}
		lexemes = append(lexemes, l)
		key = appendLexemeKey(key, l)
	}
	s.lexemes = lexemes
	s.key = key
	return StateOK
}

func appendLexemeKey(key []byte, l *lexeme.Lexeme) []byte {
	id := uint64(l.ID())
	for i := 0; i < 8; i++ {
		key = append(key, byte(id>>(8*i)))
	}
	return key
}

// State returns the sequence's validity state.
func (s *LexemeSequence) State() State { return s.state }

// IsValid reports whether State() == StateOK.
func (s *LexemeSequence) IsValid() bool { return s.state == StateOK }

// Length returns the number of lexemes composing the sequence.
func (s *LexemeSequence) Length() int { return len(s.lexemes) }

// N1 returns the length of the first subsequence.
func (s *LexemeSequence) N1() int { return s.n1 }

// Frequency returns the number of occurrences of the whole sequence.
func (s *LexemeSequence) Frequency() int { return s.f }

// MI returns the mutual information between the two subsequences.
func (s *LexemeSequence) MI() float64 { return s.mi }

// LLR returns the log-likelihood ratio between the two subsequences.
func (s *LexemeSequence) LLR() float64 { return s.llr }

// Score returns the overall sequence score: LLR gated by MI >=
// minMutualInformation, else 0.
func (s *LexemeSequence) Score() float64 { return s.score }

// LeftExpansionDistance returns how many times this sequence's lineage has
// been expanded to the left.
func (s *LexemeSequence) LeftExpansionDistance() int { return s.led }

// RightExpansionDistance returns how many times this sequence's lineage has
// been expanded to the right.
func (s *LexemeSequence) RightExpansionDistance() int { return s.red }

// IncLeftExpansionDistance increments the left expansion distance by n.
func (s *LexemeSequence) IncLeftExpansionDistance(n int) { s.led += n }

// IncRightExpansionDistance increments the right expansion distance by n.
func (s *LexemeSequence) IncRightExpansionDistance(n int) { s.red += n }

// Key returns the sequence's identity key: equal lexeme tuples produce
// byte-equal keys.
func (s *LexemeSequence) Key() []byte { return s.key }

// Lexemes returns the constituent lexemes, in order.
func (s *LexemeSequence) Lexemes() []*lexeme.Lexeme { return s.lexemes }

// Positions returns every starting position of the whole sequence in the
// source text (populated as a side effect of frequency computation).
func (s *LexemeSequence) Positions() []int { return s.offsets }

// Offset returns the starting position this sequence was constructed at.
func (s *LexemeSequence) Offset() int { return s.position }

// Image renders the sequence as a space-joined string of lexeme names, or
// "" if invalid.
func (s *LexemeSequence) Image() string {
	if s.state != StateOK {
		return ""
	}
	out := ""
	for i, l := range s.lexemes {
		if i > 0 {
			out += " "
		}
		out += l.Name()
	}
	return out
}

// calculateFrequency counts occurrences of the n-token run starting at
// offset, using the leading lexeme's recorded positions as candidates, and
// (when collectPositions is true) returns the matching start positions.
func calculateFrequency(index *lexeme.LexemeIndex, textLen, offset, n int, collectPositions bool) (int, []int) {
	lead, ok := index.FindByPosition(offset)
	if !ok {
		return 0, nil
	}
	candidates := index.PositionsOf(lead.Name())

	f := 0
	var positions []int
	for _, pos := range candidates {
		if pos+n > textLen {
			continue
		}
		if matchesAt(index, pos, offset, n) {
			f++
			if collectPositions {
				positions = append(positions, pos)
			}
		}
	}
	return f, positions
}

func matchesAt(index *lexeme.LexemeIndex, pos, offset, n int) bool {
	for i := 0; i < n; i++ {
		a, aok := index.FindByPosition(pos + i)
		b, bok := index.FindByPosition(offset + i)
		if !aok || !bok || a != b {
			return false
		}
	}
	return true
}

func (s *LexemeSequence) calculateMetrics(textLen, offset, n, n1 int) {
	f, positions := calculateFrequency(s.index, textLen, offset, n, true)
	f1, _ := calculateFrequency(s.index, textLen, offset, n1, false)
	f2, _ := calculateFrequency(s.index, textLen, offset+n1, n-n1, false)

	s.f = f
	s.offsets = positions

	N := textLen
	notF1 := N - f1
	f2NotF1 := f2 - f

	if f1 == N {
		notF1 = 1
	}

	if f2 == 0 {
		// Guards the division by zero the original implementation left
		// unguarded (spec.md §9): treat as an uninformative sequence.
		s.mi = 0
		s.llr = 0
		s.score = 0
		return
	}

	p1H0 := float64(f) / float64(f1)
	p2H0 := float64(f2NotF1) / float64(notF1)
	pH1 := float64(f2) / float64(N)

	if f == f1 {
		p1H0 -= probabilityAdjustment
	}
	if f == f2 {
		p2H0 += probabilityAdjustment
	}

	mi := float64(N) * float64(f) / float64(f1) / float64(f2)
	llr := ll(p1H0, f, f1) + ll(p2H0, f2NotF1, notF1) - ll(pH1, f, f1) - ll(pH1, f2NotF1, notF1)

	s.mi = mi
	s.llr = llr
	if mi >= minMutualInformation {
		s.score = llr
	} else {
		s.score = 0
	}
}

// ll is the logged probability mass function for a binomial distribution,
// without the binomial coefficient term (spec.md §4.3).
func ll(p float64, k, n int) float64 {
	return float64(k)*math.Log(p) + float64(n-k)*math.Log(1-p)
}
