package extractor

import "github.com/igelhaus/qubiq/sequence"

// englishClosedClass rejects a sequence whose first or last lexeme belongs
// to one of the closed word classes listed below. It is intentionally a
// small, fixed set rather than a POS tagger: good enough to reject extracted
// candidates that start with "the"/"a" or end with a preposition.
type englishClosedClass struct {
	words map[string]struct{}
}

// NewEnglishFilter returns a TermFilter that rejects sequences beginning or
// ending with an English article, conjunction, preposition, or
// demonstrative.
func NewEnglishFilter() TermFilter {
	words := map[string]struct{}{}
	for _, w := range englishArticles {
		words[w] = struct{}{}
	}
	for _, w := range englishConjunctions {
		words[w] = struct{}{}
	}
	for _, w := range englishPrepositions {
		words[w] = struct{}{}
	}
	for _, w := range englishDemonstratives {
		words[w] = struct{}{}
	}
	return &englishClosedClass{words: words}
}

// Passes implements TermFilter.
func (f *englishClosedClass) Passes(s *sequence.LexemeSequence) bool {
	lexemes := s.Lexemes()
	if len(lexemes) == 0 {
		return true
	}
	if _, bad := f.words[lexemes[0].Name()]; bad {
		return false
	}
	if _, bad := f.words[lexemes[len(lexemes)-1].Name()]; bad {
		return false
	}
	return true
}

var englishArticles = []string{"a", "an", "the"}

var englishConjunctions = []string{
	"and", "or", "but", "nor", "so", "yet", "for",
}

var englishPrepositions = []string{
	"in", "on", "at", "by", "to", "of", "with", "from", "into", "onto",
	"over", "under", "above", "below", "between", "among", "through",
	"during", "before", "after", "about", "against", "without", "within",
	"since", "than", "as",
}

var englishDemonstratives = []string{"this", "that", "these", "those"}
