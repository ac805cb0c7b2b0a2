// Package lexeme provides the named-class building blocks that the rest of
// the term-extraction core is built on: a Lexeme groups together every text
// position that shares a normalized surface form, and a LexemeIndex keeps
// the bidirectional mapping between names, positions, and lexemes.
package lexeme

// Form is one surface occurrence of a lexeme: the raw (pre-normalization)
// text at a given token position.
type Form struct {
	Surface  string
	Position int
}

// Lexeme is a uniquely-named class of word-form (or lemma) occurrences.
// IsBoundary starts from the value given at construction and can be set
// once more by SetBoundary (text.Text does so right after creating the
// lexeme from a token); after that call it no longer changes.
type Lexeme struct {
	id          int64
	name        string
	isBoundary  bool
	boundarySet bool
	forms       []Form
	seenPos     map[int]struct{}
}

func newLexeme(id int64, name string, isBoundary bool) *Lexeme {
	return &Lexeme{
		id:         id,
		name:       name,
		isBoundary: isBoundary,
		seenPos:    make(map[int]struct{}),
	}
}

// ID returns a stable integer identity for the lexeme within its owning
// LexemeIndex. Sequence keys are built from this id rather than from a
// pointer so that keys survive index copies and allocator churn.
func (l *Lexeme) ID() int64 { return l.id }

// Name returns the lexeme's normalized name.
func (l *Lexeme) Name() string { return l.name }

// IsBoundary reports whether the lexeme's name consists entirely of
// punctuation-class characters.
func (l *Lexeme) IsBoundary() bool { return l.isBoundary }

// Forms returns the surface occurrences recorded for this lexeme, in the
// order they were added.
func (l *Lexeme) Forms() []Form {
	out := make([]Form, len(l.forms))
	copy(out, l.forms)
	return out
}

// addForm records a new (surface, position) occurrence. Overwrite controls
// whether an existing position's surface is replaced; by default repeated
// positions are rejected (returns false).
func (l *Lexeme) addForm(surface string, pos int, overwrite bool) bool {
	if _, ok := l.seenPos[pos]; ok {
		if !overwrite {
			return false
		}
		for i := range l.forms {
			if l.forms[i].Position == pos {
				l.forms[i].Surface = surface
				return true
			}
		}
		return false
	}
	l.seenPos[pos] = struct{}{}
	l.forms = append(l.forms, Form{Surface: surface, Position: pos})
	return true
}
