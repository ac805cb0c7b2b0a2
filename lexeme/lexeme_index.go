package lexeme

// LexemeIndex maintains three coherent mappings over a growing set of named
// lexemes: byName (name -> Lexeme), positionsOf (name -> ordered positions)
// and atPosition (position -> Lexeme). Token positions are unique across the
// whole index; two distinct lexemes never share a position.
type LexemeIndex struct {
	byName      map[string]*Lexeme
	positionsOf map[string][]int
	atPosition  map[int]*Lexeme
	nextID      int64
}

// NewLexemeIndex returns an empty index.
func NewLexemeIndex() *LexemeIndex {
	return &LexemeIndex{
		byName:      make(map[string]*Lexeme),
		positionsOf: make(map[string][]int),
		atPosition:  make(map[int]*Lexeme),
	}
}

// AddPosition records that the lexeme named name occurs at pos. Negative
// positions are rejected silently. Returns the lexeme (existing or freshly
// created) and whether it was freshly created.
func (ix *LexemeIndex) AddPosition(name string, pos int) (*Lexeme, bool) {
	return ix.addPosition(name, pos, false)
}

// addPosition is the shared implementation behind AddPosition and the
// boundary-preserving copy/merge helpers below. boundaryHint is only
// consulted when a new Lexeme is created.
func (ix *LexemeIndex) addPosition(name string, pos int, boundaryHint bool) (*Lexeme, bool) {
	if pos < 0 {
		return nil, false
	}

	l, exists := ix.byName[name]
	if !exists {
		l = newLexeme(ix.nextID, name, boundaryHint)
		ix.nextID++
		ix.byName[name] = l
	}

	ix.positionsOf[name] = append(ix.positionsOf[name], pos)
	ix.atPosition[pos] = l

	return l, !exists
}

// AddPositions applies AddPosition for every position in positions.
func (ix *LexemeIndex) AddPositions(name string, positions []int) {
	for _, pos := range positions {
		ix.AddPosition(name, pos)
	}
}

// CopyFromIndex clones other's named lexeme (and its positional history)
// into this index. It is a no-op if this index already owns name.
func (ix *LexemeIndex) CopyFromIndex(other *LexemeIndex, name string) {
	if _, ok := ix.byName[name]; ok {
		return
	}
	src, ok := other.byName[name]
	if !ok {
		return
	}

	var dst *Lexeme
	for _, pos := range other.positionsOf[name] {
		dst, _ = ix.addPosition(name, pos, src.isBoundary)
	}
	for _, f := range src.forms {
		dst.addForm(f.Surface, f.Position, false)
	}
}

// Merge folds every (name, positions) pair of other into this index,
// preserving each name's boundary flag when the lexeme is new to this
// index. Callers are responsible for keeping the global
// position-uniqueness invariant across the two indexes.
func (ix *LexemeIndex) Merge(other *LexemeIndex) {
	for name, positions := range other.positionsOf {
		src := other.byName[name]
		for _, pos := range positions {
			ix.addPosition(name, pos, src.isBoundary)
		}
	}
}

// Size returns the number of distinct lexeme names.
func (ix *LexemeIndex) Size() int { return len(ix.byName) }

// NumUniquePositions returns the number of distinct positions recorded.
func (ix *LexemeIndex) NumUniquePositions() int { return len(ix.atPosition) }

// FindByName returns the lexeme registered under name, if any.
func (ix *LexemeIndex) FindByName(name string) (*Lexeme, bool) {
	l, ok := ix.byName[name]
	return l, ok
}

// FindByPosition returns the lexeme occupying pos, if any.
func (ix *LexemeIndex) FindByPosition(pos int) (*Lexeme, bool) {
	l, ok := ix.atPosition[pos]
	return l, ok
}

// PositionsOf returns the recorded positions for name, in insertion order.
func (ix *LexemeIndex) PositionsOf(name string) []int {
	positions := ix.positionsOf[name]
	out := make([]int, len(positions))
	copy(out, positions)
	return out
}

// SetBoundary sets the boundary flag for a freshly created lexeme. It is an
// exported helper for text.Text, which alone knows how to classify
// a raw token; it has no effect once called more than once for the same
// lexeme, matching the invariant that isBoundary is stable after first
// assignment.
func SetBoundary(l *Lexeme, isBoundary bool) {
	if l.boundarySet {
		return
	}
	l.isBoundary = isBoundary
	l.boundarySet = true
}

// AddForm records a raw surface occurrence against an existing lexeme. It is
// exposed for callers (text.Text) that already hold the *Lexeme returned by
// AddPosition and want to attach the original (non-normalized) surface text.
func AddForm(l *Lexeme, surface string, pos int) bool {
	return l.addForm(surface, pos, false)
}
