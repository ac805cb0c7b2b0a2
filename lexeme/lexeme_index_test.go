package lexeme

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildHalfIndex(names []string, start int) *LexemeIndex {
	ix := NewLexemeIndex()
	for i, name := range names {
		ix.AddPosition(name, start+i)
	}
	return ix
}

func TestLexemeIndexMerge(t *testing.T) {
	index1 := buildHalfIndex([]string{"a", "man", "wants", "to", "see", "the"}, 0)
	index2 := buildHalfIndex([]string{"man", "men", "will", "never", "see"}, 6)

	index1.Merge(index2)

	if got, want := index1.PositionsOf("man"), []int{1, 6}; !cmp.Equal(got, want) {
		t.Errorf("positionsOf(man) mismatch (-got +want):\n%s", cmp.Diff(got, want))
	}
	if got, want := index1.PositionsOf("see"), []int{4, 10}; !cmp.Equal(got, want) {
		t.Errorf("positionsOf(see) mismatch (-got +want):\n%s", cmp.Diff(got, want))
	}
	if got := index1.NumUniquePositions(); got != 11 {
		t.Errorf("numUniquePositions = %v, want 11", got)
	}
	if got := index2.NumUniquePositions(); got != 5 {
		t.Errorf("index2 was mutated by merge: numUniquePositions = %v, want 5", got)
	}
}

func TestLexemeIndexAddPositionRejectsNegative(t *testing.T) {
	ix := NewLexemeIndex()
	l, isNew := ix.AddPosition("foo", -1)
	if l != nil || isNew {
		t.Errorf("AddPosition with negative position = (%v, %v), want (nil, false)", l, isNew)
	}
	if ix.Size() != 0 {
		t.Errorf("Size() = %v, want 0", ix.Size())
	}
}

func TestLexemeIndexInvariants(t *testing.T) {
	ix := NewLexemeIndex()
	ix.AddPosition("cat", 0)
	ix.AddPosition("sat", 1)
	ix.AddPosition("cat", 2)

	for _, name := range []string{"cat", "sat"} {
		l, ok := ix.FindByName(name)
		if !ok {
			t.Fatalf("FindByName(%q) missing", name)
		}
		for _, pos := range ix.PositionsOf(name) {
			atPos, ok := ix.FindByPosition(pos)
			if !ok || atPos != l {
				t.Errorf("atPosition[%v] = %v, want %v", pos, atPos, l)
			}
		}
	}
	if ix.NumUniquePositions() != 3 {
		t.Errorf("NumUniquePositions() = %v, want 3", ix.NumUniquePositions())
	}
}

func TestLexemeIndexFindByNameUnknown(t *testing.T) {
	ix := NewLexemeIndex()
	if _, ok := ix.FindByName("missing"); ok {
		t.Errorf("FindByName(missing) reported ok=true")
	}
	if _, ok := ix.FindByPosition(0); ok {
		t.Errorf("FindByPosition(0) reported ok=true on empty index")
	}
}

func TestCopyFromIndex(t *testing.T) {
	src := NewLexemeIndex()
	src.AddPosition("dog", 0)
	src.AddPosition("dog", 5)

	dst := NewLexemeIndex()
	dst.CopyFromIndex(src, "dog")

	if got, want := dst.PositionsOf("dog"), []int{0, 5}; !cmp.Equal(got, want) {
		t.Errorf("PositionsOf(dog) mismatch (-got +want):\n%s", cmp.Diff(got, want))
	}

	// No-op when already owned.
	dst.AddPosition("dog", 9)
	dst.CopyFromIndex(src, "dog")
	if got, want := dst.PositionsOf("dog"), []int{0, 5, 9}; !cmp.Equal(got, want) {
		t.Errorf("PositionsOf(dog) after no-op copy mismatch (-got +want):\n%s", cmp.Diff(got, want))
	}
}
