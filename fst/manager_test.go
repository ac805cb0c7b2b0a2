package fst

import (
	"bytes"
	"strings"
	"testing"

	"github.com/igelhaus/qubiq/qerr"
)

const lexemeDict = "lexeme\tlexeme\nlexemes\tlexeme\n"

func buildFromString(t *testing.T, dict string) *TransducerManager {
	t.Helper()
	m := NewTransducerManager()
	if err := m.Build(strings.NewReader(dict), DefaultBuildOptions(), nil); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m
}

func assertSearch(t *testing.T, tr *Transducer, key string, want []string) {
	t.Helper()
	got := tr.Search(key)
	if len(got) != len(want) {
		t.Errorf("Search(%q) = %v, want %v", key, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Search(%q)[%d] = %q, want %q", key, i, got[i], want[i])
		}
	}
}

func TestBuildAndSearchMinimalTransducer(t *testing.T) {
	m := buildFromString(t, lexemeDict)
	tr := m.Transducer()

	assertSearch(t, tr, "lexeme", []string{"lexeme"})
	assertSearch(t, tr, "lexemes", []string{"lexeme"})
	assertSearch(t, tr, "lex", nil)
	assertSearch(t, tr, "lexemezzz", nil)
	assertSearch(t, tr, "aaaaaa", nil)
}

func TestSaveLoadRoundtripPreservesLookups(t *testing.T) {
	m := buildFromString(t, lexemeDict)

	var buf bytes.Buffer
	if err := m.Save(&buf, nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := NewTransducerManager()
	if err := loaded.Load(bytes.NewReader(buf.Bytes()), nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	tr := loaded.Transducer()

	assertSearch(t, tr, "lexeme", []string{"lexeme"})
	assertSearch(t, tr, "lexemes", []string{"lexeme"})
	assertSearch(t, tr, "lex", nil)
	assertSearch(t, tr, "lexemezzz", nil)
	assertSearch(t, tr, "aaaaaa", nil)
}

func TestBuildMinimizesSharedSuffixes(t *testing.T) {
	// "cord" and "word" share the suffix "ord" exactly, so the automaton must
	// collapse the two tails into the same interned state chain: four tail
	// states plus the initial state.
	m := buildFromString(t, "cord\tc\nword\tw\n")
	tr := m.Transducer()

	assertSearch(t, tr, "cord", []string{"c"})
	assertSearch(t, tr, "word", []string{"w"})
	if got := tr.NumStates(); got != 5 {
		t.Errorf("NumStates() = %d, want 5 (shared tail interned once)", got)
	}
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	m := NewTransducerManager()
	err := m.Build(strings.NewReader(""), DefaultBuildOptions(), nil)
	if !qerr.Is(err, qerr.KindEmptyInput) {
		t.Fatalf("Build(\"\") error = %v, want KindEmptyInput", err)
	}
}

func TestBuildRejectsOversizedKey(t *testing.T) {
	m := NewTransducerManager()
	opts := BuildOptions{MaxWordSize: 2}
	err := m.Build(strings.NewReader("abc\tx\n"), opts, nil)
	if !qerr.Is(err, qerr.KindWordTooLong) {
		t.Fatalf("Build() error = %v, want KindWordTooLong", err)
	}
}

func TestSaveRejectsUnreadyTransducer(t *testing.T) {
	m := NewTransducerManager()
	var buf bytes.Buffer
	err := m.Save(&buf, nil)
	if !qerr.Is(err, qerr.KindNotReady) {
		t.Fatalf("Save() error = %v, want KindNotReady", err)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	m := NewTransducerManager()
	err := m.Load(strings.NewReader("nope, not a transducer file at all"), nil)
	if !qerr.Is(err, qerr.KindBadMagic) {
		t.Fatalf("Load() error = %v, want KindBadMagic", err)
	}
}

func TestSearchOnEmptyTransducerReturnsNil(t *testing.T) {
	tr := New()
	if got := tr.Search("anything"); got != nil {
		t.Errorf("Search() on unready transducer = %v, want nil", got)
	}
}

func TestSearchTraceRecordsFailurePosition(t *testing.T) {
	m := buildFromString(t, lexemeDict)
	tr := m.Transducer()

	_, trace := tr.SearchTrace("lexemezzz")
	if trace.ReachedPos != 6 {
		t.Errorf("trace.ReachedPos = %d, want 6", trace.ReachedPos)
	}
	if trace.IsReachedPosFinal {
		t.Errorf("trace.IsReachedPosFinal = true, want false (walk failed mid-string)")
	}
}

func TestBuildProgressCallbackFires(t *testing.T) {
	bigDict := strings.Repeat("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\tx\n", 200)
	m := NewTransducerManager()

	var calls int
	err := m.Build(strings.NewReader(bigDict), DefaultBuildOptions(), func(done, total int64) {
		calls++
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if calls == 0 {
		t.Errorf("progress callback never called")
	}
}
