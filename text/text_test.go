package text

import (
	"strings"
	"testing"

	"github.com/igelhaus/qubiq/qerr"
)

func TestAppendTokenizesWordsAndPunctuation(t *testing.T) {
	tx, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := tx.Append("The cat sat."); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	want := []string{"the", "cat", "sat", "."}
	if tx.Length() != len(want) {
		t.Fatalf("Length() = %d, want %d", tx.Length(), len(want))
	}
	for pos, name := range want {
		l, ok := tx.Wordforms().FindByPosition(pos)
		if !ok {
			t.Fatalf("FindByPosition(%d) missing", pos)
		}
		if l.Name() != name {
			t.Errorf("position %d = %q, want %q", pos, l.Name(), name)
		}
	}

	period, ok := tx.Wordforms().FindByName(".")
	if !ok || !period.IsBoundary() {
		t.Errorf(". is not recorded as a boundary lexeme")
	}
	cat, ok := tx.Wordforms().FindByName("cat")
	if !ok || cat.IsBoundary() {
		t.Errorf("cat is recorded as a boundary lexeme")
	}
}

func TestAppendLowercasesUnderDefaultLocale(t *testing.T) {
	tx, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := tx.Append("Database CONNECTION"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, ok := tx.Wordforms().FindByName("database"); !ok {
		t.Errorf("expected lowercased form \"database\" to be indexed")
	}
	if _, ok := tx.Wordforms().FindByName("connection"); !ok {
		t.Errorf("expected lowercased form \"connection\" to be indexed")
	}
}

func TestAppendPreservesOriginalSurfaceAsForm(t *testing.T) {
	tx, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := tx.Append("Database"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	l, ok := tx.Wordforms().FindByName("database")
	if !ok {
		t.Fatalf("FindByName(database) missing")
	}
	forms := l.Forms()
	if len(forms) != 1 || forms[0].Surface != "Database" {
		t.Errorf("Forms() = %+v, want a single form with surface \"Database\"", forms)
	}
}

func TestAppendHandlesRussianCaseFoldingUnderRuLocale(t *testing.T) {
	tx, err := New(WithLocale("ru"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := tx.Append("Тест ТЕСТ"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, ok := tx.Wordforms().FindByName("тест"); !ok {
		t.Errorf("expected lowercased Cyrillic form \"тест\" to be indexed")
	}
}

func TestNewRejectsInvalidLocale(t *testing.T) {
	if _, err := New(WithLocale("???")); err == nil {
		t.Fatalf("New() error = nil, want an error for an invalid locale tag")
	}
}

func TestAppendCarriesTokenAcrossChunkBoundary(t *testing.T) {
	tx, err := New(WithReadBufferSize(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	// With a 2-rune read buffer, "lexicographer" spans many chunks; the
	// carry-over logic must still index it as a single token.
	if err := tx.Append("lexicographer test"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, ok := tx.Wordforms().FindByName("lexicographer"); !ok {
		t.Errorf("expected \"lexicographer\" to survive chunked re-tokenization as one token")
	}
	if _, ok := tx.Wordforms().FindByName("test"); !ok {
		t.Errorf("expected \"test\" to be indexed")
	}
}

func TestAppendFileReportsIoUnavailableOnMissingFile(t *testing.T) {
	tx, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = tx.AppendFile("/no/such/path/exists")
	if !qerr.Is(err, qerr.KindIoUnavailable) {
		t.Fatalf("AppendFile() error = %v, want KindIoUnavailable", err)
	}
}

func TestMergeLemmasFoldsIntoLemmaIndex(t *testing.T) {
	tx, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := tx.Append("running"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// Build a tiny external lemma index the way a Lemmatizer would.
	lemmas := tx.Lemmas()
	if lemmas.Size() != 0 {
		t.Fatalf("Lemmas() non-empty before any merge")
	}

	srcText, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := srcText.Append("run"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	tx.MergeLemmas(srcText.Wordforms())
	if tx.Lemmas().Size() == 0 {
		t.Errorf("MergeLemmas() did not populate the lemma index")
	}
}

func TestAppendIgnoresWhitespaceTokens(t *testing.T) {
	tx, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := tx.Append("a   b\t\tc\n\nd"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if tx.Length() != 4 {
		t.Errorf("Length() = %d, want 4 (whitespace tokens must not be indexed)", tx.Length())
	}
}

func TestSegmentWordsMatchesSimpleWhitespaceSplit(t *testing.T) {
	words := segmentWords("one two three")
	joined := strings.Join(words, "|")
	if joined != "one| |two| |three" {
		t.Errorf("segmentWords() = %q, want \"one| |two| |three\"", joined)
	}
}
