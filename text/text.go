// Package text tokenizes plain-text corpora over Unicode word boundaries
// and populates a dense wordform lexeme.LexemeIndex covering every token
// position, as well as an (externally populated) lemma index.
package text

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/igelhaus/qubiq/lexeme"
	"github.com/igelhaus/qubiq/logging"
	"github.com/igelhaus/qubiq/qerr"
)

// DefaultReadBufferSize is the number of runes read per chunk while
// scanning a source, matching the original implementation's default.
const DefaultReadBufferSize = 80

// Option configures a Text at construction time.
type Option func(*config)

type config struct {
	locale         string
	readBufferSize int
}

// WithLocale sets the locale used for case-folding non-boundary tokens. It
// accepts a BCP-47 tag or a 2-letter ISO code (e.g. "ru", "en").
func WithLocale(locale string) Option {
	return func(c *config) { c.locale = locale }
}

// WithReadBufferSize overrides the chunk size (in runes) used while
// scanning a source. The default is DefaultReadBufferSize.
func WithReadBufferSize(n int) Option {
	return func(c *config) { c.readBufferSize = n }
}

// Text is a tokenized corpus view: a dense wordform LexemeIndex covering
// positions [0, Length()), plus a lemma index that stays empty unless an
// external Lemmatizer merges results into it.
type Text struct {
	wordforms      *lexeme.LexemeIndex
	lemmas         *lexeme.LexemeIndex
	length         int
	readBufferSize int
	caser          cases.Caser
}

// New constructs an empty Text. An invalid locale option results in an
// error; callers that don't care about locale may ignore the error check
// since the default ("en") is always valid.
func New(opts ...Option) (*Text, error) {
	cfg := config{locale: "en", readBufferSize: DefaultReadBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	tag, err := language.Parse(cfg.locale)
	if err != nil {
		return nil, fmt.Errorf("text: invalid locale %q: %w", cfg.locale, err)
	}

	if cfg.readBufferSize <= 0 {
		cfg.readBufferSize = DefaultReadBufferSize
	}

	return &Text{
		wordforms:      lexeme.NewLexemeIndex(),
		lemmas:         lexeme.NewLexemeIndex(),
		readBufferSize: cfg.readBufferSize,
		caser:          cases.Lower(tag),
	}, nil
}

// Length returns the number of tokens indexed so far (the size of the
// dense wordform covering [0, Length())).
func (t *Text) Length() int { return t.length }

// Wordforms returns the wordform index built by tokenization.
func (t *Text) Wordforms() *lexeme.LexemeIndex { return t.wordforms }

// Lemmas returns the lemma index, populated only by an external Lemmatizer
// merging its results in; empty by default.
func (t *Text) Lemmas() *lexeme.LexemeIndex { return t.lemmas }

// MergeLemmas folds a lemma index (typically produced by a Lemmatizer) into
// this Text's lemma index.
func (t *Text) MergeLemmas(other *lexeme.LexemeIndex) {
	t.lemmas.Merge(other)
}

// AppendFile tokenizes the contents of the file at path and adds its
// tokens to the wordform index.
func (t *Text) AppendFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return qerr.New(qerr.KindIoUnavailable, "cannot open "+path, err)
	}
	defer f.Close()
	return t.appendReader(f)
}

// Append tokenizes s and adds its tokens to the wordform index.
func (t *Text) Append(s string) error {
	return t.appendReader(strings.NewReader(s))
}

// appendReader implements the chunked scan described in spec.md §4.2: read
// the configured read-buffer size (DefaultReadBufferSize unless overridden
// by WithReadBufferSize) in runes at a time, segment on Unicode word
// boundaries, and carry a token that spans a chunk boundary over to the
// next read so it is re-tokenized as a whole.
func (t *Text) appendReader(r io.Reader) error {
	br := bufio.NewReaderSize(r, 4*t.readBufferSize)

	var carry string
	for {
		runes := make([]rune, 0, t.readBufferSize)
		var readErr error
		for len(runes) < t.readBufferSize {
			rn, _, err := br.ReadRune()
			if err != nil {
				readErr = err
				break
			}
			runes = append(runes, rn)
		}

		atEOF := readErr == io.EOF
		if readErr != nil && !atEOF {
			return fmt.Errorf("text: read error: %w", readErr)
		}

		chunk := carry + string(runes)
		if chunk == "" && atEOF {
			break
		}

		words := segmentWords(chunk)
		if len(words) == 0 {
			carry = ""
		} else if atEOF {
			for _, w := range words {
				t.processToken(w)
			}
			carry = ""
		} else {
			for _, w := range words[:len(words)-1] {
				t.processToken(w)
			}
			carry = words[len(words)-1]
		}

		if atEOF {
			break
		}
	}
	return nil
}

// segmentWords splits s into Unicode word-boundary segments using uniseg's
// UAX#29 word segmentation. Each returned segment may be a run of
// whitespace, a single punctuation/symbol character, or a contiguous
// run of word characters.
func segmentWords(s string) []string {
	var words []string
	state := -1
	for len(s) > 0 {
		word, rest, newState := uniseg.FirstWordInString(s, state)
		if word == "" {
			break
		}
		words = append(words, word)
		state = newState
		s = rest
	}
	return words
}

// processToken ignores whitespace, classifies the token as a boundary or a
// wordform, case-folds non-boundary tokens under the configured locale, and
// records a new position in the wordform index.
func (t *Text) processToken(token string) {
	if isWhitespaceToken(token) {
		return
	}

	isBoundary := isBoundaryToken(token)

	var normalized string
	if isBoundary {
		normalized = token
	} else {
		normalized = t.caser.String(token)
	}

	pos := t.length
	l, isNew := t.wordforms.AddPosition(normalized, pos)
	if isNew {
		lexeme.SetBoundary(l, isBoundary)
	}
	lexeme.AddForm(l, token, pos)
	t.length++

	logging.Logger().DebugFields("indexed token", logging.String("surface", token), logging.String("normalized", normalized), logging.Int("pos", pos))
}

func isWhitespaceToken(token string) bool {
	for _, r := range token {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return len(token) > 0
}

// isBoundaryToken reports whether token consists entirely of characters in
// the Unicode punctuation category or the fixed ASCII symbol ranges named
// in spec.md §4.2.
func isBoundaryToken(token string) bool {
	has := false
	for _, r := range token {
		has = true
		if unicode.IsPunct(r) {
			continue
		}
		if r <= 0x7E && isASCIISymbol(byte(r)) {
			continue
		}
		return false
	}
	return has
}

func isASCIISymbol(b byte) bool {
	switch {
	case b <= 0x2F:
		return true
	case b >= 0x3A && b <= 0x40:
		return true
	case b >= 0x5B && b <= 0x60:
		return true
	case b >= 0x7B && b <= 0x7E:
		return true
	default:
		return false
	}
}
