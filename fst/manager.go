package fst

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/igelhaus/qubiq/logging"
	"github.com/igelhaus/qubiq/qerr"
)

// DefaultMaxWordSize is the maximum key length accepted during Build,
// matching original_source's DEFAULT_MAX_WORD_SIZE.
const DefaultMaxWordSize = 1024

// buildProgressEvery is how many bytes of input trigger a progress callback
// during Build (spec.md §4.7.1 "approximately every ~4KB read").
const buildProgressEvery = 4096

// stateProgressEvery is how many processed states trigger a progress
// callback during Save/Load (spec.md §4.7.2).
const stateProgressEvery = 1024

// BuildOptions configures TransducerManager.Build.
type BuildOptions struct {
	// MaxWordSize caps the accepted key length. Zero or negative selects
	// DefaultMaxWordSize.
	MaxWordSize int
}

// DefaultBuildOptions returns the documented defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{MaxWordSize: DefaultMaxWordSize}
}

// ProgressFunc reports (done, total) progress; total may be 0 if unknown
// (as is the case for Build's byte count against a streaming io.Reader).
type ProgressFunc func(done, total int64)

// TransducerManager builds, persists, and restores a Transducer.
type TransducerManager struct {
	t *Transducer
}

// NewTransducerManager returns a manager owning a fresh, empty Transducer.
func NewTransducerManager() *TransducerManager {
	return &TransducerManager{t: New()}
}

// WrapTransducerManager returns a manager operating on an existing
// Transducer. A successful Build or Load makes the manager hold a new
// Transducer; t itself is not modified.
func WrapTransducerManager(t *Transducer) *TransducerManager {
	return &TransducerManager{t: t}
}

// Transducer returns the managed Transducer.
func (m *TransducerManager) Transducer() *Transducer { return m.t }

// BuildFromFile opens path and calls Build against its contents.
func (m *TransducerManager) BuildFromFile(path string, opts BuildOptions, onProgress ProgressFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return qerr.New(qerr.KindIoUnavailable, "cannot open build input "+path, err)
	}
	defer f.Close()
	return m.Build(f, opts, onProgress)
}

// Build runs the online minimal-FST construction algorithm (spec.md
// §4.7.1) over r, a stream of "key\tvalue" lines sorted ascending by key.
// On success m's Transducer is replaced; on failure it is left unchanged.
func (m *TransducerManager) Build(r io.Reader, opts BuildOptions, onProgress ProgressFunc) error {
	maxWordSize := opts.MaxWordSize
	if maxWordSize < 1 {
		maxWordSize = DefaultMaxWordSize
	}

	logging.Logger().InfoFields("starting transducer build")

	fresh := New()
	tmpStates := make([]*State, maxWordSize+1)
	for i := range tmpStates {
		tmpStates[i] = NewState()
	}
	interned := map[uint64][]StateID{}

	intern := func(s *State) StateID {
		h := s.Key(0)
		for _, id := range interned[h] {
			if existing := fresh.stateAt(id); existing != nil && existing.Equal(s) {
				return id
			}
		}
		id := fresh.allocState(cloneState(s))
		interned[h] = append(interned[h], id)
		return id
	}

	var previousWord []rune
	var bytesRead int64
	var lastReported int64
	var numLines int64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		bytesRead += int64(len(line)) + 1
		numLines++

		key, value, ok := strings.Cut(line, "\t")
		if !ok {
			key, value = line, ""
		}
		current := []rune(key)
		currentOutput := value

		if len(current) > maxWordSize {
			return qerr.New(qerr.KindWordTooLong, "key exceeds max word size", nil)
		}

		p := commonPrefixLenRunes(previousWord, current)

		for i := len(previousWord); i >= p+1; i-- {
			childID := intern(tmpStates[i])
			tmpStates[i-1].SetNext(previousWord[i-1], childID)
		}

		for i := p + 1; i <= len(current); i++ {
			tmpStates[i].Clear()
			tmpStates[i-1].SetNext(current[i-1], 0)
		}

		if !runesEqual(current, previousWord) {
			tmpStates[len(current)].SetFinal(true)
		}

		for i := 0; i < p; i++ {
			curOut := tmpStates[i].Output(current[i])
			cp := commonPrefixString(curOut, currentOutput)
			suffix := curOut[len(cp):]

			tmpStates[i].SetOutput(current[i], cp)
			if suffix != "" {
				tmpStates[i].UpdateOutputsWithPrefix(suffix)
				tmpStates[i].SetOutput(current[i], cp)
			}
			if tmpStates[i].IsFinal() {
				tmpStates[i].UpdateFinalsWithPrefix(suffix)
			}
			currentOutput = currentOutput[len(cp):]
		}

		if runesEqual(current, previousWord) {
			tmpStates[len(current)].AddFinal(currentOutput)
		} else {
			tmpStates[p].SetOutput(current[p], currentOutput)
		}

		previousWord = current

		if onProgress != nil && bytesRead-lastReported >= buildProgressEvery {
			onProgress(bytesRead, 0)
			lastReported = bytesRead
		}
	}
	if err := scanner.Err(); err != nil {
		return qerr.New(qerr.KindIoUnavailable, "error reading build input", err)
	}

	if numLines == 0 {
		return qerr.New(qerr.KindEmptyInput, "build input contained no lines", nil)
	}

	for i := len(previousWord); i >= 1; i-- {
		childID := intern(tmpStates[i])
		tmpStates[i-1].SetNext(previousWord[i-1], childID)
	}
	fresh.initial = intern(tmpStates[0])

	if onProgress != nil {
		onProgress(bytesRead, bytesRead)
	}

	m.t = fresh
	logging.Logger().InfoFields("transducer build finished")
	return nil
}

func cloneState(s *State) *State {
	c := NewState()
	c.isFinal = s.isFinal
	c.finals = append([]string(nil), s.finals...)
	for label, t := range s.transitions {
		c.transitions[label] = &Transition{label: t.label, output: t.output, next: t.next}
	}
	return c
}

func commonPrefixLenRunes(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonPrefixString(a, b string) string {
	ar, br := []rune(a), []rune(b)
	n := commonPrefixLenRunes(ar, br)
	return string(ar[:n])
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
