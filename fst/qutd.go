// QUTD v1 is a little-endian, length-prefixed binary layout for a frozen
// Transducer, following the record structure of original_source's
// TransducerManager::save/load (spec.md §4.7.2). Labels are written as
// int32 rune values and strings as an int64 byte length followed by UTF-8
// bytes, so files are not byte-compatible with the original's UTF-16
// encoding of labels and strings. encoding/binary is used
// directly: no serialization library in the retrieval pack reproduces this
// bespoke fixed layout, and reaching for one would buy nothing over the
// handful of binary.Write/Read calls below.
package fst

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/igelhaus/qubiq/logging"
	"github.com/igelhaus/qubiq/qerr"
)

var qutdMagic = [4]byte{'Q', 'U', 'T', 'D'}

const qutdVersion = int32(1)

const (
	stateMarkFinal    = int8('f')
	stateMarkNonFinal = int8('F')
)

// SaveToFile writes the managed Transducer to path in QUTD v1 format.
func (m *TransducerManager) SaveToFile(path string, onProgress ProgressFunc) error {
	f, err := os.Create(path)
	if err != nil {
		return qerr.New(qerr.KindIoUnavailable, "cannot create output file "+path, err)
	}
	defer f.Close()
	return m.Save(f, onProgress)
}

// Save writes the managed Transducer to w in QUTD v1 format.
func (m *TransducerManager) Save(w io.Writer, onProgress ProgressFunc) error {
	if !m.t.Ready() {
		return qerr.New(qerr.KindNotReady, "cannot save an unready transducer", nil)
	}

	logging.Logger().InfoFields("saving transducer")

	bw := bufio.NewWriter(w)

	ids := m.t.states()
	if err := writeAll(bw,
		qutdMagic[:],
		i32(qutdVersion),
		i64(int64(m.t.initial)),
		i64(int64(len(ids))),
	); err != nil {
		return qerr.New(qerr.KindIoUnavailable, "error writing prologue", err)
	}

	for i, id := range ids {
		st := m.t.stateAt(id)
		if err := writeState(bw, id, st); err != nil {
			return qerr.New(qerr.KindIoUnavailable, "error writing state", err)
		}
		if onProgress != nil && (i+1)%stateProgressEvery == 0 {
			onProgress(int64(i+1), int64(len(ids)))
		}
	}

	if err := bw.Flush(); err != nil {
		return qerr.New(qerr.KindIoUnavailable, "error flushing output", err)
	}
	if onProgress != nil {
		onProgress(int64(len(ids)), int64(len(ids)))
	}

	logging.Logger().InfoFields("transducer saved")
	return nil
}

func writeState(w *bufio.Writer, id StateID, st *State) error {
	if err := writeAll(w, i64(int64(id))); err != nil {
		return err
	}

	if st.IsFinal() {
		if err := writeAll(w, i8(stateMarkFinal)); err != nil {
			return err
		}
		finals := st.FinalSuffixes()
		if err := writeAll(w, i64(int64(len(finals)))); err != nil {
			return err
		}
		for _, f := range finals {
			if err := writeString(w, f); err != nil {
				return err
			}
		}
	} else {
		if err := writeAll(w, i8(stateMarkNonFinal)); err != nil {
			return err
		}
	}

	labels := st.SortedLabels()
	if err := writeAll(w, i64(int64(len(labels)))); err != nil {
		return err
	}
	for _, label := range labels {
		t := st.transitions[label]
		if err := writeAll(w, i32(int32(label))); err != nil {
			return err
		}
		if err := writeString(w, t.output); err != nil {
			return err
		}
		if err := writeAll(w, i64(int64(t.next))); err != nil {
			return err
		}
	}
	return nil
}

// LoadFromFile reads a QUTD v1 file at path into the managed Transducer.
func (m *TransducerManager) LoadFromFile(path string, onProgress ProgressFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return qerr.New(qerr.KindIoUnavailable, "cannot open input file "+path, err)
	}
	defer f.Close()
	return m.Load(f, onProgress)
}

// Load reads a QUTD v1 stream from r into the managed Transducer. On
// failure m's Transducer is left unchanged.
func (m *TransducerManager) Load(r io.Reader, onProgress ProgressFunc) error {
	logging.Logger().InfoFields("loading transducer")

	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return qerr.New(qerr.KindIoUnavailable, "error reading magic", err)
	}
	if magic != qutdMagic {
		return qerr.New(qerr.KindBadMagic, "file does not start with QUTD", nil)
	}

	var version int32
	var initStateID int64
	var numStates int64
	if err := readAll(br, &version, &initStateID, &numStates); err != nil {
		return qerr.New(qerr.KindIoUnavailable, "error reading prologue", err)
	}
	if initStateID == 0 {
		return qerr.New(qerr.KindBadInitID, "init_state_id is 0", nil)
	}
	if numStates <= 0 {
		return qerr.New(qerr.KindBadStateCount, "num_states is not positive", nil)
	}

	fresh := New()
	id2addr := map[int64]StateID{}
	getOrAlloc := func(onDiskID int64) StateID {
		if id, ok := id2addr[onDiskID]; ok {
			return id
		}
		id := fresh.allocState(NewState())
		id2addr[onDiskID] = id
		return id
	}

	var statesRead int64
	for statesRead = 0; statesRead < numStates; statesRead++ {
		var onDiskID int64
		if err := readAll(br, &onDiskID); err != nil {
			return qerr.New(qerr.KindIoUnavailable, "error reading state id", err)
		}
		if onDiskID == 0 {
			return qerr.New(qerr.KindBadStateID, "state_id is 0", nil)
		}
		id := getOrAlloc(onDiskID)
		st := fresh.stateAt(id)

		var mark int8
		if err := readAll(br, &mark); err != nil {
			return qerr.New(qerr.KindIoUnavailable, "error reading state mark", err)
		}
		switch mark {
		case stateMarkFinal:
			st.SetFinal(true)
			var numFinals int64
			if err := readAll(br, &numFinals); err != nil {
				return qerr.New(qerr.KindIoUnavailable, "error reading final count", err)
			}
			for i := int64(0); i < numFinals; i++ {
				s, err := readString(br)
				if err != nil {
					return qerr.New(qerr.KindIoUnavailable, "error reading final string", err)
				}
				st.AddFinal(s)
			}
		case stateMarkNonFinal:
			st.SetFinal(false)
		default:
			return qerr.New(qerr.KindBadStateMark, "unrecognized state mark", nil)
		}

		var numTransitions int64
		if err := readAll(br, &numTransitions); err != nil {
			return qerr.New(qerr.KindIoUnavailable, "error reading transition count", err)
		}
		if numTransitions == 0 && !st.IsFinal() {
			return qerr.New(qerr.KindBadTransitionCount, "non-final state with zero transitions", nil)
		}

		for i := int64(0); i < numTransitions; i++ {
			var labelCode int32
			if err := readAll(br, &labelCode); err != nil {
				return qerr.New(qerr.KindIoUnavailable, "error reading label", err)
			}
			if labelCode == 0 {
				return qerr.New(qerr.KindBadLabel, "label is 0", nil)
			}
			output, err := readString(br)
			if err != nil {
				return qerr.New(qerr.KindIoUnavailable, "error reading output", err)
			}
			var nextOnDiskID int64
			if err := readAll(br, &nextOnDiskID); err != nil {
				return qerr.New(qerr.KindIoUnavailable, "error reading next_id", err)
			}
			if nextOnDiskID == 0 {
				return qerr.New(qerr.KindBadNextID, "next_id is 0", nil)
			}

			nextID := getOrAlloc(nextOnDiskID)
			st.SetNext(Label(labelCode), nextID)
			st.SetOutput(Label(labelCode), output)
		}

		if onProgress != nil && (statesRead+1)%stateProgressEvery == 0 {
			onProgress(statesRead+1, numStates)
		}
	}

	if statesRead != numStates {
		return qerr.New(qerr.KindStateCountMismatch, "fewer states read than declared", nil)
	}

	initID, ok := id2addr[initStateID]
	if !ok {
		return qerr.New(qerr.KindUnknownInitID, "init_state_id not present among loaded states", nil)
	}
	fresh.initial = initID

	if onProgress != nil {
		onProgress(numStates, numStates)
	}

	m.t = fresh
	logging.Logger().InfoFields("transducer loaded")
	return nil
}

// --- little-endian primitive I/O helpers ---

type i8 int8
type i32 int32
type i64 int64

func writeAll(w io.Writer, values ...interface{}) error {
	for _, v := range values {
		switch x := v.(type) {
		case []byte:
			if _, err := w.Write(x); err != nil {
				return err
			}
		default:
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func readAll(r io.Reader, dests ...interface{}) error {
	for _, d := range dests {
		if err := binary.Read(r, binary.LittleEndian, d); err != nil {
			return err
		}
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	b := []byte(s)
	if err := binary.Write(w, binary.LittleEndian, int64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readString(r io.Reader) (string, error) {
	var n int64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
