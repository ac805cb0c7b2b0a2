// Package fst implements a minimal acyclic subsequential transducer: the
// online construction algorithm (incremental state interning by structural
// hash), lookup, and the QUTD binary persistence format, following the
// design of original_source/util/{transducer,transducer_manager,
// transducer_state,transducer_state_transition}.{h,cpp}.
package fst

import (
	"hash/fnv"
	"sort"
)

// Label is a single transition symbol. The original implementation keys
// transitions by UTF-16 code unit (QChar); this port keys by rune, which is
// both more idiomatic in Go and strictly more correct for non-BMP input.
type Label = rune

// StateID is an opaque handle into a Transducer's state arena. The zero
// value never identifies an allocated state.
type StateID uint64

// Transition is one outgoing edge of a State: a label, the output string
// emitted while taking it, and the handle of the state it leads to.
type Transition struct {
	label  Label
	output string
	next   StateID
}

// Label returns the transition's symbol.
func (t *Transition) Label() Label { return t.label }

// Output returns the transition's output string.
func (t *Transition) Output() string { return t.output }

// Next returns the handle of the state this transition leads to.
func (t *Transition) Next() StateID { return t.next }

// State is one node of the transducer: a set of labeled outgoing
// transitions plus, if final, a sorted set of final suffixes.
type State struct {
	isFinal     bool
	transitions map[Label]*Transition
	finals      []string
}

// NewState returns an empty, non-final state.
func NewState() *State {
	return &State{transitions: make(map[Label]*Transition)}
}

// IsFinal reports whether the state is final along some trace.
func (s *State) IsFinal() bool { return s.isFinal }

// SetFinal sets the state's finality flag.
func (s *State) SetFinal(final bool) { s.isFinal = final }

// Next returns the handle the label transitions to, if any.
func (s *State) Next(label Label) (StateID, bool) {
	t, ok := s.transitions[label]
	if !ok {
		return 0, false
	}
	return t.next, true
}

// SetNext sets the destination of the transition on label, creating the
// transition if it doesn't already exist.
func (s *State) SetNext(label Label, next StateID) {
	t, ok := s.transitions[label]
	if !ok {
		t = &Transition{label: label}
		s.transitions[label] = t
	}
	t.next = next
}

// Output returns the output string attached to the transition on label, or
// "" if the label has no transition.
func (s *State) Output(label Label) string {
	t, ok := s.transitions[label]
	if !ok {
		return ""
	}
	return t.output
}

// SetOutput sets the output string of the transition on label. It is a
// silent no-op if the label has no transition.
func (s *State) SetOutput(label Label, output string) {
	t, ok := s.transitions[label]
	if !ok {
		return
	}
	t.output = output
}

// UpdateOutputsWithPrefix prepends prefix to every outgoing transition's
// output.
func (s *State) UpdateOutputsWithPrefix(prefix string) {
	if prefix == "" {
		return
	}
	for _, t := range s.transitions {
		t.output = prefix + t.output
	}
}

// AddFinal inserts final into the sorted, duplicate-free final-suffix list.
// Returns false if final was already present.
func (s *State) AddFinal(final string) bool {
	idx := sort.SearchStrings(s.finals, final)
	if idx < len(s.finals) && s.finals[idx] == final {
		return false
	}
	s.finals = append(s.finals, "")
	copy(s.finals[idx+1:], s.finals[idx:])
	s.finals[idx] = final
	return true
}

// UpdateFinalsWithPrefix prepends prefix to every final suffix, or, if the
// state carries no final suffixes yet, appends prefix as the sole one.
func (s *State) UpdateFinalsWithPrefix(prefix string) {
	if len(s.finals) == 0 {
		s.finals = append(s.finals, prefix)
		return
	}
	for i := range s.finals {
		s.finals[i] = prefix + s.finals[i]
	}
}

// FinalSuffixes returns a copy of the state's final-suffix list.
func (s *State) FinalSuffixes() []string {
	out := make([]string, len(s.finals))
	copy(out, s.finals)
	return out
}

// Clear resets the state to empty, non-final, with no transitions.
func (s *State) Clear() {
	s.isFinal = false
	s.finals = nil
	for k := range s.transitions {
		delete(s.transitions, k)
	}
}

// SortedLabels returns the state's outgoing labels in ascending order.
func (s *State) SortedLabels() []Label {
	out := make([]Label, 0, len(s.transitions))
	for l := range s.transitions {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal reports whether s and other are structurally equivalent: same
// finality, same final-suffix set, and same transitions by label with equal
// outputs and equal next handles. Because states are interned during
// construction, handle equality is sufficient to compare "next" — two
// states that ought to be equal are the same state.
func (s *State) Equal(other *State) bool {
	if other == nil {
		return false
	}
	if s.isFinal != other.isFinal {
		return false
	}
	if len(s.finals) != len(other.finals) {
		return false
	}
	for i := range s.finals {
		if s.finals[i] != other.finals[i] {
			return false
		}
	}
	if len(s.transitions) != len(other.transitions) {
		return false
	}
	for label, t := range s.transitions {
		ot, ok := other.transitions[label]
		if !ok || ot.next != t.next || ot.output != t.output {
			return false
		}
	}
	return true
}

// Key computes a stable structural hash of the state: a marker byte for
// finality, then for each transition (in label-sorted order) a mix of
// (label, next handle, output hash), then — if final — a hash of the
// '|'-joined final-suffix list. Equal states always produce equal keys.
func (s *State) Key(seed uint64) uint64 {
	h := fnv.New64a()
	writeUint64(h, seed)

	if s.isFinal {
		h.Write([]byte{'f'})
	} else {
		h.Write([]byte{'F'})
	}

	for _, label := range s.SortedLabels() {
		t := s.transitions[label]
		writeUint64(h, uint64(label))
		writeUint64(h, uint64(t.next))
		writeUint64(h, stringHash(t.output))
	}

	if s.isFinal {
		writeUint64(h, stringHash(joinFinals(s.finals)))
	}

	return h.Sum64()
}

func joinFinals(finals []string) string {
	out := ""
	for i, f := range finals {
		if i > 0 {
			out += "|"
		}
		out += f
	}
	return out
}

func stringHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}

func writeUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	h.Write(buf[:])
}
