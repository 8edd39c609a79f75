// Package notes tracks which pitches are sounding.
//
// Input handlers call [Registry.NoteOn] and [Registry.NoteOff] as events
// arrive; the render loop reads a [Registry.Snapshot] once per frame. The
// snapshot is a copy, so a frame never sees a half-applied event.
package notes

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
)

var ErrInvalidFrequency = errors.New("notes: frequency must be finite and positive")

// Note is one sounding pitch. Seq orders notes by onset.
type Note struct {
	ID        string
	Frequency float64
	Seq       uint64
}

// Registry is the active frequency set. It is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	active map[string]Note
	seq    uint64
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[string]Note)}
}

// NoteOn starts id at freq. If id is already sounding its entry is
// replaced, so a held key never counts twice.
func (r *Registry) NoteOn(id string, freq float64) error {
	if math.IsNaN(freq) || math.IsInf(freq, 0) || freq <= 0 {
		return fmt.Errorf("%w: %s at %g", ErrInvalidFrequency, id, freq)
	}

	r.mu.Lock()
	r.seq++
	r.active[id] = Note{ID: id, Frequency: freq, Seq: r.seq}
	n := len(r.active)
	r.mu.Unlock()

	slog.Debug("note on", "id", id, "freq", freq, "active", n)
	return nil
}

// NoteOff stops id and reports whether it was sounding.
func (r *Registry) NoteOff(id string) bool {
	r.mu.Lock()
	_, ok := r.active[id]
	delete(r.active, id)
	n := len(r.active)
	r.mu.Unlock()

	if ok {
		slog.Debug("note off", "id", id, "active", n)
	}
	return ok
}

// Toggle turns id off if it is sounding and on at freq otherwise.
func (r *Registry) Toggle(id string, freq float64) (bool, error) {
	if r.NoteOff(id) {
		return false, nil
	}
	if err := r.NoteOn(id, freq); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Registry) Clear() {
	r.mu.Lock()
	n := len(r.active)
	clear(r.active)
	r.mu.Unlock()

	if n > 0 {
		slog.Debug("notes cleared", "released", n)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

func (r *Registry) Active(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[id]
	return ok
}

// Snapshot returns the sounding notes ordered by onset. The slice is owned
// by the caller.
func (r *Registry) Snapshot() []Note {
	r.mu.Lock()
	out := make([]Note, 0, len(r.active))
	for _, n := range r.active {
		out = append(out, n)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// Frequencies returns the frequencies of a snapshot, in snapshot order.
func (r *Registry) Frequencies() []float64 {
	return Frequencies(r.Snapshot())
}

func Frequencies(ns []Note) []float64 {
	if len(ns) == 0 {
		return nil
	}
	out := make([]float64, len(ns))
	for i, n := range ns {
		out[i] = n.Frequency
	}
	return out
}
