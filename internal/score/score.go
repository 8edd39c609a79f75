// Package score loads scripted note input for headless runs.
package score

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/cymatics/internal/notes"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownAction = errors.New("score: unknown action")
	ErrNegativeFrame = errors.New("score: frame must be >= 0")
	ErrMissingPitch  = errors.New("score: event needs a note or frequency")
)

type Action string

const (
	ActionOn    Action = "on"
	ActionOff   Action = "off"
	ActionClear Action = "clear"
)

// Score is a named list of timed note events.
type Score struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Events      []Event `yaml:"events"`
}

// Event fires at the start of Frame, before the field is stepped.
type Event struct {
	Frame     int     `yaml:"frame"`
	Action    Action  `yaml:"action"`
	ID        string  `yaml:"id,omitempty"`
	Note      string  `yaml:"note,omitempty"`
	Frequency float64 `yaml:"frequency,omitempty"`
}

// Key is the registry id for the event: ID if set, otherwise the note name.
func (e Event) Key() string {
	if e.ID != "" {
		return e.ID
	}
	if e.Note != "" {
		return e.Note
	}
	return fmt.Sprintf("%gHz", e.Frequency)
}

// Pitch resolves the event frequency, preferring an explicit Frequency.
func (e Event) Pitch() (float64, error) {
	if e.Frequency > 0 {
		return e.Frequency, nil
	}
	if e.Note == "" {
		return 0, ErrMissingPitch
	}
	midi, err := notes.Parse(e.Note)
	if err != nil {
		return 0, err
	}
	return notes.Frequency(midi), nil
}

// Load loads a score from a YAML file
func Load(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(data []byte) (*Score, error) {
	var s Score
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Score) Validate() error {
	for i, e := range s.Events {
		if e.Frame < 0 {
			return fmt.Errorf("event %d: %w", i+1, ErrNegativeFrame)
		}
		switch e.Action {
		case ActionOn:
			if _, err := e.Pitch(); err != nil {
				return fmt.Errorf("event %d: %w", i+1, err)
			}
		case ActionOff:
			if e.ID == "" && e.Note == "" && e.Frequency <= 0 {
				return fmt.Errorf("event %d: %w", i+1, ErrMissingPitch)
			}
		case ActionClear:
		default:
			return fmt.Errorf("event %d: %w %q", i+1, ErrUnknownAction, e.Action)
		}
	}
	return nil
}

// Length is the frame count needed to play every event.
func (s *Score) Length() int {
	n := 0
	for _, e := range s.Events {
		if e.Frame+1 > n {
			n = e.Frame + 1
		}
	}
	return n
}

func (s *Score) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Target receives sequenced events. *notes.Registry satisfies it.
type Target interface {
	NoteOn(id string, freq float64) error
	NoteOff(id string) bool
	Clear()
}

// Sequencer plays a score frame by frame.
type Sequencer struct {
	events []Event
	next   int
}

// NewSequencer orders events by frame, keeping file order within a frame.
func NewSequencer(s *Score) *Sequencer {
	events := append([]Event(nil), s.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Frame < events[j].Frame })
	return &Sequencer{events: events}
}

// Apply fires every pending event scheduled at or before frame and returns
// how many fired.
func (q *Sequencer) Apply(frame int, t Target) (int, error) {
	fired := 0
	for q.next < len(q.events) && q.events[q.next].Frame <= frame {
		e := q.events[q.next]
		q.next++
		fired++

		switch e.Action {
		case ActionOn:
			f, err := e.Pitch()
			if err != nil {
				return fired, err
			}
			if err := t.NoteOn(e.Key(), f); err != nil {
				return fired, err
			}
		case ActionOff:
			t.NoteOff(e.Key())
		case ActionClear:
			t.Clear()
		}
	}
	return fired, nil
}

func (q *Sequencer) Done() bool { return q.next >= len(q.events) }

func (q *Sequencer) Reset() { q.next = 0 }

func (q *Sequencer) Length() int {
	if len(q.events) == 0 {
		return 0
	}
	return q.events[len(q.events)-1].Frame + 1
}
