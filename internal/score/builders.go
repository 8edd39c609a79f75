package score

import "fmt"

// Hold sounds every note together from frame 0 for frames frames.
func Hold(frames int, names ...string) *Score {
	s := &Score{Name: "hold", Description: fmt.Sprintf("hold %v", names)}
	for _, n := range names {
		s.Events = append(s.Events, Event{Frame: 0, Action: ActionOn, Note: n})
	}
	if frames > 0 {
		s.Events = append(s.Events, Event{Frame: frames, Action: ActionClear})
	}
	return s
}

// Arpeggio plays names one after another, each held for step frames, and
// repeats the pattern cycles times. A silent gap of rest frames follows.
func Arpeggio(step, cycles, rest int, names ...string) *Score {
	s := &Score{Name: "arpeggio", Description: fmt.Sprintf("arpeggio %v x%d", names, cycles)}
	frame := 0
	for c := 0; c < cycles; c++ {
		for _, n := range names {
			s.Events = append(s.Events,
				Event{Frame: frame, Action: ActionOn, Note: n},
				Event{Frame: frame + step, Action: ActionOff, Note: n},
			)
			frame += step
		}
	}
	if rest > 0 {
		s.Events = append(s.Events, Event{Frame: frame + rest, Action: ActionClear})
	}
	return s
}
