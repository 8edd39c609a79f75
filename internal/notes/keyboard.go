package notes

const (
	// LowestNote and HighestNote bound the playable range, C3 to D#6.
	LowestNote  = 48
	HighestNote = 87

	DefaultBase = 48
)

// Two rows of a QWERTY keyboard laid out like piano keys. The lower row
// starts at the base note and the upper row an octave above it.
var keyOffsets = map[string]int{
	"z": 0, "s": 1, "x": 2, "d": 3, "c": 4, "v": 5, "g": 6, "b": 7,
	"h": 8, "n": 9, "j": 10, "m": 11, ",": 12, "l": 13, ".": 14, ";": 15, "/": 16,

	"q": 12, "2": 13, "w": 14, "3": 15, "e": 16, "r": 17, "5": 18, "t": 19,
	"6": 20, "y": 21, "7": 22, "u": 23, "i": 24, "9": 25, "o": 26, "0": 27, "p": 28,
}

// Keyboard maps key names to MIDI notes for the current octave.
type Keyboard struct {
	base int
}

func NewKeyboard() *Keyboard {
	return &Keyboard{base: DefaultBase}
}

func (k *Keyboard) Base() int { return k.base }

// Lookup returns the MIDI note for key. Keys that would fall outside the
// playable range at the current octave are unmapped.
func (k *Keyboard) Lookup(key string) (int, bool) {
	off, ok := keyOffsets[key]
	if !ok {
		return 0, false
	}
	midi := k.base + off
	if midi < LowestNote || midi > HighestNote {
		return 0, false
	}
	return midi, true
}

// ShiftOctave moves the base by delta octaves, keeping it within C3..C5.
func (k *Keyboard) ShiftOctave(delta int) {
	base := k.base + delta*12
	if base < LowestNote {
		base = LowestNote
	}
	if base > LowestNote+24 {
		base = LowestNote + 24
	}
	k.base = base
}

// IsNoteKey reports whether key is part of the layout at any octave.
func IsNoteKey(key string) bool {
	_, ok := keyOffsets[key]
	return ok
}
