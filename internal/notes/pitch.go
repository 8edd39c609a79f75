package notes

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidNote = errors.New("notes: invalid note name")

const (
	// A4 is MIDI note 69.
	A4Midi      = 69
	A4Frequency = 440.0
)

var sharpNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var letterOffset = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// Frequency is the equal-tempered frequency of a MIDI note.
func Frequency(midi int) float64 {
	return A4Frequency * math.Pow(2, float64(midi-A4Midi)/12)
}

// Name renders a MIDI note as a sharp name with octave, C4 = 60.
func Name(midi int) string {
	octave := midi/12 - 1
	pc := midi % 12
	if pc < 0 {
		pc += 12
		octave--
	}
	return sharpNames[pc] + strconv.Itoa(octave)
}

// Parse reads names like "A4", "c#3", "Eb5" into a MIDI note number.
func Parse(name string) (int, error) {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}

	pc, ok := letterOffset[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	s = s[1:]

	switch s[0] {
	case '#':
		pc++
		s = s[1:]
	case 'b':
		pc--
		s = s[1:]
	}

	octave, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	return (octave+1)*12 + pc, nil
}

// ParseFrequency accepts either a note name or a number in Hz.
func ParseFrequency(s string) (float64, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, fmt.Errorf("%w: %g", ErrInvalidFrequency, f)
		}
		return f, nil
	}
	midi, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return Frequency(midi), nil
}
