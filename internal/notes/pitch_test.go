package notes

import (
	"errors"
	"math"
	"testing"
)

func TestFrequency(t *testing.T) {
	tests := []struct {
		midi int
		want float64
	}{
		{69, 440},
		{57, 220},
		{81, 880},
		{48, 130.81},
		{60, 261.63},
		{87, 1244.51},
	}

	for _, tt := range tests {
		if got := Frequency(tt.midi); math.Abs(got-tt.want) > 0.01 {
			t.Errorf("Frequency(%d) = %.4f, want %.2f", tt.midi, got, tt.want)
		}
	}
}

func TestNameAndParse(t *testing.T) {
	tests := []struct {
		name string
		midi int
	}{
		{"C3", 48},
		{"C4", 60},
		{"A4", 69},
		{"D#6", 87},
		{"F#2", 42},
		{"C-1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Name(tt.midi); got != tt.name {
				t.Errorf("Name(%d) = %q, want %q", tt.midi, got, tt.name)
			}
			got, err := Parse(tt.name)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.name, err)
			}
			if got != tt.midi {
				t.Errorf("Parse(%q) = %d, want %d", tt.name, got, tt.midi)
			}
		})
	}
}

func TestParseAliases(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"a4", 69},
		{"Eb4", 63},
		{"Bb3", 58},
		{" c#5 ", 73},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "H4", "A", "C#", "Cx4"} {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidNote) {
			t.Errorf("Parse(%q): expected ErrInvalidNote, got %v", in, err)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("440")
	if err != nil || f != 440 {
		t.Errorf("ParseFrequency(440) = %g, %v", f, err)
	}

	f, err = ParseFrequency("A3")
	if err != nil || math.Abs(f-220) > 1e-9 {
		t.Errorf("ParseFrequency(A3) = %g, %v", f, err)
	}

	if _, err := ParseFrequency("-5"); !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestKeyboard(t *testing.T) {
	kb := NewKeyboard()

	if midi, ok := kb.Lookup("z"); !ok || midi != 48 {
		t.Errorf("z -> %d, %v; want 48", midi, ok)
	}
	if midi, ok := kb.Lookup("q"); !ok || midi != 60 {
		t.Errorf("q -> %d, %v; want 60", midi, ok)
	}
	if _, ok := kb.Lookup("enter"); ok {
		t.Error("enter should not be a note key")
	}

	kb.ShiftOctave(1)
	if kb.Base() != 60 {
		t.Fatalf("base after shift = %d, want 60", kb.Base())
	}
	// p would be 88, past D#6.
	if _, ok := kb.Lookup("p"); ok {
		t.Error("expected p to be unmapped above the playable range")
	}
	if midi, ok := kb.Lookup("0"); !ok || midi != 87 {
		t.Errorf("0 -> %d, %v; want 87", midi, ok)
	}

	kb.ShiftOctave(5)
	if kb.Base() != 72 {
		t.Errorf("base clamped to %d, want 72", kb.Base())
	}
	kb.ShiftOctave(-9)
	if kb.Base() != LowestNote {
		t.Errorf("base clamped to %d, want %d", kb.Base(), LowestNote)
	}
}

func TestKeyboardNeverLeavesRange(t *testing.T) {
	kb := NewKeyboard()
	for _, shift := range []int{0, 1, 1} {
		kb.ShiftOctave(shift)
		for key := range keyOffsets {
			if midi, ok := kb.Lookup(key); ok && (midi < LowestNote || midi > HighestNote) {
				t.Errorf("base %d key %q -> %d out of range", kb.Base(), key, midi)
			}
		}
	}
}
