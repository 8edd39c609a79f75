// Package audio plays one sine tone per sounding note.
package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/san-kum/cymatics/internal/notes"
)

const DefaultSampleRate = beep.SampleRate(48000)

var ErrClosed = errors.New("audio: synth closed")

type voice struct {
	freq float64
	ctrl *beep.Ctrl
}

// Synth mirrors a note snapshot as a bank of sine voices. It is silent
// until Start opens the speaker, so it can be driven without a sound
// device.
type Synth struct {
	mu      sync.Mutex
	sr      beep.SampleRate
	mixer   *beep.Mixer
	volume  *effects.Volume
	voices  map[string]*voice
	started bool
	closed  bool
}

func NewSynth(sr beep.SampleRate) *Synth {
	mixer := &beep.Mixer{}
	return &Synth{
		sr:     sr,
		mixer:  mixer,
		volume: &effects.Volume{Streamer: mixer, Base: 2, Silent: true},
		voices: make(map[string]*voice),
	}
}

// Start opens the default output device and begins playback.
func (s *Synth) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.started {
		return nil
	}

	if err := speaker.Init(s.sr, s.sr.N(time.Millisecond*50)); err != nil {
		return fmt.Errorf("audio: opening speaker: %w", err)
	}
	speaker.Play(s.volume)
	s.started = true
	slog.Debug("audio started", "sample_rate", int(s.sr))
	return nil
}

// Streamer is the mixed output, for callers that drive playback themselves.
func (s *Synth) Streamer() beep.Streamer { return s.volume }

// Sync starts voices for new notes and stops voices for released ones. A
// note whose frequency changed is restarted. Voices that cannot be built
// are skipped and reported in the returned error.
func (s *Synth) Sync(snap []notes.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.started {
		speaker.Lock()
		defer speaker.Unlock()
	}

	want := make(map[string]float64, len(snap))
	for _, n := range snap {
		want[n.ID] = n.Frequency
	}

	for id, v := range s.voices {
		if f, ok := want[id]; !ok || f != v.freq {
			v.ctrl.Streamer = nil
			delete(s.voices, id)
		}
	}

	var errs []error
	for _, n := range snap {
		if _, ok := s.voices[n.ID]; ok {
			continue
		}
		tone, err := generators.SineTone(s.sr, n.Frequency)
		if err != nil {
			errs = append(errs, fmt.Errorf("audio: %s at %g Hz: %w", n.ID, n.Frequency, err))
			continue
		}
		ctrl := &beep.Ctrl{Streamer: tone}
		s.voices[n.ID] = &voice{freq: n.Frequency, ctrl: ctrl}
		s.mixer.Add(ctrl)
	}

	s.setGain(len(s.voices))
	return errors.Join(errs...)
}

// setGain keeps the summed voices inside [-0.5, 0.5].
func (s *Synth) setGain(n int) {
	if n == 0 {
		s.volume.Silent = true
		return
	}
	s.volume.Silent = false
	s.volume.Volume = -math.Log2(float64(n)) - 1
}

func (s *Synth) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// Close silences every voice. The speaker itself stays open.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	for id, v := range s.voices {
		v.ctrl.Streamer = nil
		delete(s.voices, id)
	}
	s.mixer.Clear()
	s.volume.Silent = true
	s.closed = true
}
