package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/cymatics/internal/engine"
	"github.com/san-kum/cymatics/internal/notes"
)

const (
	sidebarWidth   = 34
	historyLen     = 120
	defaultLift    = 40.0
	defaultCanvasW = 60
	defaultCanvasH = 24
	minCanvasW     = 10
	minCanvasH     = 5
)

// Voicer follows the sounding notes with audio.
type Voicer interface {
	Sync(snap []notes.Note) error
}

// TickMsg advances the field by one frame.
type TickMsg time.Time

type Option func(*Model)

// WithFPS sets the frame rate. Values outside 1..240 are ignored.
func WithFPS(fps int) Option {
	return func(m *Model) {
		if fps >= 1 && fps <= 240 {
			m.fps = fps
		}
	}
}

func WithAudio(v Voicer) Option { return func(m *Model) { m.voice = v } }

// WithLift sets how much z is exaggerated on screen.
func WithLift(lift float64) Option {
	return func(m *Model) {
		if lift > 0 {
			m.lift = lift
		}
	}
}

// Model is the live plate: the keyboard plays notes into the registry and
// every tick steps the engine and redraws.
type Model struct {
	eng      *engine.Engine
	reg      *notes.Registry
	keyboard *notes.Keyboard
	voice    Voicer

	canvas *Canvas
	camera *Camera
	keys   keyMap
	help   help.Model
	meter  progress.Model

	spring        harmonica.Spring
	level, levelV float64

	last    engine.Frame
	history []float64
	paused  bool
	err     error

	fps           int
	lift          float64
	width, height int
}

func New(eng *engine.Engine, reg *notes.Registry, opts ...Option) Model {
	m := Model{
		eng:      eng,
		reg:      reg,
		keyboard: notes.NewKeyboard(),
		canvas:   NewCanvas(defaultCanvasW, defaultCanvasH),
		camera:   NewCamera(),
		keys:     defaultKeys(),
		help:     help.New(),
		meter: progress.New(
			progress.WithScaledGradient("#00ffff", "#ff00ff"),
			progress.WithoutPercentage(),
		),
		fps:  60,
		lift: defaultLift,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.meter.Width = sidebarWidth - 6
	m.spring = harmonica.NewSpring(harmonica.FPS(m.fps), 6.0, 0.7)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		w := max(minCanvasW, msg.Width-sidebarWidth-4)
		h := max(minCanvasH, msg.Height-3)
		m.canvas = NewCanvas(w, h)
		m.render()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if !m.paused {
			m.last = m.eng.Tick()
			m.observe(m.last)
		}
		m.level, m.levelV = m.spring.Update(m.level, m.levelV, m.target())
		m.render()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Release):
		m.reg.Clear()
		m.sync()
	case key.Matches(msg, m.keys.OctaveDn):
		m.keyboard.ShiftOctave(-1)
	case key.Matches(msg, m.keys.OctaveUp):
		m.keyboard.ShiftOctave(1)
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keys.TiltUp):
		m.camera.Tilt(-0.1)
	case key.Matches(msg, m.keys.TiltDown):
		m.camera.Tilt(0.1)
	case key.Matches(msg, m.keys.SpinLeft):
		m.camera.Spin(-0.1)
	case key.Matches(msg, m.keys.SpinRight):
		m.camera.Spin(0.1)
	case key.Matches(msg, m.keys.ZoomIn):
		m.camera.ZoomIn()
	case key.Matches(msg, m.keys.ZoomOut):
		m.camera.ZoomOut()
	case key.Matches(msg, m.keys.Scatter):
		m.eng.Field().Reset()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		midi, ok := m.keyboard.Lookup(msg.String())
		if !ok {
			return m, nil
		}
		on, err := m.reg.Toggle(notes.Name(midi), notes.Frequency(midi))
		if err != nil {
			m.err = err
			return m, nil
		}
		slog.Debug("key", "note", notes.Name(midi), "on", on)
		m.sync()
	}
	m.render()
	return m, nil
}

func (m *Model) sync() {
	if m.voice == nil {
		return
	}
	if err := m.voice.Sync(m.reg.Snapshot()); err != nil {
		m.err = err
	}
}

func (m *Model) observe(f engine.Frame) {
	m.history = append(m.history, f.MeanLift)
	if len(m.history) > historyLen {
		m.history = m.history[len(m.history)-historyLen:]
	}
}

// target is the mean lift as a fraction of the largest lift a particle
// can reach.
func (m Model) target() float64 {
	p := m.eng.Field().Params()
	ceiling := p.VibrationStrength * p.Lift
	if ceiling <= 0 {
		return 0
	}
	return min(1, m.last.MeanLift/ceiling)
}

func (m *Model) render() {
	f := m.eng.Field()
	RenderParticles(m.canvas, m.camera, f.Positions(), m.lift)
	f.MarkClean()
}

// Paused reports whether ticks are frozen.
func (m Model) Paused() bool { return m.paused }

// Octave reports the lowest MIDI note on the keyboard.
func (m Model) Octave() int { return m.keyboard.Base() }

func (m Model) Err() error { return m.err }

func (m Model) View() string {
	plate := plateStyle.Render(strings.TrimRight(m.canvas.String(), "\n"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, plate, sidebarStyle.Render(m.sidebar()))
	return body + "\n" + m.help.View(m.keys)
}

func (m Model) sidebar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("CHLADNI"))
	b.WriteString("\n")

	status := statusRunning.Render("● live")
	if m.paused {
		status = statusPaused.Render("❚❚ paused")
	}
	b.WriteString(status + "\n\n")

	snap := m.reg.Snapshot()
	names := make([]string, len(snap))
	for i, n := range snap {
		names[i] = n.ID
	}
	held := "-"
	if len(names) > 0 {
		held = noteStyle.Render(strings.Join(names, " "))
	}
	b.WriteString(row("notes", held) + "\n")

	modes := "-"
	if len(m.last.Modes) > 0 {
		parts := make([]string, len(m.last.Modes))
		for i, md := range m.last.Modes {
			parts[i] = fmt.Sprintf("%g,%g", md.M, md.N)
		}
		modes = strings.Join(parts, " ")
	}
	b.WriteString(row("modes", modes) + "\n")
	b.WriteString(row("octave", notes.Name(m.keyboard.Base())) + "\n")
	b.WriteString(row("frame", fmt.Sprintf("%d", m.eng.FrameIndex())) + "\n")
	b.WriteString(row("particles", fmt.Sprintf("%d", m.eng.Field().Len())) + "\n")
	b.WriteString(row("tick", m.last.Elapsed.Round(time.Microsecond).String()) + "\n\n")

	b.WriteString(labelStyle.Render("lift") + "\n")
	b.WriteString(m.meter.ViewAs(max(0, min(1, m.level))) + "\n\n")
	b.WriteString(graphStyle.Render(LiftGraph(m.history, sidebarWidth-12, 5)) + "\n")

	if m.err != nil {
		b.WriteString("\n" + statusError.Render(m.err.Error()) + "\n")
	}
	return b.String()
}
