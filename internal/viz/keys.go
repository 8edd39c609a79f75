package viz

import "github.com/charmbracelet/bubbles/key"

// Control keys stay off both note rows of the keyboard.
type keyMap struct {
	Quit      key.Binding
	Release   key.Binding
	OctaveDn  key.Binding
	OctaveUp  key.Binding
	Pause     key.Binding
	TiltUp    key.Binding
	TiltDown  key.Binding
	SpinLeft  key.Binding
	SpinRight key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Scatter   key.Binding
	Help      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
		Release:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "release all")),
		OctaveDn:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "octave down")),
		OctaveUp:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "octave up")),
		Pause:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pause")),
		TiltUp:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "tilt")),
		TiltDown:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "flatten")),
		SpinLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "spin left")),
		SpinRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "spin right")),
		ZoomIn:    key.NewBinding(key.WithKeys("="), key.WithHelp("=", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Scatter:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "scatter")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Release, k.OctaveDn, k.OctaveUp, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Release, k.OctaveDn, k.OctaveUp, k.Pause, k.Scatter},
		{k.TiltUp, k.TiltDown, k.SpinLeft, k.SpinRight, k.ZoomIn, k.ZoomOut},
		{k.Help, k.Quit},
	}
}
