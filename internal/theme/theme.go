package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/cvbuilder/internal/model"
)

// ModeKey is the storage key holding the theme preference.
const ModeKey = "app-theme-mode"

// Mode is the UI colour scheme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode accepts "light" or "dark".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Light, Dark:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown theme mode %q (want light or dark)", s)
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Preference reads and writes the persisted theme mode.
type Preference struct {
	storage  model.Storage
	fallback Mode
}

// NewPreference returns a preference store; fallback is used when nothing
// (or something unparseable) is stored.
func NewPreference(storage model.Storage, fallback Mode) *Preference {
	return &Preference{storage: storage, fallback: fallback}
}

// Mode returns the stored mode or the fallback.
func (p *Preference) Mode() Mode {
	v, ok, err := p.storage.Get(ModeKey)
	if err != nil || !ok {
		return p.fallback
	}
	m, err := ParseMode(v)
	if err != nil {
		return p.fallback
	}
	return m
}

// Set persists m.
func (p *Preference) Set(m Mode) error {
	if err := p.storage.Set(ModeKey, string(m)); err != nil {
		return fmt.Errorf("store theme mode: %w", err)
	}
	return nil
}

// Toggle flips the stored mode and returns the new one.
func (p *Preference) Toggle() (Mode, error) {
	next := p.Mode().Toggle()
	return next, p.Set(next)
}

// Palette holds the colours the terminal UI draws with.
type Palette struct {
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Bar     lipgloss.Color
}

// Palette returns the colours for m.
func (m Mode) Palette() Palette {
	if m == Dark {
		return Palette{
			Accent:  lipgloss.Color("39"),
			Muted:   lipgloss.Color("240"),
			Text:    lipgloss.Color("252"),
			Error:   lipgloss.Color("203"),
			Success: lipgloss.Color("78"),
			Warning: lipgloss.Color("214"),
			Bar:     lipgloss.Color("236"),
		}
	}
	return Palette{
		Accent:  lipgloss.Color("25"),
		Muted:   lipgloss.Color("245"),
		Text:    lipgloss.Color("235"),
		Error:   lipgloss.Color("160"),
		Success: lipgloss.Color("28"),
		Warning: lipgloss.Color("130"),
		Bar:     lipgloss.Color("254"),
	}
}
