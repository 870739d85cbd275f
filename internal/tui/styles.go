package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/cvbuilder/internal/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type styles struct {
	title     lipgloss.Style
	stepOn    lipgloss.Style
	stepOff   lipgloss.Style
	label     lipgloss.Style
	focused   lipgloss.Style
	hint      lipgloss.Style
	err       lipgloss.Style
	ok        lipgloss.Style
	warn      lipgloss.Style
	status    lipgloss.Style
	border    lipgloss.Style
	item      lipgloss.Style
	selected  lipgloss.Style
	divider   lipgloss.Style
	body      lipgloss.Style
	spinner   lipgloss.Style
	scoreHigh lipgloss.Style
	scoreMid  lipgloss.Style
	scoreLow  lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Padding(0, 1),
		stepOn: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		stepOff: lipgloss.NewStyle().
			Foreground(p.Muted),
		label: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Width(16),
		focused: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Width(16),
		hint: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		err:  lipgloss.NewStyle().Foreground(p.Error),
		ok:   lipgloss.NewStyle().Foreground(p.Success),
		warn: lipgloss.NewStyle().Foreground(p.Warning),
		status: lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(p.Text).
			Background(p.Bar),
		border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent),
		item: lipgloss.NewStyle().
			Padding(0, 0, 0, 4),
		selected: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Padding(0, 0, 0, 2),
		divider:   lipgloss.NewStyle().Foreground(p.Muted),
		body:      lipgloss.NewStyle().Foreground(p.Text),
		spinner:   lipgloss.NewStyle().Foreground(p.Accent),
		scoreHigh: lipgloss.NewStyle().Bold(true).Foreground(p.Success),
		scoreMid:  lipgloss.NewStyle().Bold(true).Foreground(p.Warning),
		scoreLow:  lipgloss.NewStyle().Bold(true).Foreground(p.Error),
	}
}
