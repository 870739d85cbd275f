package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/cvbuilder/internal/model"
	"github.com/amishk599/cvbuilder/internal/theme"
)

type pickerModel struct {
	st      styles
	title   string
	hint    string
	cvs     []model.SavedCV
	cursor  int
	chosen  int // -1 = no choice yet, -2 = quit
	loading bool
	err     string
	notice  string
}

func newPicker(st styles, cvs []model.SavedCV) pickerModel {
	return pickerModel{
		st:     st,
		title:  "My CVs",
		hint:   "↑/↓/j/k navigate  enter select  q quit",
		cvs:    cvs,
		chosen: -1,
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			m.chosen = -2
			return m, tea.Quit
		case "enter":
			if len(m.cvs) > 0 {
				m.chosen = m.cursor
				return m, tea.Quit
			}
		default:
			m.move(msg.String())
		}
	}
	return m, nil
}

// move handles cursor keys and reports whether msg was one.
func (m *pickerModel) move(key string) bool {
	switch key {
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, max(len(m.cvs)-1, 0))
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, max(len(m.cvs)-1, 0))
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.cvs)-1, 0)
	default:
		return false
	}
	return true
}

func (m pickerModel) selected() (model.SavedCV, bool) {
	if len(m.cvs) == 0 {
		return model.SavedCV{}, false
	}
	return m.cvs[m.cursor], true
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render(m.title))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.st.hint.Render("    loading...") + "\n")
	case m.err != "":
		b.WriteString(m.st.err.Render("  ⚠ "+m.err) + "\n")
	case len(m.cvs) == 0:
		b.WriteString(m.st.hint.Render("    You have not saved any CVs yet.") + "\n")
	}

	for i, cv := range m.cvs {
		label := cvLabel(cv)
		if i == m.cursor {
			b.WriteString(m.st.selected.Render("> "+label) + "\n")
		} else {
			b.WriteString(m.st.item.Render(label) + "\n")
		}
	}

	if m.notice != "" {
		b.WriteString("\n" + m.st.ok.Render("  "+m.notice) + "\n")
	}
	b.WriteString("\n" + m.st.hint.Render("  "+m.hint))
	return b.String()
}

func cvLabel(cv model.SavedCV) string {
	name := cv.Name
	if name == "" {
		name = "(Unnamed CV)"
	}
	created := strings.TrimSuffix(strings.Replace(cv.CreatedAt, "T", " ", 1), "Z")
	if cv.Email == "" {
		return fmt.Sprintf("%s · %s", name, created)
	}
	return fmt.Sprintf("%s · %s · %s", name, cv.Email, created)
}

// RunCVPicker shows an interactive selector over saved CVs.
// Returns the index of the chosen CV, or -1 if the user quit.
func RunCVPicker(cvs []model.SavedCV, pal theme.Palette) (int, error) {
	m := newPicker(newStyles(pal), cvs)

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return -1, err
	}
	final := result.(pickerModel)
	if final.chosen < 0 {
		return -1, nil
	}
	return final.chosen, nil
}
