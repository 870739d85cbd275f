package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/cvbuilder/internal/form"
	"github.com/amishk599/cvbuilder/internal/model"
)

// Fields edited as multi-line text.
var multiline = map[string]bool{
	model.FieldEducation:      true,
	model.FieldExperience:     true,
	model.FieldJobDescription: true,
}

var fieldLabels = map[string]string{
	model.FieldName:           "Full name",
	model.FieldEmail:          "Email",
	model.FieldEducation:      "Education",
	model.FieldExperience:     "Experience",
	model.FieldSkills:         "Skills",
	model.FieldGithub:         "GitHub",
	model.FieldLinkedin:       "LinkedIn",
	model.FieldLanguages:      "Languages",
	model.FieldHobbies:        "Hobbies",
	model.FieldJobDescription: "Job description",
}

var fieldPlaceholders = map[string]string{
	model.FieldEducation:      "one entry per line: Degree | School | Years",
	model.FieldExperience:     "one entry per line: Role | Company | Years | Highlights",
	model.FieldSkills:         "comma separated",
	model.FieldJobDescription: "paste the job posting to analyze against",
}

// field is one editable draft value, backed by a single or multi-line input.
type field struct {
	name  string
	multi bool
	line  textinput.Model
	area  textarea.Model
}

func newField(name string) *field {
	f := &field{name: name, multi: multiline[name]}
	if f.multi {
		f.area = textarea.New()
		f.area.Placeholder = fieldPlaceholders[name]
		f.area.ShowLineNumbers = false
		f.area.SetHeight(5)
		f.area.SetWidth(60)
	} else {
		f.line = textinput.New()
		f.line.Placeholder = fieldPlaceholders[name]
		f.line.Prompt = ""
		f.line.Width = 50
	}
	return f
}

func (f *field) focus() tea.Cmd {
	if f.multi {
		return f.area.Focus()
	}
	return f.line.Focus()
}

func (f *field) blur() {
	if f.multi {
		f.area.Blur()
	} else {
		f.line.Blur()
	}
}

func (f *field) value() string {
	if f.multi {
		return f.area.Value()
	}
	return f.line.Value()
}

func (f *field) setValue(v string) {
	if f.multi {
		f.area.SetValue(v)
	} else {
		f.line.SetValue(v)
	}
}

func (f *field) setWidth(w int) {
	if f.multi {
		f.area.SetWidth(w)
	} else {
		f.line.Width = w
	}
}

func (f *field) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.multi {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.line, cmd = f.line.Update(msg)
	}
	return cmd
}

func (f *field) view() string {
	if f.multi {
		return f.area.View()
	}
	return f.line.View()
}

// Messages carrying controller results back to the UI goroutine.
type (
	photoDoneMsg    struct{ err error }
	analysisDoneMsg struct {
		outcome model.AnalysisOutcome
		err     error
	}
	saveDoneMsg struct {
		saved model.SavedCV
		err   error
	}
	generateDoneMsg struct {
		path string
		err  error
	}
	busyTickMsg struct{}
)

type wizardModel struct {
	st     styles
	ctrl   *form.Controller
	fields map[string]*field
	focus  int

	photoOpen bool
	photo     textinput.Model

	analysis viewport.Model
	width    int
	height   int
	frame    int
	ticking  bool

	notice string
	err    string
}

func newWizard(st styles, ctrl *form.Controller) wizardModel {
	m := wizardModel{
		st:       st,
		ctrl:     ctrl,
		fields:   make(map[string]*field),
		analysis: viewport.New(40, 10),
	}
	for _, name := range model.DraftFields {
		if name == model.FieldPhotoPath {
			continue
		}
		m.fields[name] = newField(name)
	}
	m.photo = textinput.New()
	m.photo.Placeholder = "path to a .jpg or .png (max 2MB)"
	m.photo.Prompt = "Photo: "
	m.photo.Width = 50

	m.loadDraft()
	m.focusCurrent()
	return m
}

// loadDraft copies the controller's draft into the inputs.
func (m *wizardModel) loadDraft() {
	d := m.ctrl.Draft()
	for name, f := range m.fields {
		f.setValue(d.Get(name))
	}
	m.refreshAnalysis()
}

func (m *wizardModel) stepFields() []*field {
	names := form.StepFields[m.ctrl.Step()]
	out := make([]*field, 0, len(names))
	for _, n := range names {
		out = append(out, m.fields[n])
	}
	return out
}

func (m *wizardModel) focusCurrent() tea.Cmd {
	for _, f := range m.fields {
		f.blur()
	}
	fs := m.stepFields()
	m.focus = clamp(m.focus, 0, len(fs)-1)
	return fs[m.focus].focus()
}

func (m *wizardModel) resize(w, h int) {
	m.width, m.height = w, h
	formWidth := m.formWidth()
	for _, f := range m.fields {
		f.setWidth(max(formWidth-20, 20))
	}
	m.analysis.Width = max(w-formWidth-4, 30)
	m.analysis.Height = max(h-6, 5)
	if m.stacked() {
		m.analysis.Width = max(w-4, 30)
		m.analysis.Height = max(h/3, 5)
	}
	m.refreshAnalysis()
}

// stacked reports whether the analysis panel goes below the form.
func (m wizardModel) stacked() bool {
	return m.width < 110
}

func (m wizardModel) formWidth() int {
	if m.stacked() {
		return max(m.width-2, 40)
	}
	return m.width * 3 / 5
}

func (m *wizardModel) refreshAnalysis() {
	st := m.ctrl.Snapshot().Analysis
	content := renderAnalysis(m.st, st.Result, st.Strategy, m.analysis.Width)
	if st.Err != "" {
		content = m.st.err.Render("⚠ "+st.Err) + "\n\n" + content
	}
	m.analysis.SetContent(content)
}

func (m *wizardModel) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg { return busyTickMsg{} })
}

func busy(s form.State) bool {
	return s.Upload.InFlight || s.Analysis.InFlight || s.Saving || s.Generating
}

func (m wizardModel) update(msg tea.Msg) (wizardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case busyTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		if !busy(m.ctrl.Snapshot()) {
			m.ticking = false
			return m, nil
		}
		return m, tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg { return busyTickMsg{} })

	case photoDoneMsg:
		s := m.ctrl.Snapshot()
		m.err = s.Upload.Err
		if msg.err == nil && s.Upload.Err == "" {
			m.notice = "Photo uploaded."
		}
		return m, nil

	case analysisDoneMsg:
		if msg.outcome.Skipped {
			return m, nil
		}
		m.refreshAnalysis()
		m.analysis.GotoTop()
		m.notice = ""
		if msg.outcome.Result != nil {
			m.notice = "Analysis ready (" + strategyLabel(msg.outcome.Strategy) + ")."
		}
		return m, nil

	case saveDoneMsg:
		if msg.err != nil {
			m.err = model.Message(msg.err)
			return m, nil
		}
		m.err = ""
		m.notice = fmt.Sprintf("Saved as CV #%d.", msg.saved.ID)
		return m, nil

	case generateDoneMsg:
		switch {
		case errors.Is(msg.err, context.Canceled):
			m.notice = "Generation cancelled."
		case msg.err != nil:
			m.err = model.Message(msg.err)
		default:
			m.err = ""
			m.notice = "PDF saved to " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if m.photoOpen {
			return m.updatePhoto(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m wizardModel) updatePhoto(msg tea.KeyMsg) (wizardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.photoOpen = false
		m.photo.Blur()
		return m, m.focusCurrent()
	case "enter":
		path := strings.TrimSpace(m.photo.Value())
		m.photoOpen = false
		m.photo.Blur()
		m.photo.SetValue("")
		if path == "" {
			return m, m.focusCurrent()
		}
		file, err := form.ReadPhoto(path)
		if err != nil {
			m.err = err.Error()
			return m, m.focusCurrent()
		}
		if err := form.ValidatePhoto(file); err != nil {
			// Let the controller record it so state stays authoritative.
			m.ctrl.SetPhoto(context.Background(), file)
			m.err = err.Error()
			return m, m.focusCurrent()
		}
		m.err, m.notice = "", "Uploading photo..."
		ctrl := m.ctrl
		upload := func() tea.Msg {
			return photoDoneMsg{err: ctrl.SetPhoto(context.Background(), file)}
		}
		tick := m.startTicking()
		return m, tea.Batch(upload, tick, m.focusCurrent())
	}
	var cmd tea.Cmd
	m.photo, cmd = m.photo.Update(msg)
	return m, cmd
}

func (m wizardModel) updateKeys(msg tea.KeyMsg) (wizardModel, tea.Cmd) {
	ctrl := m.ctrl
	switch msg.String() {
	case "tab":
		m.focus = (m.focus + 1) % len(m.stepFields())
		return m, m.focusCurrent()
	case "shift+tab":
		n := len(m.stepFields())
		m.focus = (m.focus - 1 + n) % n
		return m, m.focusCurrent()
	case "ctrl+n", "pgdown":
		ctrl.Advance()
		m.focus = 0
		return m, m.focusCurrent()
	case "ctrl+p", "pgup":
		ctrl.Retreat()
		m.focus = 0
		return m, m.focusCurrent()
	case "ctrl+o":
		m.photoOpen = true
		for _, f := range m.fields {
			f.blur()
		}
		return m, m.photo.Focus()
	case "ctrl+a", "ctrl+f":
		run := ctrl.Analyze
		if msg.String() == "ctrl+f" {
			run = ctrl.AnalyzeFast
		}
		m.err, m.notice = "", "Analyzing..."
		analyze := func() tea.Msg {
			out, err := run(context.Background())
			return analysisDoneMsg{outcome: out, err: err}
		}
		tick := m.startTicking()
		return m, tea.Batch(analyze, tick)
	case "ctrl+e":
		pref := model.PreferFastOnly
		if ctrl.Snapshot().Analysis.Preference == model.PreferFastOnly {
			pref = model.PreferPrimary
		}
		ctrl.SetStrategyPreference(pref)
		m.err, m.notice = "", "AI analysis "+aiLabel(pref)+"."
		return m, nil
	case "ctrl+s":
		m.err, m.notice = "", "Saving..."
		save := func() tea.Msg {
			saved, err := ctrl.Save(context.Background())
			return saveDoneMsg{saved: saved, err: err}
		}
		tick := m.startTicking()
		return m, tea.Batch(save, tick)
	case "ctrl+g":
		m.err, m.notice = "", "Generating PDF..."
		generate := func() tea.Msg {
			path, err := ctrl.Generate(context.Background())
			return generateDoneMsg{path: path, err: err}
		}
		tick := m.startTicking()
		return m, tea.Batch(generate, tick)
	case "esc":
		if ctrl.Snapshot().Generating {
			ctrl.Cancel()
			m.notice = "Generation cancelled."
		}
		return m, nil
	case "ctrl+j":
		m.analysis.LineDown(1)
		return m, nil
	case "ctrl+k":
		m.analysis.LineUp(1)
		return m, nil
	}

	fs := m.stepFields()
	f := fs[m.focus]
	cmd := f.update(msg)
	ctrl.SetField(f.name, f.value())
	return m, cmd
}

func (m wizardModel) view(user string) string {
	s := m.ctrl.Snapshot()

	var tabs []string
	for step := form.StepPersonalInfo; step <= form.LastStep; step++ {
		label := fmt.Sprintf(" %d %s ", int(step)+1, step)
		if step == s.Step {
			tabs = append(tabs, m.st.stepOn.Render("["+label+"]"))
		} else {
			tabs = append(tabs, m.st.stepOff.Render(" "+label+" "))
		}
	}
	header := m.st.title.Render("CV Builder") + "  " + strings.Join(tabs, "")
	if user != "" {
		header += "  " + m.st.hint.Render("signed in as "+user)
	}

	var b strings.Builder
	for i, f := range m.stepFields() {
		label := m.st.label
		if i == m.focus && !m.photoOpen {
			label = m.st.focused
		}
		b.WriteString(label.Render(fieldLabels[f.name]))
		if f.multi {
			b.WriteString("\n")
		}
		b.WriteString(f.view() + "\n\n")
	}
	if s.Step == form.StepPersonalInfo {
		b.WriteString(m.photoLine(s) + "\n")
	}
	formPane := lipgloss.NewStyle().Width(m.formWidth()).Render(b.String())

	analysisPane := m.st.border.Render(m.analysis.View())
	var body string
	if m.stacked() {
		body = lipgloss.JoinVertical(lipgloss.Left, formPane, analysisPane)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, formPane, " ", analysisPane)
	}

	return header + "\n\n" + body + "\n" + m.statusLine(s)
}

func (m wizardModel) photoLine(s form.State) string {
	if m.photoOpen {
		return m.photo.View()
	}
	line := m.st.label.Render("Photo")
	switch {
	case s.Upload.InFlight:
		line += m.st.hint.Render("uploading...")
	case s.PhotoURL != "":
		line += m.st.body.Render(s.PhotoURL)
	default:
		line += m.st.hint.Render("none (ctrl+o to choose)")
	}
	if s.Upload.Err != "" {
		line += "  " + m.st.err.Render(s.Upload.Err)
	}
	return line
}

func (m wizardModel) statusLine(s form.State) string {
	var activity []string
	if s.Upload.InFlight {
		activity = append(activity, "uploading")
	}
	if s.Analysis.InFlight {
		activity = append(activity, "analyzing")
	}
	if s.Saving {
		activity = append(activity, "saving")
	}
	if s.Generating {
		activity = append(activity, "generating (esc to cancel)")
	}

	var msg string
	switch {
	case len(activity) > 0:
		msg = m.st.spinner.Render(spinnerFrames[m.frame]) + " " + strings.Join(activity, ", ")
	case m.err != "":
		msg = m.st.err.Render("⚠ " + m.err)
	case m.notice != "":
		msg = m.st.ok.Render(m.notice)
	}

	keys := " tab field  ctrl+n/p step  ctrl+o photo  ctrl+a analyze  ctrl+f fast  ctrl+e AI " + aiLabel(s.Analysis.Preference) +
		"  ctrl+s save  ctrl+g pdf  ctrl+l my cvs  ctrl+t theme  ctrl+c quit"
	return msg + "\n" + m.st.status.Width(max(m.width, 20)).Render(keys)
}

func aiLabel(p model.StrategyPreference) string {
	if p == model.PreferFastOnly {
		return "off"
	}
	return "on"
}
