package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/cvbuilder/internal/blob"
	"github.com/amishk599/cvbuilder/internal/form"
	"github.com/amishk599/cvbuilder/internal/model"
	"github.com/amishk599/cvbuilder/internal/theme"
)

// --- Mock/Fake Implementations ---

// stubBackend answers every call with fixed data.
type stubBackend struct{}

func (stubBackend) UploadPhoto(context.Context, model.PhotoFile) (string, error) {
	return "/static/uploads/p.png", nil
}

func (stubBackend) SaveCV(context.Context, model.Draft) (model.SavedCV, error) {
	return model.SavedCV{ID: 1}, nil
}

func (stubBackend) GetCV(context.Context, int64) (model.RawCV, error) {
	return model.RawCV{}, errors.New("not found")
}

func (stubBackend) AnalyzeCV(context.Context, model.Draft) (*model.AnalysisResult, error) {
	return model.NewAnalysisResult([]byte(`{"matching_score": 50}`)), nil
}

func (stubBackend) AnalyzeCVLLM(context.Context, model.Draft) (*model.AnalysisResult, error) {
	return model.NewAnalysisResult([]byte(`{"matching_score": 90}`)), nil
}

func (stubBackend) GenerateCV(context.Context, model.Draft) ([]byte, error) {
	return []byte("%PDF"), nil
}

type signedOut struct{}

func (signedOut) Active() bool { return false }

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStyles() styles {
	return newStyles(theme.Light.Palette())
}

func newTestWizard(t *testing.T) wizardModel {
	t.Helper()
	registry, err := blob.NewRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	t.Cleanup(func() { registry.Close() })
	ctrl := form.NewController(stubBackend{}, signedOut{}, registry,
		blob.NewFileDownloader(registry, t.TempDir()), "http://api.test", model.PreferPrimary, discardLogger())
	t.Cleanup(ctrl.Close)
	return newWizard(testStyles(), ctrl)
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// --- Tests ---

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"", 10, ""},
		{"one two three", 20, "one two three"},
		{"one two three", 7, "one two\nthree"},
		{"  spaced   out  ", 20, "spaced out"},
	}
	for _, tt := range tests {
		if got := wordWrap(tt.text, tt.width); got != tt.want {
			t.Errorf("wordWrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestRenderAnalysis(t *testing.T) {
	st := testStyles()

	if got := renderAnalysis(st, nil, model.StrategyPrimary, 60); !strings.Contains(got, "no analysis yet") {
		t.Errorf("empty render = %q", got)
	}

	res := model.NewAnalysisResult([]byte(`{
		"matching_score": 55,
		"missing_skills": ["kubernetes"],
		"suggestions": ["mention on-call experience"]
	}`))
	got := renderAnalysis(st, res, model.StrategyFallback, 60)
	for _, want := range []string{"55%", "Medium Match", "kubernetes", "on-call", "AI unavailable"} {
		if !strings.Contains(got, want) {
			t.Errorf("render missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Reasons") {
		t.Error("rendered an empty Reasons section")
	}
}

func TestCVLabel(t *testing.T) {
	got := cvLabel(model.SavedCV{Email: "a@b.c", CreatedAt: "2026-10-16T09:00:00Z"})
	if got != "(Unnamed CV) · a@b.c · 2026-10-16 09:00:00" {
		t.Errorf("cvLabel = %q", got)
	}
}

func TestPickerNavigation(t *testing.T) {
	m := newPicker(testStyles(), []model.SavedCV{{ID: 1}, {ID: 2}, {ID: 3}})

	for _, k := range []string{"j", "j", "j"} {
		next, _ := m.Update(keys(k))
		m = next.(pickerModel)
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", m.cursor)
	}
	next, _ := m.Update(keys("k"))
	m = next.(pickerModel)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(pickerModel)
	if m.chosen != 1 {
		t.Errorf("chosen = %d, want 1", m.chosen)
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestPickerEnterOnEmptyList(t *testing.T) {
	m := newPicker(testStyles(), nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next.(pickerModel).chosen != -1 || cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
	if !strings.Contains(m.View(), "not saved any CVs") {
		t.Error("empty list hint missing")
	}
}

func TestLoginRequest(t *testing.T) {
	m := newLogin(testStyles(), authLogin)
	if _, ok := m.request(); ok {
		t.Error("empty form reported complete")
	}

	m.inputs[loginIdentifier].SetValue("  alex ")
	m.inputs[loginPassword].SetValue("secret")
	req, ok := m.request()
	if !ok {
		t.Fatal("filled form reported incomplete")
	}
	if req.identifier != "alex" || req.password != "secret" || req.mode != authLogin {
		t.Errorf("request = %+v", req)
	}

	m, _, submit := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !submit {
		t.Error("enter on a complete form did not submit")
	}
}

func TestLoginSwitchesToRegister(t *testing.T) {
	m := newLogin(testStyles(), authLogin)
	m, _, _ = m.update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.mode != authRegister || len(m.inputs) != 3 {
		t.Fatalf("mode = %v with %d inputs, want register with 3", m.mode, len(m.inputs))
	}

	// Enter on an incomplete form moves to the next field instead.
	m, _, submit := m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if submit || m.focus != registerUsername {
		t.Errorf("submit=%v focus=%d, want no submit and focus on username", submit, m.focus)
	}
}

func TestWizardTypingUpdatesDraft(t *testing.T) {
	m := newTestWizard(t)

	m, _ = m.update(keys("Alex"))
	if got := m.ctrl.Draft().Name; got != "Alex" {
		t.Errorf("Name = %q, want Alex", got)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.update(keys("a@b.c"))
	if got := m.ctrl.Draft().Email; got != "a@b.c" {
		t.Errorf("Email = %q, want a@b.c", got)
	}
}

func TestWizardStepKeys(t *testing.T) {
	m := newTestWizard(t)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyCtrlP})
	if got := m.ctrl.Step(); got != form.StepPersonalInfo {
		t.Errorf("step = %v, want first", got)
	}
	for i := 0; i < 4; i++ {
		m, _ = m.update(tea.KeyMsg{Type: tea.KeyCtrlN})
	}
	if got := m.ctrl.Step(); got != form.StepSkillsLinks {
		t.Errorf("step = %v, want last", got)
	}
	if len(m.stepFields()) != len(form.StepFields[form.StepSkillsLinks]) {
		t.Error("step fields do not follow the step")
	}
	if !strings.Contains(m.view(""), "Skills & Links") {
		t.Error("view does not show the current step")
	}
}

func TestWizardLoadDraft(t *testing.T) {
	m := newTestWizard(t)
	m.ctrl.SetDraft(model.Draft{Name: "Sam", Experience: "Dev | Acme | 2020-2024"})
	m.loadDraft()

	if got := m.fields[model.FieldName].value(); got != "Sam" {
		t.Errorf("name input = %q", got)
	}
	if got := m.fields[model.FieldExperience].value(); got != "Dev | Acme | 2020-2024" {
		t.Errorf("experience input = %q", got)
	}
}

func TestScreenFor(t *testing.T) {
	tests := []struct {
		path string
		want screen
	}{
		{"/", screenBuilder},
		{"/builder", screenBuilder},
		{"/login?next=%2Fmy-cvs", screenLogin},
		{"/my-cvs", screenCVs},
	}
	for _, tt := range tests {
		if got := screenFor(tt.path); got != tt.want {
			t.Errorf("screenFor(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWizardTogglesAIAnalysis(t *testing.T) {
	m := newTestWizard(t)
	m.resize(400, 40)
	if !strings.Contains(m.view(""), "ctrl+e AI on") {
		t.Error("status line does not show AI analysis as on")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if got := m.ctrl.Snapshot().Analysis.Preference; got != model.PreferFastOnly {
		t.Fatalf("preference = %v, want fast only", got)
	}
	if !strings.Contains(m.view(""), "ctrl+e AI off") {
		t.Error("status line does not show AI analysis as off")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if got := m.ctrl.Snapshot().Analysis.Preference; got != model.PreferPrimary {
		t.Errorf("preference = %v, want primary", got)
	}
}
