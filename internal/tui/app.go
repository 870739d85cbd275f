package tui

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/cvbuilder/internal/api"
	"github.com/amishk599/cvbuilder/internal/form"
	"github.com/amishk599/cvbuilder/internal/model"
	"github.com/amishk599/cvbuilder/internal/route"
	"github.com/amishk599/cvbuilder/internal/theme"
)

// App bundles what the interactive builder needs.
type App struct {
	Controller *form.Controller
	Client     *api.Client
	Router     *route.Router
	Theme      *theme.Preference
	Logger     *slog.Logger
}

type screen int

const (
	screenBuilder screen = iota
	screenLogin
	screenCVs
)

type (
	routeMsg    struct{ path string }
	authDoneMsg struct {
		user model.User
		err  error
	}
	userMsg      struct{ user model.User }
	cvsLoadedMsg struct {
		cvs []model.SavedCV
		err error
	}
	cvLoadedMsg   struct{ err error }
	exportDoneMsg struct {
		path string
		err  error
	}
)

type appModel struct {
	app    App
	st     styles
	screen screen
	path   string
	user   string

	wizard wizardModel
	login  loginModel
	picker pickerModel

	width  int
	height int
}

func newAppModel(app App) appModel {
	st := newStyles(app.Theme.Mode().Palette())
	m := appModel{
		app:    app,
		st:     st,
		path:   app.Router.Path(),
		wizard: newWizard(st, app.Controller),
		login:  newLogin(st, authLogin),
		picker: newPicker(st, nil),
	}
	m.picker.hint = "↑/↓ navigate  enter open in builder  p download PDF  r refresh  esc back  ctrl+c quit"
	m.screen = screenFor(m.path)
	return m
}

func screenFor(path string) screen {
	switch {
	case route.OnLogin(path):
		return screenLogin
	case path == route.MyCVs:
		return screenCVs
	default:
		return screenBuilder
	}
}

// navigate moves the router off the UI goroutine; the router subscription
// delivers the resulting routeMsg.
func (m appModel) navigate(path string) tea.Cmd {
	router := m.app.Router
	return func() tea.Msg {
		router.Navigate(path)
		return nil
	}
}

func (m appModel) fetchUser() tea.Cmd {
	client := m.app.Client
	if !client.Session().Active() {
		return nil
	}
	return func() tea.Msg {
		u, err := client.Me(context.Background())
		if err != nil {
			return nil
		}
		return userMsg{user: u}
	}
}

func (m appModel) fetchCVs() tea.Cmd {
	client := m.app.Client
	return func() tea.Msg {
		cvs, err := client.ListCVs(context.Background())
		return cvsLoadedMsg{cvs: cvs, err: err}
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchUser(), m.enter(m.path))
}

// enter runs the guards for path: the CV list needs a session and the
// sign-in screen is skipped when already signed in.
func (m appModel) enter(path string) tea.Cmd {
	active := m.app.Client.Session().Active()
	switch screenFor(path) {
	case screenCVs:
		if !active {
			router := m.app.Router
			return func() tea.Msg {
				router.RedirectToLogin()
				return nil
			}
		}
		return m.fetchCVs()
	case screenLogin:
		if active {
			return m.navigate(route.Next(path))
		}
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.wizard.resize(msg.Width, msg.Height)
		return m, nil

	case routeMsg:
		return m.switchTo(msg.path)

	case userMsg:
		m.user = msg.user.Username
		if m.user == "" {
			m.user = msg.user.Email
		}
		return m, nil

	case authDoneMsg:
		m.login.busy = false
		if msg.err != nil {
			m.login.err = model.Message(msg.err)
			return m, nil
		}
		m.user = msg.user.Username
		m.login = newLogin(m.st, authLogin)
		m.wizard.notice = "Signed in as " + m.user + "."
		return m, m.navigate(route.Next(m.path))

	case cvsLoadedMsg:
		m.picker.loading = false
		if msg.err != nil {
			m.picker.err = model.Message(msg.err)
			return m, nil
		}
		m.picker.err = ""
		m.picker.cvs = msg.cvs
		m.picker.cursor = clamp(m.picker.cursor, 0, max(len(msg.cvs)-1, 0))
		return m, nil

	case cvLoadedMsg:
		if msg.err != nil {
			m.picker.err = model.Message(msg.err)
			return m, nil
		}
		m.wizard.loadDraft()
		m.wizard.notice = "Loaded saved CV."
		return m, tea.Batch(m.wizard.focusCurrent(), m.navigate(route.Builder))

	case exportDoneMsg:
		if msg.err != nil {
			m.picker.err = model.Message(msg.err)
			return m, nil
		}
		m.picker.err = ""
		m.picker.notice = "PDF saved to " + msg.path
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			return m.toggleTheme(), nil
		}
		switch m.screen {
		case screenLogin:
			return m.updateLogin(msg)
		case screenCVs:
			return m.updatePicker(msg)
		}
		return m.updateBuilder(msg)
	}

	// Everything else (controller results, ticks, blinks) belongs to the builder.
	var cmd tea.Cmd
	m.wizard, cmd = m.wizard.update(msg)
	if m.screen == screenLogin {
		var lcmd tea.Cmd
		m.login, lcmd, _ = m.login.update(msg)
		cmd = tea.Batch(cmd, lcmd)
	}
	return m, cmd
}

func (m appModel) switchTo(path string) (tea.Model, tea.Cmd) {
	prev := m.screen
	m.path = path
	m.screen = screenFor(path)
	if m.screen == screenCVs && prev != screenCVs {
		m.picker.loading = true
		m.picker.notice = ""
		m.picker.err = ""
	}
	if m.screen == screenLogin && prev != screenLogin {
		m.login = newLogin(m.st, authLogin)
		if !m.app.Client.Session().Active() {
			m.user = ""
		}
	}
	return m, m.enter(path)
}

func (m appModel) toggleTheme() appModel {
	mode, err := m.app.Theme.Toggle()
	if err != nil {
		m.app.Logger.Warn("failed to persist theme", "error", err)
	}
	m.st = newStyles(mode.Palette())
	m.wizard.st = m.st
	m.login.st = m.st
	m.picker.st = m.st
	m.wizard.refreshAnalysis()
	return m
}

func (m appModel) updateBuilder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+l":
		return m, m.navigate(route.MyCVs)
	case "ctrl+u":
		if m.app.Client.Session().Active() {
			if err := m.app.Client.Logout(); err != nil {
				m.wizard.err = err.Error()
				return m, nil
			}
			m.user = ""
			m.wizard.notice = "Signed out."
			return m, nil
		}
		return m, m.navigate(route.Login + "?next=" + url.QueryEscape(route.Builder))
	}
	var cmd tea.Cmd
	m.wizard, cmd = m.wizard.update(msg)
	return m, cmd
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" && !m.login.busy {
		return m, m.navigate(route.Builder)
	}
	var (
		cmd    tea.Cmd
		submit bool
	)
	m.login, cmd, submit = m.login.update(msg)
	if !submit {
		return m, cmd
	}
	req, _ := m.login.request()
	m.login.busy = true
	m.login.err = ""
	client := m.app.Client
	return m, func() tea.Msg {
		user, err := authenticate(context.Background(), client, req)
		return authDoneMsg{user: user, err: err}
	}
}

// authenticate signs in, creating the account first in register mode.
func authenticate(ctx context.Context, client *api.Client, req authRequest) (model.User, error) {
	identifier := req.identifier
	if req.mode == authRegister {
		if _, err := client.Register(ctx, req.email, req.password, req.username); err != nil {
			return model.User{}, err
		}
		identifier = req.email
	}
	if _, err := client.Login(ctx, identifier, req.password); err != nil {
		return model.User{}, err
	}
	user, err := client.Me(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("signed in but could not load profile: %w", err)
	}
	return user, nil
}

func (m appModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.move(msg.String()) {
		return m, nil
	}
	ctrl := m.app.Controller
	switch msg.String() {
	case "esc", "q":
		return m, m.navigate(route.Builder)
	case "r":
		m.picker.loading = true
		return m, m.fetchCVs()
	case "enter":
		cv, ok := m.picker.selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return cvLoadedMsg{err: ctrl.LoadSaved(context.Background(), cv.ID)}
		}
	case "p":
		cv, ok := m.picker.selected()
		if !ok {
			return m, nil
		}
		m.picker.notice = "Generating PDF..."
		return m, func() tea.Msg {
			path, err := ctrl.ExportSaved(context.Background(), cv.ID)
			return exportDoneMsg{path: path, err: err}
		}
	}
	return m, nil
}

func (m appModel) View() string {
	switch m.screen {
	case screenLogin:
		return m.login.view()
	case screenCVs:
		return m.picker.View()
	}
	return m.wizard.view(m.user)
}

// Run starts the full-screen builder and blocks until the user quits.
// Route changes made anywhere, including the redirect after an expired
// session, are forwarded into the program.
func Run(app App) error {
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen())
	app.Router.Subscribe(func(path string) {
		p.Send(routeMsg{path: path})
	})
	_, err := p.Run()
	return err
}
