package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type authMode int

const (
	authLogin authMode = iota
	authRegister
)

// Input indices per mode.
const (
	loginIdentifier = 0
	loginPassword   = 1

	registerEmail    = 0
	registerUsername = 1
	registerPassword = 2
)

type authRequest struct {
	mode       authMode
	identifier string
	email      string
	username   string
	password   string
}

type loginModel struct {
	st     styles
	mode   authMode
	inputs []textinput.Model
	focus  int
	busy   bool
	err    string
}

func newLogin(st styles, mode authMode) loginModel {
	m := loginModel{st: st, mode: mode}
	switch mode {
	case authRegister:
		m.inputs = []textinput.Model{
			newInput("Email", false),
			newInput("Username", false),
			newInput("Password", true),
		}
	default:
		m.inputs = []textinput.Model{
			newInput("Email or username", false),
			newInput("Password", true),
		}
	}
	m.inputs[0].Focus()
	return m
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.Width = 40
	in.CharLimit = 128
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

// request reads the form. ok is false when a required field is empty.
func (m loginModel) request() (authRequest, bool) {
	v := func(i int) string { return strings.TrimSpace(m.inputs[i].Value()) }
	if m.mode == authRegister {
		req := authRequest{
			mode:     authRegister,
			email:    v(registerEmail),
			username: v(registerUsername),
			password: m.inputs[registerPassword].Value(),
		}
		return req, req.email != "" && req.username != "" && req.password != ""
	}
	req := authRequest{
		mode:       authLogin,
		identifier: v(loginIdentifier),
		password:   m.inputs[loginPassword].Value(),
	}
	return req, req.identifier != "" && req.password != ""
}

// update handles editing keys. submit is set when the user pressed enter on
// a complete form.
func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.busy {
		switch key.String() {
		case "tab", "down":
			return m.setFocus(m.focus + 1), nil, false
		case "shift+tab", "up":
			return m.setFocus(m.focus - 1), nil, false
		case "ctrl+r":
			next := authRegister
			if m.mode == authRegister {
				next = authLogin
			}
			return newLogin(m.st, next), nil, false
		case "enter":
			if _, complete := m.request(); complete {
				return m, nil, true
			}
			if m.focus < len(m.inputs)-1 {
				return m.setFocus(m.focus + 1), nil, false
			}
			m.err = "Please fill in every field."
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd, false
}

func (m loginModel) setFocus(i int) loginModel {
	i = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m
}

func (m loginModel) view() string {
	var b strings.Builder
	title := "Sign in"
	hint := "tab next field  enter submit  ctrl+r create an account  esc back  ctrl+c quit"
	if m.mode == authRegister {
		title = "Create account"
		hint = "tab next field  enter submit  ctrl+r sign in instead  esc back  ctrl+c quit"
	}
	b.WriteString(m.st.title.Render(title) + "\n\n")
	for i, in := range m.inputs {
		label := m.st.label
		if i == m.focus {
			label = m.st.focused
		}
		b.WriteString("  " + label.Render(in.Placeholder) + in.View() + "\n")
	}
	b.WriteByte('\n')
	if m.busy {
		b.WriteString(m.st.hint.Render("  please wait...") + "\n")
	}
	if m.err != "" {
		b.WriteString(m.st.err.Render("  ⚠ "+m.err) + "\n")
	}
	b.WriteString("\n" + m.st.hint.Render("  "+hint))
	return b.String()
}
