package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/cvbuilder/internal/theme"
)

// ErrCancelled is returned by RunTask when the user pressed ctrl+c.
var ErrCancelled = errors.New("cancelled")

type taskDoneMsg[T any] struct {
	value T
	err   error
}

type spinnerTickMsg struct{}

type loaderModel[T any] struct {
	label  string
	taskFn func(ctx context.Context) (T, error)
	ctx    context.Context
	cancel context.CancelFunc
	st     styles
	frame  int
	result T
	err    error
	done   bool
}

func (m loaderModel[T]) Init() tea.Cmd {
	return tea.Batch(m.run(), tick())
}

func (m loaderModel[T]) run() tea.Cmd {
	taskFn, ctx := m.taskFn, m.ctx
	return func() tea.Msg {
		v, err := taskFn(ctx)
		return taskDoneMsg[T]{value: v, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg[T]:
		m.result = msg.value
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel[T]) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", m.st.spinner.Render(spinnerFrames[m.frame]), m.label)
}

// RunTask shows a spinner labelled label while taskFn runs. It renders inline
// (no alt screen). ctrl+c cancels the context passed to taskFn.
func RunTask[T any](ctx context.Context, label string, pal theme.Palette, taskFn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := loaderModel[T]{
		label:  label,
		taskFn: taskFn,
		ctx:    ctx,
		cancel: cancel,
		st:     newStyles(pal),
	}
	result, err := tea.NewProgram(m).Run()
	if err != nil {
		var zero T
		return zero, err
	}
	final := result.(loaderModel[T])
	return final.result, final.err
}
