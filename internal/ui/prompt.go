package ui

import (
	stderrors "errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/jirash/internal/errors"
)

// Confirm asks a yes/no question, defaulting to no. Ctrl+C returns
// errors.ErrAborted.
func Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return false, errors.ErrAborted
		}
		return false, errors.WrapWithCode(err, errors.ErrExec, "Confirmation prompt failed", "")
	}
	return ok, nil
}

// enterModel waits for a single Enter or Ctrl+C keypress.
type enterModel struct {
	prompt  string
	done    bool
	aborted bool
}

func (m enterModel) Init() tea.Cmd {
	return nil
}

func (m enterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m enterModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return MutedStyle().Render(m.prompt)
}

// WaitForEnter shows prompt and blocks until the user presses Enter. Ctrl+C
// (or Esc) returns errors.ErrAborted.
func WaitForEnter(in io.Reader, out io.Writer, prompt string) error {
	p := tea.NewProgram(enterModel{prompt: prompt}, tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec, "Prompt failed", "")
	}
	if m, ok := final.(enterModel); ok && m.aborted {
		return errors.ErrAborted
	}
	return nil
}
