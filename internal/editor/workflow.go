package editor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/rileyhilliard/jirash/internal/form"
	"github.com/rileyhilliard/jirash/internal/logger"
)

// RetryPrompt is shown after an issue form fails validation.
const RetryPrompt = "Press <Enter> to re-edit, <Ctrl+C> to abort."

// State is a step of a Workflow.
type State int

const (
	StateInitial State = iota
	StateEditing
	StateValidating
	StateRetry
	StateSuccess
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateRetry:
		return "retry"
	case StateSuccess:
		return "success"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Prompter waits for the user to confirm a retry. It returns
// errors.ErrAborted when the user cancels.
type Prompter interface {
	WaitForEnter(prompt string) error
}

// PromptFunc adapts a function to the Prompter interface.
type PromptFunc func(prompt string) error

// WaitForEnter calls f(prompt).
func (f PromptFunc) WaitForEnter(prompt string) error {
	return f(prompt)
}

// Workflow edits an issue form until it parses and has a summary, or the
// user gives up. The form file at Path is left in place in every case so
// a failed create can be retried from it.
type Workflow struct {
	Path     string
	Editor   Editor
	Prompter Prompter
	// Out receives validation errors, normally stderr.
	Out io.Writer
	Log logger.Logger

	state State
}

// State returns the step the workflow is in, or ended in.
func (w *Workflow) State() State {
	return w.state
}

// Run writes text to w.Path and loops through editing and validation.
func (w *Workflow) Run(ctx context.Context, text string) (*form.ParsedForm, error) {
	w.state = StateInitial
	log := w.Log
	if log == nil {
		log = logger.Noop()
	}

	if err := os.WriteFile(w.Path, []byte(text), 0o600); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrForm,
			fmt.Sprintf("Couldn't write issue form %q", w.Path),
			"Check that the current directory is writable.")
	}
	line := form.EditLine(text)

	for {
		w.state = StateEditing
		if err := w.Editor.Edit(ctx, w.Path, line); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(w.Path)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrForm,
				fmt.Sprintf("Couldn't read issue form %q", w.Path), "")
		}
		text = string(b)
		line = 0

		w.state = StateValidating
		parsed, parseErr := form.ParseIssueForm(text)
		var problem string
		switch {
		case parseErr != nil:
			problem = parseErr.Error()
			if fe, ok := parseErr.(*form.FormParseError); ok {
				line = fe.Line
			}
		case parsed.Summary() == "":
			problem = "Summary is empty"
			line = form.SummaryLine(text)
		default:
			log.Debug("parsed issue form: %d fields", len(parsed.Fields))
			w.state = StateSuccess
			return parsed, nil
		}

		w.state = StateRetry
		fmt.Fprintf(w.Out, "* * *\nerror: %s\n", problem)
		if err := w.Prompter.WaitForEnter(RetryPrompt); err != nil {
			if errors.IsAborted(err) {
				fmt.Fprintln(w.Out, "\nAborting.")
				w.state = StateAborted
				return nil, errors.ErrAborted
			}
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}
