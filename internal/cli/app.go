package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rileyhilliard/jirash/internal/config"
	"github.com/rileyhilliard/jirash/internal/editor"
	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/rileyhilliard/jirash/internal/jira"
	"github.com/rileyhilliard/jirash/internal/logger"
	"github.com/rileyhilliard/jirash/internal/ui"
)

// app carries what command handlers need: config, the JIRA client, I/O and
// the interactive pieces. One is built per process by the root command and
// handed to each handler.
type app struct {
	cfg *config.Config
	log logger.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// client is created on first use so commands that never talk to the
	// server work without credentials.
	client *jira.Client

	editor   editor.Editor
	prompter editor.Prompter
	confirm  func(title string) (bool, error)
	now      func() time.Time

	// spinner reports whether to animate progress on errOut.
	spinner bool
}

type appKey struct{}

func withApp(ctx context.Context, a *app) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

func appFrom(ctx context.Context) *app {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(appKey{}).(*app)
	return a
}

// newApp builds the process app from the global flags.
func newApp() (*app, error) {
	log := logger.NewEnvLogger(verbose)
	logger.SetDefault(log)

	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	log.Debug("config: %s", cfg.Path)

	ed := editor.FromEnv()
	ed.Log = log

	return &app{
		cfg:    cfg,
		log:    log,
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		editor: ed,
		prompter: editor.PromptFunc(func(prompt string) error {
			return ui.WaitForEnter(os.Stdin, os.Stderr, prompt)
		}),
		confirm: ui.Confirm,
		now:     time.Now,
		spinner: ui.IsTerminal(os.Stderr) && !verbose,
	}, nil
}

// jira returns the API client, creating it from the configured credentials
// on first use.
func (a *app) jira() (*jira.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	creds, err := a.cfg.Credentials()
	if err != nil {
		return nil, err
	}
	a.client = jira.NewClient(creds.URL, creds.Username, creds.Password, jira.WithLogger(a.log))
	return a.client, nil
}

// username is the configured login, used for "me" assignee shortcuts.
func (a *app) username() string {
	if a.cfg == nil {
		return ""
	}
	return a.cfg.Username()
}

// withSpinner runs fn while a spinner animates on stderr (only on a TTY).
func (a *app) withSpinner(label string, fn func() error) error {
	if !a.spinner {
		return fn()
	}
	s := ui.NewSpinner(a.errOut, label)
	s.Start()
	defer s.Stop()
	return fn()
}

// wrapAPI gives a failed request a consistent structured error.
func wrapAPI(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.IsAborted(err) {
		return err
	}
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.Wrap(err, what)
}
