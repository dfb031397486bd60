// Package editor runs the user's $EDITOR on issue form files and drives the
// edit, validate and retry loop of interactive issue creation.
package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/rileyhilliard/jirash/internal/form"
	"github.com/rileyhilliard/jirash/internal/logger"
)

// DefaultEditor is used when $EDITOR is not set.
const DefaultEditor = "/usr/bin/vi"

// Editor opens a file for interactive editing. A line greater than zero
// asks the editor to put the cursor there.
type Editor interface {
	Edit(ctx context.Context, path string, line int) error
}

// Command is an Editor that runs an external program in the foreground.
type Command struct {
	// Program is the editor command line, e.g. "vim" or `code --wait`.
	// It is tokenized with form.ArgvFromLine, so it may contain quoted
	// arguments.
	Program string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logger.Logger
}

// FromEnv returns a Command for $EDITOR (or DefaultEditor) attached to the
// process's terminal.
func FromEnv() *Command {
	prog := os.Getenv("EDITOR")
	if prog == "" {
		prog = DefaultEditor
	}
	return &Command{
		Program: prog,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Log:     logger.Default(),
	}
}

// Argv returns the argument vector used to edit path. Only Program is
// tokenized; path is passed as a single argument whatever it contains.
func (c *Command) Argv(path string, line int) ([]string, error) {
	argv, err := form.ArgvFromLine(c.Program)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty editor command %q", c.Program)
	}
	if line > 0 {
		argv = append(argv, "+"+strconv.Itoa(line))
	}
	return append(argv, path), nil
}

// Edit runs the editor on path and waits for it to exit.
func (c *Command) Edit(ctx context.Context, path string, line int) error {
	argv, err := c.Argv(path, line)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Couldn't parse the editor command",
			"Check the quoting in your EDITOR environment variable.")
	}
	if c.Log != nil {
		c.Log.Debug("editor argv: %q", argv)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if runErr := cmd.Run(); runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			return &AbnormalExitError{Argv: argv, Code: exitErr.ExitCode(), Signal: exitSignal(exitErr)}
		}
		return errors.WrapWithCode(runErr, errors.ErrExec,
			fmt.Sprintf("Couldn't start the editor %q", argv[0]),
			"Set EDITOR to an editor installed on this machine.")
	}
	return nil
}

func exitSignal(exitErr *exec.ExitError) string {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ws.Signal().String()
	}
	return ""
}

// AbnormalExitError reports an editor that exited non-zero or was killed by
// a signal. Code is -1 when there is no exit code.
type AbnormalExitError struct {
	Argv   []string
	Code   int
	Signal string
}

func (e *AbnormalExitError) Error() string {
	code := "null"
	if e.Code >= 0 {
		code = strconv.Itoa(e.Code)
	}
	signal := "null"
	if e.Signal != "" {
		signal = jsonString(e.Signal)
	}
	return fmt.Sprintf("editor terminated abnormally: argv=%s, code=%s, signal=%s",
		jsonString(e.Argv), code, signal)
}

func jsonString(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
