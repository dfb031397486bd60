package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"

	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/rileyhilliard/jirash/internal/ui"
	"github.com/spf13/cobra"
)

// Global flags
var (
	verbose     bool
	noColor     bool
	showVersion bool
)

// noAppAnnotation marks commands that run without config or a JIRA client.
const noAppAnnotation = "jirash/no-app"

// issueKeyPattern matches issue keys such as "FOO-123".
var issueKeyPattern = regexp.MustCompile(`^[A-Z]+-\d+$`)

// rootCmd is the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jirash",
	Short: "A CLI for the JIRA REST API",
	Long: `jirash is a command-line client for JIRA. Subcommands map closely to
REST API endpoints: issues, saved filters, project versions and raw API calls.

Configuration is read from ~/.jirash.json (override with $JIRASH_CONFIG):

  {
    "jira_url": "https://jira.example.com",
    "jira_username": "bob",
    "jira_password": "..."
  }

Shortcut: "jirash KEY-123" is the same as "jirash issue get --short KEY-123".`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.ConfigureColors(noColor, os.Stdout)
		if appFrom(cmd.Context()) != nil || !needsApp(cmd) {
			return nil
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		cmd.SetContext(withApp(cmd.Context(), a))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion(cmd.OutOrStdout(), verbose)
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose/debug output (also $JIRASH_DEBUG)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.AddGroup(
		&cobra.Group{ID: "issues", Title: "Issues:"},
		&cobra.Group{ID: "other", Title: "Other Commands:"},
	)
	rootCmd.SetHelpCommandGroupID("other")
}

// needsApp reports whether cmd loads the config before it runs. Shell
// completion works even when the config file is broken.
func needsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	_, skip := cmd.Annotations[noAppAnnotation]
	return !skip
}

// Execute runs the root command and exits the process with its status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the exit status. Errors are
// reported on errOut; a cancelled prompt or confirmation exits 0 quietly.
func run(ctx context.Context, args []string, errOut io.Writer) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)

	if err != nil && isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); issueKeyPattern.MatchString(name) {
			rootCmd.SetArgs(shortcutArgs(args, name))
			err = rootCmd.ExecuteContext(ctx)
		}
	}

	if err == nil || errors.IsAborted(err) {
		return 0
	}
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}
	reportError(errOut, err)
	return 1
}

// shortcutArgs rewrites "jirash [flags] KEY-123" into the issue get
// command line.
func shortcutArgs(args []string, key string) []string {
	out := make([]string, 0, len(args)+3)
	for _, arg := range args {
		if arg == key {
			out = append(out, "issue", "get", "--short", key)
			continue
		}
		out = append(out, arg)
	}
	return out
}

// reportError prints err in the structured "✗ message" layout.
func reportError(w io.Writer, err error) {
	msg := err.Error()
	if _, ok := err.(*errors.Error); !ok {
		msg = ui.SymbolFail + " " + msg
		if isUnknownCommandError(err) {
			msg += "\n\n  Run 'jirash --help' for usage."
		}
	}
	fmt.Fprintln(w, ui.ErrorStyle().Render(strings.TrimRight(msg, "\n")))
}

// isUnknownCommandError checks if the error is from cobra's unknown command or flag handling.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "jirash"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
