package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/rileyhilliard/jirash/internal/form"
	"github.com/rileyhilliard/jirash/internal/jira"
	"github.com/spf13/cobra"
)

// issueCmd groups the issue subcommands.
var issueCmd = &cobra.Command{
	Use:     "issue",
	Short:   "Search, get, create and edit issues",
	GroupID: "issues",
}

// issueGetOptions holds flags for `issue get`.
type issueGetOptions struct {
	short  bool
	fields string
	json   bool
}

var issueGetOpts issueGetOptions

var issueGetCmd = &cobra.Command{
	Use:   "get [flags] ISSUE",
	Short: "Get an issue",
	Long: `Get an issue.

Examples:
  jirash issue get FOO-123
  jirash issue get -s FOO-123
  jirash issue get -j --fields summary,labels FOO-123`,
	ValidArgsFunction: cobra.NoFileCompletions,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssueGet(cmd, issueGetOpts, args)
	},
}

// defaultIssueGetFields are requested for the one-line summary.
var defaultIssueGetFields = []string{"summary", "reporter", "assignee", "priority", "issuetype", "status"}

func runIssueGet(cmd *cobra.Command, opts issueGetOptions, args []string) error {
	if len(args) != 1 {
		return errors.NewUsage("incorrect number of args")
	}
	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}

	var fields []string
	switch {
	case opts.short:
		fields = []string{"summary"}
	case opts.json:
		fields = form.ParseCommaList(opts.fields)
	default:
		fields = defaultIssueGetFields
	}

	issue, err := client.GetIssue(cmd.Context(), args[0], jira.GetIssueOptions{Fields: fields})
	if err != nil {
		return wrapAPI(err, fmt.Sprintf("Couldn't get issue %s", args[0]))
	}

	switch {
	case opts.json:
		return writeJSONIndent(a.out, issue)
	case opts.short:
		fmt.Fprintf(a.out, "%s %s\n", issue.Key, issue.Fields.Summary)
	default:
		fmt.Fprintf(a.out, "%s %s (%s)\n", issue.Key, issue.Fields.Summary, issueExtra(issue.Fields))
	}
	return nil
}

// issueExtra is the "(reporter -> assignee, type, priority, status)" part
// of an issue summary line.
func issueExtra(f jira.IssueFields) string {
	assignee := "<unassigned>"
	if f.Assignee != nil && f.Assignee.Name != "" {
		assignee = f.Assignee.Name
	}
	extra := []string{fmt.Sprintf("%s -> %s", userName(f.Reporter), assignee)}
	if f.IssueType != nil && f.IssueType.Name != "" {
		extra = append(extra, f.IssueType.Name)
	}
	if f.Priority != nil && f.Priority.Name != "" {
		extra = append(extra, f.Priority.Name)
	} else {
		extra = append(extra, "<no prio>")
	}
	extra = append(extra, namedName(f.Status))
	return strings.Join(extra, ", ")
}

func userName(u *jira.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}

func namedName(n *jira.Named) string {
	if n == nil {
		return ""
	}
	return n.Name
}

var issueEditCmd = &cobra.Command{
	Use:   "edit ISSUE EDIT-JSON",
	Short: "Edit an issue",
	Long: `Edit an issue.

EDIT-JSON is the "update" object of the JIRA edit issue API, see
https://docs.atlassian.com/software/jira/docs/api/REST/7.4.2/#api/2/issue-editIssue

Examples:
  jirash issue edit FOO-123 '{"labels": [{"add": "triaged"}]}'
  jirash issue edit FOO-123 '{"summary": [{"set": "a better summary"}]}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssueEdit(cmd, args)
	},
}

func runIssueEdit(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.NewUsage("incorrect number of args")
	}
	var update map[string]interface{}
	if err := json.Unmarshal([]byte(args[1]), &update); err != nil {
		return errors.NewUsage("could not parse EDIT-JSON: %v", err)
	}

	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}
	if err := client.EditIssue(cmd.Context(), args[0], json.RawMessage(args[1])); err != nil {
		return wrapAPI(err, fmt.Sprintf("Couldn't edit issue %s", args[0]))
	}
	return nil
}

var issueCommentCmd = &cobra.Command{
	Use:   "comment ISSUE FILE",
	Short: "Add a comment to an issue",
	Long: `Add a comment to an issue.

Use "-" as FILE to read the comment from stdin.

Examples:
  jirash issue comment FOO-123 notes.txt
  echo "Fixed in 1.2.3" | jirash issue comment FOO-123 -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssueComment(cmd, args)
	},
}

func runIssueComment(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.NewUsage("incorrect number of args")
	}
	a := appFrom(cmd.Context())

	var (
		body []byte
		err  error
	)
	if args[1] == "-" {
		body, err = io.ReadAll(a.in)
	} else {
		body, err = os.ReadFile(args[1])
	}
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrUsage, "unable to read file: "+args[1], "")
	}

	client, err := a.jira()
	if err != nil {
		return err
	}
	if _, err := client.AddComment(cmd.Context(), args[0], string(body)); err != nil {
		return wrapAPI(err, fmt.Sprintf("Couldn't comment on issue %s", args[0]))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(issueCmd)
	issueCmd.AddCommand(issueGetCmd, issueEditCmd, issueCommentCmd)

	issueGetCmd.Flags().BoolVarP(&issueGetOpts.short, "short", "s", false, "short issue representation")
	issueGetCmd.Flags().StringVar(&issueGetOpts.fields, "fields", "", "limit response to the given fields (only with --json)")
	issueGetCmd.Flags().BoolVarP(&issueGetOpts.json, "json", "j", false, "raw JSON output")
}
