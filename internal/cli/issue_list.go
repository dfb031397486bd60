package cli

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/rileyhilliard/jirash/internal/jira"
	"github.com/rileyhilliard/jirash/internal/ui"
	"github.com/rileyhilliard/jirash/internal/util"
	"github.com/spf13/cobra"
)

var issueListTable = tableDefaults{
	columns: []string{"key", "shortSummary", "components", "assignee", "p", "stat", "created", "updated"},
	longColumns: []string{"key", "priority", "status", "type", "reporter", "assignee",
		"created", "updated", "resolved", "components", "summary"},
}

var issueListShortColumns = []string{"key", "summary"}

// Fields requested from the search for the default and long tables. With
// --json or -o every field is requested.
var (
	issueListFields     = []string{"summary", "components", "reporter", "assignee", "priority", "status", "created", "updated"}
	issueListLongFields = []string{"summary", "components", "reporter", "assignee", "priority", "issuetype",
		"status", "created", "updated", "resolutiondate"}
)

// issueListOptions holds flags for `issue list`.
type issueListOptions struct {
	table TableFlags
	short bool
}

var issueListOpts issueListOptions

var issueListCmd = &cobra.Command{
	Use:     "list [flags] FILTER",
	Aliases: []string{"ls"},
	Short:   "List issues in the given JIRA filter",
	Long: `List issues in the given JIRA filter.

FILTER is a filter ID, or the name or partial name match of one of your
favourite filters. Use "jirash filter list" to list favourite filters.

Examples:
  jirash issue list "My Open Bugs"
  jirash issue list -l 12345
  jirash issue list -o key,status,summary -s status triage`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssueList(cmd, issueListOpts, args)
	},
}

func runIssueList(cmd *cobra.Command, opts issueListOptions, args []string) error {
	if len(args) != 1 {
		return errors.NewUsage("incorrect number of args")
	}
	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var filter *jira.Filter
	err = a.withSpinner("Finding filter", func() error {
		var ferr error
		filter, ferr = client.FindFilter(ctx, args[0])
		return ferr
	})
	if err != nil {
		return wrapAPI(err, fmt.Sprintf("Couldn't find filter %q", args[0]))
	}
	a.log.Debug("filter %s (%s): %s", filter.ID, filter.Name, filter.JQL)

	var fields []string
	switch {
	case opts.table.Long:
		fields = issueListLongFields
	case opts.table.JSON || opts.table.customColumns():
	default:
		fields = issueListFields
	}

	var issues []jira.Issue
	err = a.withSpinner("Searching issues", func() error {
		var serr error
		issues, serr = client.Pager(jira.SearchOptions{JQL: filter.JQL, Fields: fields}).All(ctx)
		return serr
	})
	if err != nil {
		return wrapAPI(err, fmt.Sprintf("Couldn't search filter %q", filter.Name))
	}
	a.log.Debug("found %d %s", len(issues), util.Pluralize(len(issues), "issue", "issues"))

	rows := make([]ui.Row, 0, len(issues))
	for i := range issues {
		row, err := toRow(issues[i])
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrAPI, "Couldn't decode issue "+issues[i].Key, "")
		}
		if !opts.table.JSON {
			addIssueColumns(row, issues[i].Fields)
		}
		rows = append(rows, row)
	}

	if opts.table.JSON {
		return writeJSONStream(a.out, rows)
	}

	tableOpts := opts.table.tableOptions(issueListTable)
	if opts.short && !opts.table.customColumns() {
		tableOpts.Columns = issueListShortColumns
	}
	return ui.RenderTable(a.out, rows, tableOpts)
}

// addIssueColumns sets the computed table columns of an issue row.
func addIssueColumns(row ui.Row, f jira.IssueFields) {
	row["summary"] = f.Summary
	row["shortSummary"] = shortSummary(f.Summary)

	var comps []string
	for _, c := range f.Components {
		comps = append(comps, c.Name)
	}
	row["components"] = nilIfEmpty(strings.Join(comps, ","))

	if f.Assignee != nil && f.Assignee.Name != "" {
		row["assignee"] = f.Assignee.Name
	} else {
		row["assignee"] = nil
	}
	row["reporter"] = nilIfEmpty(userName(f.Reporter))

	prio := namedName(f.Priority)
	row["priority"] = nilIfEmpty(prio)
	row["p"] = nilIfEmpty(util.Truncate(prio, 1))

	status := namedName(f.Status)
	row["status"] = nilIfEmpty(status)
	row["stat"] = nilIfEmpty(util.Truncate(status, 4))

	row["created"] = nilIfEmpty(util.Truncate(f.Created, 10))
	row["updated"] = nilIfEmpty(util.Truncate(f.Updated, 10))
	row["resolved"] = nilIfEmpty(util.Truncate(f.ResolutionDate, 10))
	row["type"] = nilIfEmpty(namedName(f.IssueType))
}

// shortSummary cuts summaries longer than 40 characters to 39 plus an
// ellipsis.
func shortSummary(s string) string {
	return util.Ellipsize(s, 40)
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func init() {
	issueCmd.AddCommand(issueListCmd)
	addIssueListFlags(issueListCmd)
}

func addIssueListFlags(cmd *cobra.Command) {
	AddTableFlags(cmd, &issueListOpts.table, issueListTable)
	cmd.Flags().BoolVarP(&issueListOpts.short, "short", "S", false, "fewer columns, to show the full summary")
}
