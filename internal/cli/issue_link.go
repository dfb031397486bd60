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

var issueLinkCmd = &cobra.Command{
	Use:   "link ISSUE RELATION ISSUE",
	Short: "Link two issues",
	Long: `Link two issues.

RELATION is matched (case-insensitive substring) against the "outward"
description of the server's link types. Use "jirash issue linktypes" to
see them.

Examples:
  jirash issue link FOO-1 blocks BAR-2
  jirash issue link FOO-1 is cloned by BAR-2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssueLink(cmd, args)
	},
}

func runIssueLink(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
		return errors.NewUsage("too few args")
	}
	inward, outward := args[0], args[len(args)-1]
	relation := strings.Join(args[1:len(args)-1], " ")
	for _, key := range []string{inward, outward} {
		if !issueKeyPattern.MatchString(key) {
			return errors.NewUsage("%q is not an issue key", key)
		}
	}

	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}
	types, err := client.GetIssueLinkTypes(cmd.Context())
	if err != nil {
		return wrapAPI(err, "Couldn't list issue link types")
	}
	a.log.Debug("%d issue link %s", len(types), util.Pluralize(len(types), "type", "types"))

	lt, err := jira.MatchLinkType(relation, types)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrValidation, "Unknown link relation", "")
	}
	if err := client.LinkIssues(cmd.Context(), lt.Name, inward, outward); err != nil {
		return wrapAPI(err, fmt.Sprintf("Couldn't link %s to %s", inward, outward))
	}
	fmt.Fprintf(a.out, "Linked issues: %s %s %s.\n", inward, lt.Outward, outward)
	return nil
}

var linkTypesTable = tableDefaults{
	columns: []string{"id", "name", "outward"},
	sort:    []string{"name"},
}

var linkTypesOpts TableFlags

var issueLinkTypesCmd = &cobra.Command{
	Use:   "linktypes [flags]",
	Short: "List issue link types",
	Long: `List issue link types.

Examples:
  jirash issue linktypes
  jirash issue linktypes -o name,inward,outward`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssueLinkTypes(cmd, linkTypesOpts, args)
	},
}

func runIssueLinkTypes(cmd *cobra.Command, opts TableFlags, args []string) error {
	if len(args) != 0 {
		return errors.NewUsage("too many args")
	}
	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}
	types, err := client.GetIssueLinkTypes(cmd.Context())
	if err != nil {
		return wrapAPI(err, "Couldn't list issue link types")
	}

	rows := make([]ui.Row, 0, len(types))
	for _, lt := range types {
		row, err := toRow(lt)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if opts.JSON {
		return writeJSONStream(a.out, rows)
	}
	return ui.RenderTable(a.out, rows, opts.tableOptions(linkTypesTable))
}

func init() {
	issueCmd.AddCommand(issueLinkCmd, issueLinkTypesCmd)
	AddTableFlags(issueLinkTypesCmd, &linkTypesOpts, linkTypesTable)
}
