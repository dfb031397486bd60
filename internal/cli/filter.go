package cli

import (
	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/rileyhilliard/jirash/internal/jira"
	"github.com/rileyhilliard/jirash/internal/ui"
	"github.com/rileyhilliard/jirash/internal/util"
	"github.com/spf13/cobra"
)

// filterCmd groups the saved filter subcommands.
var filterCmd = &cobra.Command{
	Use:     "filter",
	Short:   "List saved filters",
	GroupID: "issues",
}

var filterListTable = tableDefaults{
	columns:     []string{"id", "name", "owner.name", "sharedWith"},
	longColumns: []string{"id", "name", "owner.name", "viewUrl", "jql"},
	sort:        []string{"name"},
}

var filterListOpts TableFlags

var filterListCmd = &cobra.Command{
	Use:     "list [flags]",
	Aliases: []string{"ls"},
	Short:   "List your favourite filters",
	Long: `List your favourite filters.

Examples:
  jirash filter list
  jirash filter list -l
  jirash filter list -o id,jql -s -id`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilterList(cmd, filterListOpts, args)
	},
}

func runFilterList(cmd *cobra.Command, opts TableFlags, args []string) error {
	if len(args) != 0 {
		return errors.NewUsage("incorrect number of args")
	}
	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}
	filters, err := client.GetFavouriteFilters(cmd.Context())
	if err != nil {
		return wrapAPI(err, "Couldn't list favourite filters")
	}

	rows := make([]ui.Row, 0, len(filters))
	for _, f := range filters {
		row, err := toRow(f)
		if err != nil {
			return err
		}
		if !opts.JSON {
			if shared := sharedWith(f.SharePermissions); shared != "" {
				row["sharedWith"] = shared
			}
		}
		rows = append(rows, row)
	}

	if opts.JSON {
		return writeJSONStream(a.out, rows)
	}
	return ui.RenderTable(a.out, rows, opts.tableOptions(filterListTable))
}

// sharedWith summarizes filter share permissions: group names, or
// "<type>:???" for other kinds of share.
func sharedWith(perms []jira.SharePermission) string {
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		if p.Type == "group" && p.Group != nil {
			names = append(names, p.Group.Name)
		} else {
			names = append(names, p.Type+":???")
		}
	}
	return util.JoinOrDefault(names, "")
}

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.AddCommand(filterListCmd)
	addFilterListFlags(filterListCmd)
}

func addFilterListFlags(cmd *cobra.Command) {
	AddTableFlags(cmd, &filterListOpts, filterListTable)
}
