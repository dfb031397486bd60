package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// newShortcut makes a top-level alias for the subcommand at path. addFlags
// binds the same option variables the target uses, so both commands parse
// into one set of options and share a handler.
func newShortcut(name, path string, target *cobra.Command, addFlags func(*cobra.Command)) *cobra.Command {
	use := name
	if i := strings.IndexByte(target.Use, ' '); i >= 0 {
		use += target.Use[i:]
	}
	cmd := &cobra.Command{
		Use:     use,
		Short:   `Shortcut for "jirash ` + path + `"`,
		Long:    target.Long,
		GroupID: "shortcuts",
		RunE:    target.RunE,
	}
	if addFlags != nil {
		addFlags(cmd)
	}
	return cmd
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: "shortcuts", Title: "Shortcuts:"})
	rootCmd.AddCommand(
		newShortcut("create", "issue create", issueCreateCmd, addIssueCreateFlags),
		newShortcut("comment", "issue comment", issueCommentCmd, nil),
		newShortcut("issues", "issue list", issueListCmd, addIssueListFlags),
		newShortcut("versions", "version list", versionListCmd, addVersionListFlags),
		newShortcut("filters", "filter list", filterListCmd, addFilterListFlags),
	)
}
