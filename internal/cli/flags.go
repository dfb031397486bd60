package cli

import (
	"strings"

	"github.com/rileyhilliard/jirash/internal/form"
	"github.com/rileyhilliard/jirash/internal/ui"
	"github.com/spf13/cobra"
)

// TableFlags holds the output flags shared by listing commands.
type TableFlags struct {
	NoHeader bool
	Columns  string
	Long     bool
	Sort     string
	JSON     bool
}

// tableDefaults are a listing command's default columns and sort.
type tableDefaults struct {
	columns     []string
	longColumns []string
	sort        []string
}

// AddTableFlags registers -H, -o, -s, -j and (when long is true) -l on cmd.
func AddTableFlags(cmd *cobra.Command, flags *TableFlags, defaults tableDefaults) {
	sortHelp := "sort on the given fields"
	if len(defaults.sort) > 0 {
		sortHelp += ` (default "` + strings.Join(defaults.sort, ",") + `")`
	}

	cmd.Flags().BoolVarP(&flags.NoHeader, "no-header", "H", false, "omit table header row")
	cmd.Flags().StringVarP(&flags.Columns, "output", "o", "", "fields (columns) to output, comma-separated")
	if defaults.longColumns != nil {
		cmd.Flags().BoolVarP(&flags.Long, "long", "l", false, `long/wider output, ignored if "-o ..." is used`)
	}
	cmd.Flags().StringVarP(&flags.Sort, "sort", "s", "", sortHelp)
	cmd.Flags().BoolVarP(&flags.JSON, "json", "j", false, "JSON stream output")
}

// tableOptions resolves flags against a command's defaults.
func (f TableFlags) tableOptions(defaults tableDefaults) ui.TableOptions {
	opts := ui.TableOptions{
		Columns:  defaults.columns,
		Sort:     defaults.sort,
		NoHeader: f.NoHeader,
	}
	if cols := form.ParseCommaList(f.Columns); len(cols) > 0 {
		opts.Columns = cols
	} else if f.Long && defaults.longColumns != nil {
		opts.Columns = defaults.longColumns
	}
	if keys := form.ParseCommaList(f.Sort); len(keys) > 0 {
		opts.Sort = keys
	}
	return opts
}

// customColumns reports whether -o was given.
func (f TableFlags) customColumns() bool {
	return len(form.ParseCommaList(f.Columns)) > 0
}
