package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/rileyhilliard/jirash/internal/jira"
	"github.com/rileyhilliard/jirash/internal/ui"
	"github.com/spf13/cobra"
)

// versionCmd groups the project version subcommands.
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Manage project versions",
	GroupID: "issues",
}

// versionRef names a version either by id or by project and name.
type versionRef struct {
	id      string
	project string
	name    string
}

// parseVersionRef reads "( PROJECT VERSION | ID )" from the front of args
// and returns the remaining args.
func parseVersionRef(args []string, exact bool) (versionRef, []string, error) {
	switch {
	case len(args) >= 1 && jira.IsNumericID(args[0]):
		if exact && len(args) != 1 {
			break
		}
		return versionRef{id: args[0]}, args[1:], nil
	case len(args) >= 2:
		if exact && len(args) != 2 {
			break
		}
		return versionRef{project: args[0], name: args[1]}, args[2:], nil
	}
	return versionRef{}, nil, errors.NewUsage("incorrect number of args")
}

// resolve fetches the referenced version.
func (r versionRef) resolve(ctx context.Context, client *jira.Client) (*jira.Version, error) {
	var (
		ver *jira.Version
		err error
	)
	if r.id != "" {
		ver, err = client.GetVersion(ctx, r.id)
	} else {
		ver, err = client.GetProjectVersion(ctx, r.project, r.name)
	}
	if err != nil {
		return nil, wrapAPI(err, "Couldn't get version "+r.String())
	}
	return ver, nil
}

func (r versionRef) String() string {
	if r.id != "" {
		return r.id
	}
	return fmt.Sprintf("%s %q", r.project, r.name)
}

// describe is how messages name ver: `PROJ "name"` when given by project,
// else just the name.
func (r versionRef) describe(ver *jira.Version) string {
	if r.project != "" {
		return fmt.Sprintf("%s %q", r.project, ver.Name)
	}
	return ver.Name
}

var versionGetCmd = &cobra.Command{
	Use:   "get ( PROJECT VERSION | ID )",
	Short: "Get a version",
	Long: `Get a version, as JSON.

Examples:
  jirash version get FOO 1.2.3
  jirash version get 10042`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, _, err := parseVersionRef(args, true)
		if err != nil {
			return err
		}
		a := appFrom(cmd.Context())
		client, err := a.jira()
		if err != nil {
			return err
		}
		ver, err := ref.resolve(cmd.Context(), client)
		if err != nil {
			return err
		}
		return writeJSONIndent(a.out, ver)
	},
}

// versionCreateOptions holds flags for `version create`.
type versionCreateOptions struct {
	releaseDate string
	description string
	released    bool
	archived    bool
}

var versionCreateOpts versionCreateOptions

var versionCreateCmd = &cobra.Command{
	Use:   "create [flags] PROJECT VERSION-NAME",
	Short: "Create a project version",
	Long: `Create a project version.

Examples:
  jirash version create FOO 1.2.3
  jirash version create -r 2024-06-01 -D "June release" FOO 1.3.0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersionCreate(cmd, versionCreateOpts, args)
	},
}

func runVersionCreate(cmd *cobra.Command, opts versionCreateOptions, args []string) error {
	if len(args) != 2 {
		return errors.NewUsage("incorrect number of args")
	}
	if opts.releaseDate != "" && !jira.ReleaseDatePattern.MatchString(opts.releaseDate) {
		return errors.NewUsage("release date does not match YYYY-MM-DD: %s", opts.releaseDate)
	}
	project := args[0]

	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}
	ver, err := client.CreateVersion(cmd.Context(), jira.VersionCreate{
		Project:     project,
		Name:        args[1],
		Description: opts.description,
		Released:    opts.released,
		Archived:    opts.archived,
		ReleaseDate: opts.releaseDate,
	})
	if err != nil {
		return wrapAPI(err, fmt.Sprintf("Couldn't create version %s %q", project, args[1]))
	}

	var extras []string
	if ver.ReleaseDate != "" {
		extras = append(extras, "releaseDate="+ver.ReleaseDate)
	}
	if ver.Released {
		extras = append(extras, "released")
	}
	if ver.Archived {
		extras = append(extras, "archived")
	}
	suffix := ""
	if len(extras) > 0 {
		suffix = " (" + strings.Join(extras, ", ") + ")"
	}
	fmt.Fprintf(a.out, "Created version %s %q%s\n", project, ver.Name, suffix)
	return nil
}

var versionListTable = tableDefaults{
	columns:     []string{"name", "releaseDate", "released", "archived"},
	longColumns: []string{"id", "name", "releaseDate", "released", "archived"},
	sort:        []string{"releaseDate"},
}

// versionListOptions holds flags for `version list`.
type versionListOptions struct {
	table           TableFlags
	excludeArchived bool
	excludeReleased bool
}

var versionListOpts versionListOptions

var versionListCmd = &cobra.Command{
	Use:     "list [flags] PROJECT",
	Aliases: []string{"ls"},
	Short:   "List versions for the given project",
	Long: `List versions for the given project.

Examples:
  jirash version list FOO
  jirash version list -a -r FOO     # only unreleased, unarchived versions
  jirash version list -j FOO`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersionList(cmd, versionListOpts, args)
	},
}

func runVersionList(cmd *cobra.Command, opts versionListOptions, args []string) error {
	if len(args) != 1 {
		return errors.NewUsage("incorrect number of args")
	}
	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}
	vers, err := client.GetProjectVersions(cmd.Context(), args[0])
	if err != nil {
		return wrapAPI(err, "Couldn't list versions of project "+args[0])
	}

	rows := make([]ui.Row, 0, len(vers))
	for _, v := range vers {
		if opts.excludeArchived && v.Archived {
			continue
		}
		if opts.excludeReleased && v.Released {
			continue
		}
		row, err := toRow(v)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if opts.table.JSON {
		return writeJSONStream(a.out, rows)
	}
	return ui.RenderTable(a.out, rows, opts.table.tableOptions(versionListTable))
}

var versionUpdateCmd = &cobra.Command{
	Use:   "update ( PROJECT VERSION | ID ) FIELD=VALUE...",
	Short: "Update attributes of a project version",
	Long: `Update attributes of a project version.

Updatable fields:
  released (bool)
  archived (bool)
  releaseDate (string, YYYY-MM-DD)

Examples:
  jirash version update FOO 1.2.3 releaseDate=2024-01-01
  jirash version update FOO 1.2.3 archived=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, rest, err := parseVersionRef(args, false)
		if err != nil {
			return err
		}
		updates, err := jira.ParseVersionUpdates(rest)
		if err != nil {
			return errors.NewUsage("%s", err)
		}
		if len(updates) == 0 {
			return nil
		}
		return updateVersion(cmd, ref, updates, "Updated version %s (%s).\n")
	},
}

// updateVersion resolves ref, applies updates and prints msg with the
// version id and description.
func updateVersion(cmd *cobra.Command, ref versionRef, updates map[string]interface{}, msg string) error {
	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}
	ver, err := ref.resolve(cmd.Context(), client)
	if err != nil {
		return err
	}
	if _, err := client.UpdateVersion(cmd.Context(), ver.ID, updates); err != nil {
		return wrapAPI(err, "Couldn't update version "+ref.String())
	}
	fmt.Fprintf(a.out, msg, ver.ID, ref.describe(ver))
	return nil
}

// newVersionFlagCmd builds `version archive` and `version release`, which
// set one boolean field unless it is already set.
func newVersionFlagCmd(name, field, verb string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " ( PROJECT VERSION | ID )",
		Short: strings.ToUpper(name[:1]) + name[1:] + " a project version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, _, err := parseVersionRef(args, true)
			if err != nil {
				return err
			}
			a := appFrom(cmd.Context())
			client, err := a.jira()
			if err != nil {
				return err
			}
			ver, err := ref.resolve(cmd.Context(), client)
			if err != nil {
				return err
			}
			already := ver.Archived
			if field == "released" {
				already = ver.Released
			}
			if already {
				fmt.Fprintf(a.out, "Version %s (%s) is already %s.\n", ver.ID, ref.describe(ver), verb)
				return nil
			}
			if _, err := client.UpdateVersion(cmd.Context(), ver.ID, map[string]interface{}{field: true}); err != nil {
				return wrapAPI(err, "Couldn't update version "+ref.String())
			}
			fmt.Fprintf(a.out, "%s version %s (%s).\n", strings.ToUpper(verb[:1])+verb[1:], ver.ID, ref.describe(ver))
			return nil
		},
	}
}

var (
	versionArchiveCmd = newVersionFlagCmd("archive", "archived", "archived")
	versionReleaseCmd = newVersionFlagCmd("release", "released", "released")
)

var versionDeleteForce bool

var versionDeleteCmd = &cobra.Command{
	Use:     "delete [flags] ( PROJECT VERSION | ID )",
	Aliases: []string{"rm"},
	Short:   "Delete a project version",
	Long: `Delete a project version. You are asked to confirm unless -f is given.

Examples:
  jirash version delete FOO 1.2.3
  jirash version rm -f 10042`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersionDelete(cmd, versionDeleteForce, args)
	},
}

func runVersionDelete(cmd *cobra.Command, force bool, args []string) error {
	ref, _, err := parseVersionRef(args, true)
	if err != nil {
		return err
	}
	a := appFrom(cmd.Context())
	client, err := a.jira()
	if err != nil {
		return err
	}
	ver, err := ref.resolve(cmd.Context(), client)
	if err != nil {
		return err
	}
	desc := ref.describe(ver)

	if !force {
		ok, err := a.confirm(fmt.Sprintf("Delete version %s (%s)?", ver.ID, desc))
		if err != nil {
			if errors.IsAborted(err) {
				return errors.New(errors.ErrValidation, "cancelled", "")
			}
			return err
		}
		if !ok {
			return errors.ErrAborted
		}
	}

	if err := client.DeleteVersion(cmd.Context(), ver.ID); err != nil {
		return wrapAPI(err, "Couldn't delete version "+ref.String())
	}
	fmt.Fprintf(a.out, "Deleted version %s (%s).\n", ver.ID, desc)
	return nil
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.AddCommand(versionGetCmd, versionCreateCmd, versionListCmd, versionUpdateCmd,
		versionArchiveCmd, versionReleaseCmd, versionDeleteCmd)

	versionCreateCmd.Flags().StringVarP(&versionCreateOpts.releaseDate, "release-date", "r", "", "release date, YYYY-MM-DD")
	versionCreateCmd.Flags().StringVarP(&versionCreateOpts.description, "description", "D", "", "version description")
	versionCreateCmd.Flags().BoolVar(&versionCreateOpts.released, "released", false, "mark the new version as released")
	versionCreateCmd.Flags().BoolVar(&versionCreateOpts.archived, "archived", false, "mark the new version as archived")

	addVersionListFlags(versionListCmd)

	versionDeleteCmd.Flags().BoolVarP(&versionDeleteForce, "force", "f", false, "delete without confirmation")
}

func addVersionListFlags(cmd *cobra.Command) {
	AddTableFlags(cmd, &versionListOpts.table, versionListTable)
	cmd.Flags().BoolVarP(&versionListOpts.excludeArchived, "exclude-archived", "a", false, "exclude archived versions")
	cmd.Flags().BoolVarP(&versionListOpts.excludeReleased, "exclude-released", "r", false, "exclude released versions")
}
