package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/jirash/internal/editor"
	"github.com/rileyhilliard/jirash/internal/errors"
	"github.com/rileyhilliard/jirash/internal/form"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// defaultIssueType is used when no type is given.
const defaultIssueType = "Bug"

// issueCreateOptions holds flags for `issue create`.
type issueCreateOptions struct {
	dryRun      bool
	edit        bool
	noEdit      bool
	file        string
	summary     string
	issueType   string
	assignee    string
	description string
	components  string
	json        bool
}

var issueCreateOpts issueCreateOptions

var issueCreateCmd = &cobra.Command{
	Use:   "create [flags] PROJECT",
	Short: "Create a new issue",
	Long: `Create a new issue.

By default the issue fields are edited in $EDITOR as a small form. Fields
given with -s, -t, -a, -d and -c prefill the form; use -E to skip the editor
and create the issue from the flags alone.

"-f FILE" is either a JSON (or .yaml/.yml) object of issue fields, as shown
by --dry-run, or a jirash issue form saved by an earlier failed create. A
fields file is sent as is unless -e is also given.

Examples:
  jirash issue create FOO
  jirash issue create -E -s "Crash on startup" -t Bug -a me FOO
  jirash issue create -n -E -s "Try it out" FOO
  jirash issue create -f ./jirash-20240101T120000-FOO.issue FOO`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssueCreate(cmd, issueCreateOpts, args)
	},
}

// createSession is the state of one `issue create` run.
type createSession struct {
	app        *app
	opts       issueCreateOptions
	projectKey string
	fields     map[string]interface{}

	useEditor bool
	// formText is a jirash form read from -f, if any.
	formText string
	// editPath is the form file being edited, kept when the create fails.
	editPath string
}

func runIssueCreate(cmd *cobra.Command, opts issueCreateOptions, args []string) error {
	if len(args) != 1 {
		return errors.NewUsage("incorrect number of args")
	}
	if opts.edit && opts.noEdit {
		return errors.NewUsage(`cannot specify both "--edit" and "--no-edit"`)
	}

	s := &createSession{
		app:        appFrom(cmd.Context()),
		opts:       opts,
		projectKey: args[0],
		fields: map[string]interface{}{
			"project": map[string]interface{}{"key": args[0]},
		},
		useEditor: !opts.noEdit,
	}

	err := s.run(cmd)
	a := s.app
	if err != nil {
		if s.editPath != "" {
			fmt.Fprintf(a.errOut, "Issue form was saved to %q.\nUse \"jirash create -f %s %s\" to retry.\n",
				s.editPath, s.editPath, s.projectKey)
		}
		return err
	}
	if s.editPath != "" && s.editPath != opts.file {
		a.log.Debug("removing issue form %s", s.editPath)
		if err := os.Remove(s.editPath); err != nil {
			fmt.Fprintf(a.errOut, "warning: could not delete temporary file %q: %s\n", s.editPath, err)
		}
	}
	return nil
}

func (s *createSession) run(cmd *cobra.Command) error {
	a := s.app
	ctx := cmd.Context()

	if s.opts.file != "" {
		if err := s.fieldsFromFile(); err != nil {
			return err
		}
	} else {
		s.fieldsFromFlags()
	}

	if s.useEditor {
		if err := s.fieldsFromEditor(cmd); err != nil {
			return err
		}
	} else if s.formText != "" {
		parsed, err := form.ParseIssueForm(s.formText)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrForm, fmt.Sprintf("Invalid issue form %q", s.opts.file), "")
		}
		if err := s.applyForm(parsed); err != nil {
			return err
		}
	}

	if stringField(s.fields, "summary") == "" {
		return errors.New(errors.ErrValidation, "Summary is empty",
			`Give one with "-s SUMMARY" or a "Summary:" line in the issue form.`)
	}

	a.log.Debug("creating %s issue (dry-run=%t)", s.projectKey, s.opts.dryRun)

	var issue interface{}
	var key string
	if s.opts.dryRun {
		b, err := json.MarshalIndent(s.fields, "", jsonIndent)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Creating (dry-run) %s issue:\n%s\n", s.projectKey, indentLines(string(b), jsonIndent))
		key = s.projectKey + "-NNN"
		issue = map[string]interface{}{"key": key, "dryRun": true}
	} else {
		client, err := a.jira()
		if err != nil {
			return err
		}
		created, err := client.CreateIssue(ctx, s.fields)
		if err != nil {
			return wrapAPI(err, fmt.Sprintf("Couldn't create %s issue", s.projectKey))
		}
		key = created.Key
		issue = created
	}

	if s.opts.json {
		return writeJSONIndent(a.out, issue)
	}
	fmt.Fprintf(a.out, "Created issue %s (%s/browse/%s).\n", key, strings.TrimRight(a.cfg.URL(), "/"), key)
	return nil
}

func (s *createSession) fieldsFromFlags() {
	o := s.opts
	if o.summary != "" {
		s.fields["summary"] = o.summary
	}
	if o.assignee != "" {
		s.fields["assignee"] = map[string]interface{}{"name": s.assigneeName(o.assignee)}
	}
	if o.description != "" {
		s.fields["description"] = o.description
	}
	if comps := form.ParseCommaList(o.components); len(comps) > 0 {
		s.fields["components"] = namedList(comps)
	}
	issueType := o.issueType
	if issueType == "" {
		issueType = defaultIssueType
	}
	s.fields["issuetype"] = map[string]interface{}{"name": issueType}
}

// fieldsFromFile reads -f: either structured issue fields or a jirash form.
func (s *createSession) fieldsFromFile() error {
	path := s.opts.file
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrUsage, "unable to read file: "+path, "")
	}

	fileFields, ok := decodeFieldsFile(path, data)
	if !ok {
		s.formText = string(data)
		return nil
	}

	if key := nestedString(fileFields, "project", "key"); key != "" && key != s.projectKey {
		return errors.New(errors.ErrValidation,
			fmt.Sprintf("Issue project.key from %q, %q, does not match PROJECT arg, %q", path, key, s.projectKey), "")
	}
	s.fields = fileFields
	s.useEditor = s.opts.edit
	return nil
}

// decodeFieldsFile decodes a fields file as YAML (by extension) or JSON.
// ok is false when the content is not an object, e.g. a jirash form.
func decodeFieldsFile(path string, data []byte) (fields map[string]interface{}, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fields); err != nil || fields == nil {
			return nil, false
		}
		return fields, true
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, false
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func (s *createSession) fieldsFromEditor(cmd *cobra.Command) error {
	a := s.app
	text := s.formText
	if s.opts.file != "" && text != "" {
		s.editPath = s.opts.file
	} else {
		text = form.RenderIssueForm(s.projectKey, s.template())
		s.editPath = fmt.Sprintf("./jirash-%s-%s.issue", a.now().UTC().Format("20060102T150405"), s.projectKey)
	}

	w := &editor.Workflow{
		Path:     s.editPath,
		Editor:   a.editor,
		Prompter: a.prompter,
		Out:      a.errOut,
		Log:      a.log,
	}
	parsed, err := w.Run(cmd.Context(), text)
	if err != nil {
		return err
	}
	return s.applyForm(parsed)
}

// template prefills the issue form from the fields gathered so far.
func (s *createSession) template() form.Template {
	t := form.Template{
		Summary:     stringField(s.fields, "summary"),
		Type:        nestedString(s.fields, "issuetype", "name"),
		Assignee:    s.opts.assignee,
		Description: stringField(s.fields, "description"),
	}
	if t.Assignee == "" {
		t.Assignee = nestedString(s.fields, "assignee", "name")
	}
	if comps, ok := s.fields["components"].([]interface{}); ok {
		for _, c := range comps {
			if m, ok := c.(map[string]interface{}); ok {
				if name, _ := m["name"].(string); name != "" {
					t.Components = append(t.Components, name)
				}
			}
		}
	}
	if labels, ok := s.fields["labels"].([]interface{}); ok {
		for _, l := range labels {
			if name, _ := l.(string); name != "" {
				t.Labels = append(t.Labels, name)
			}
		}
	}
	return t
}

// applyForm copies parsed form values onto the issue fields. Blank values
// clear the field so the server default applies.
func (s *createSession) applyForm(parsed *form.ParsedForm) error {
	set := func(name string, v interface{}, empty bool) {
		if empty {
			delete(s.fields, name)
		} else {
			s.fields[name] = v
		}
	}

	for _, f := range parsed.Fields {
		switch f.Name {
		case "summary":
			s.fields["summary"] = f.Value
		case "type":
			name := f.Value
			if name == "" {
				name = defaultIssueType
			}
			s.fields["issuetype"] = map[string]interface{}{"name": name}
		case "assignee":
			set("assignee", map[string]interface{}{"name": s.assigneeName(f.Value)}, f.Value == "")
		case "components":
			comps := form.ParseCommaList(f.Value)
			set("components", namedList(comps), len(comps) == 0)
		case "labels":
			labels := form.ParseCommaList(f.Value)
			set("labels", stringList(labels), len(labels) == 0)
		default:
			return errors.New(errors.ErrForm, "unknown parsed issue field: "+f.Name,
				"Supported fields are Summary, Type, Assignee, Components, Labels and Description.")
		}
	}
	set("description", parsed.Description, parsed.Description == "")
	return nil
}

// assigneeName maps "me" to the configured username.
func (s *createSession) assigneeName(name string) string {
	if name == "me" {
		return s.app.username()
	}
	return name
}

func namedList(names []string) []interface{} {
	out := make([]interface{}, len(names))
	for i, n := range names {
		out[i] = map[string]interface{}{"name": n}
	}
	return out
}

func stringList(items []string) []interface{} {
	out := make([]interface{}, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// nestedString returns m[outer][inner] when both levels are present.
func nestedString(m map[string]interface{}, outer, inner string) string {
	sub, ok := m[outer].(map[string]interface{})
	if !ok {
		return ""
	}
	s, _ := sub[inner].(string)
	return s
}

// indentLines prefixes every line of s with indent.
func indentLines(s, indent string) string {
	return indent + strings.ReplaceAll(s, "\n", "\n"+indent)
}

func init() {
	issueCmd.AddCommand(issueCreateCmd)
	addIssueCreateFlags(issueCreateCmd)
}

func addIssueCreateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVarP(&issueCreateOpts.dryRun, "dry-run", "n", false, "go through the motions without creating the issue")
	f.BoolVarP(&issueCreateOpts.edit, "edit", "e", false, "edit issue fields in $EDITOR (the default)")
	f.BoolVarP(&issueCreateOpts.noEdit, "no-edit", "E", false, "do not edit issue fields in $EDITOR")
	f.StringVarP(&issueCreateOpts.file, "file", "f", "", "JSON/YAML fields file or jirash issue form to create from")
	f.StringVarP(&issueCreateOpts.summary, "summary", "s", "", "one-line issue summary")
	f.StringVarP(&issueCreateOpts.issueType, "type", "t", "", `issue type (default "Bug")`)
	f.StringVarP(&issueCreateOpts.assignee, "assignee", "a", "", `user to assign the issue to, "me" for yourself`)
	f.StringVarP(&issueCreateOpts.description, "description", "d", "", "issue description (JIRA markup)")
	f.StringVarP(&issueCreateOpts.components, "components", "c", "", "comma-separated components")
	f.BoolVarP(&issueCreateOpts.json, "json", "j", false, "JSON output")
}
