// Package cli implements the jirash command-line interface.
//
// Each Cobra command parses its arguments and flags into an options struct
// and hands them to a run function. The run function pulls the process app
// (config, logger, JIRA client, editor and prompts) from the command
// context, so tests can install their own app against a fake server.
//
// # Command Structure
//
//	jirash issue get KEY              - Print an issue summary or JSON
//	jirash issue list FILTER          - Table of the issues a saved filter finds
//	jirash issue create PROJECT       - Create an issue, optionally via $EDITOR
//	jirash issue edit KEY EDIT-JSON   - Apply an "update" object to an issue
//	jirash issue comment KEY FILE     - Add a comment ("-" reads stdin)
//	jirash issue link KEY REL KEY     - Link two issues
//	jirash issue linktypes            - List link types
//	jirash filter list                - List favourite filters
//	jirash version [get|create|list|update|archive|release|delete]
//	jirash api ENDPOINT               - Raw REST call
//
// Top-level shortcuts (create, comment, issues, versions, filters) share
// the flags and handler of the command they stand for. An unknown command
// that looks like an issue key, e.g. "jirash FOO-12", runs
// "issue get --short FOO-12".
//
// # Output
//
// Listing commands share TableFlags (-H, -o, -l, -s, -j). Rows are built
// from the JSON form of API objects so any server field can be a column.
// -j prints one compact JSON object per line.
//
// # Errors
//
// Handlers return structured errors from the errors package. run reports
// them on stderr and picks the exit status; an aborted prompt exits 0.
package cli
