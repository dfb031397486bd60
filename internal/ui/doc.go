// Package ui provides the terminal output pieces of the jirash CLI.
//
// # Tables
//
// RenderTable prints records as aligned columns. Records are Rows (maps
// decoded from API JSON), columns are field names and may be dotted to
// reach nested values:
//
//	ui.RenderTable(os.Stdout, rows, ui.TableOptions{
//		Columns: []string{"id", "name", "owner.name"},
//		Sort:    []string{"name"},
//	})
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Confirmations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Prompts and hints
//	ColorSecondary (blue)   - Spinner
//
// ConfigureColors switches to monochrome output for --no-color, NO_COLOR
// and non-terminal output.
//
// # Prompts
//
// Confirm is a huh yes/no form. WaitForEnter is a small Bubble Tea program
// that returns once Enter is pressed, or errors.ErrAborted on Ctrl+C.
//
// # Spinner
//
// Spinner animates a label on stderr while pages of search results load:
//
//	s := ui.NewSpinner(os.Stderr, "Searching")
//	s.Start()
//	defer s.Stop()
package ui
