package ui

// Unicode symbols prefixed to status lines.
const (
	SymbolSuccess = "✓" // Operation completed
	SymbolFail    = "✗" // Operation failed
	SymbolPending = "○" // Nothing to do (already archived, dry run)
	SymbolWarning = "⚠" // Non-fatal problem
)
