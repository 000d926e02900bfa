// Package emoji provides status symbols for CLI output.
package emoji

const (
	// Success marks a passing check.
	Success = "✓"

	// Error marks a failing check.
	Error = "✗"

	// Warning marks a non-fatal issue.
	Warning = "!"
)
