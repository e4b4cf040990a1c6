// Package emoji provides the status symbols used in CLI output.
package emoji

// Status symbols. Plain characters render the same in every terminal.
const (
	// Success marks a stage or check that completed.
	Success = "✓"

	// Error marks a failed stage.
	Error = "✗"

	// Stop marks a shutdown.
	Stop = "■"

	// Warning marks non-fatal findings such as data-quality warnings.
	Warning = "!"

	// Optional marks a skipped stage.
	Optional = "-"

	// Unknown marks an unrecognized status.
	Unknown = "?"

	// Info marks informational lines.
	Info = "i"
)
