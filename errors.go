package statica

import "fmt"

// ErrorEntry is one recorded failure or warning from a generation pass.
type ErrorEntry struct {
	Message string
	Detail  string
}

func (e ErrorEntry) String() string {
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + ": " + e.Detail
}

// ErrorLog is the append-only, pass-scoped error accumulator. It is owned by
// the pipeline and never cleared mid-pass; an empty log after a full run
// means the build succeeded.
type ErrorLog struct {
	entries []ErrorEntry
}

// Append records an entry. Order of appends is preserved.
func (l *ErrorLog) Append(message, detail string) {
	l.entries = append(l.entries, ErrorEntry{Message: message, Detail: detail})
}

// Entries returns the recorded entries in append order.
func (l *ErrorLog) Entries() []ErrorEntry {
	return l.entries
}

// Len returns the number of recorded entries.
func (l *ErrorLog) Len() int { return len(l.entries) }

// Empty reports whether nothing was recorded.
func (l *ErrorLog) Empty() bool { return len(l.entries) == 0 }

// CompileError records a template compilation failure. It aborts generation
// for the listing kind that requested the template; other kinds proceed.
func (l *ErrorLog) CompileError(kind ListingKind, slug string, err error) {
	l.Append(fmt.Sprintf("compile %s template %q", kind, slug), err.Error())
}

// RenderError records a template evaluation failure for a single page. The
// page is skipped; sibling pages proceed.
func (l *ErrorLog) RenderError(template string, err error) {
	l.Append(fmt.Sprintf("render %s", template), err.Error())
}

// DataWarning records a recoverable content problem, such as malformed
// per-post settings JSON. Generation continues with defaults.
func (l *ErrorLog) DataWarning(subject string, err error) {
	l.Append(fmt.Sprintf("data warning: %s", subject), err.Error())
}

// ConfigError is a fatal configuration or theme-descriptor problem detected
// before any generation begins.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "statica: invalid configuration: " + e.Reason
}
