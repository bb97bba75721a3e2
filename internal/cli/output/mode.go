// Package output renders command results for terminals, pipes and machines.
package output

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputMode selects how results are written.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"     // text on a TTY, markdown otherwise
	ModeText     OutputMode = "text"     // styled tables
	ModeMarkdown OutputMode = "markdown" // GitHub-flavored markdown
	ModeJSON     OutputMode = "json"     // machine-readable
)

// Mode converts a config value to an OutputMode. Unknown and empty values
// mean ModeAuto.
func Mode(s string) OutputMode {
	switch OutputMode(strings.ToLower(s)) {
	case ModeText:
		return ModeText
	case ModeMarkdown, "md":
		return ModeMarkdown
	case ModeJSON:
		return ModeJSON
	default:
		return ModeAuto
	}
}

// isTerminal reports whether w is a terminal file descriptor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
