package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	r := &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
	r.styles = newStyles(lipgloss.NewRenderer(out), isTTY && r.EffectiveMode() == ModeText)
	return r
}

// EffectiveMode resolves ModeAuto against the TTY state.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the text styles.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// Println writes a line to the output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section heading.
func (r *Renderer) Header(title string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("## %s\n\n", title)
		return
	}
	r.Println(r.styles.Header.Render(title))
}

// Success writes a passing status line.
func (r *Renderer) Success(msg string) {
	r.status("✓", "PASS", r.styles.Success, msg)
}

// Warning writes a warning status line.
func (r *Renderer) Warning(msg string) {
	r.status("!", "WARN", r.styles.Warning, msg)
}

// Error writes a failing status line to the error writer in text mode and to
// the output otherwise, so markdown reports stay complete.
func (r *Renderer) Error(msg string) {
	if r.EffectiveMode() == ModeText {
		_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("✗ "+msg))
		return
	}
	r.status("✗", "FAIL", r.styles.Error, msg)
}

// Muted writes de-emphasized text.
func (r *Renderer) Muted(msg string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("_%s_\n", msg)
		return
	}
	r.Println(r.styles.Muted.Render(msg))
}

func (r *Renderer) status(icon, label string, style lipgloss.Style, msg string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("- **%s** %s\n", label, msg)
		return
	}
	r.Println(style.Render(icon + " " + msg))
}

// Code writes a block of SQL.
func (r *Renderer) Code(sql string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("```sql\n%s\n```\n", trimNewline(sql))
		return
	}
	r.Println(r.styles.Code.Render(trimNewline(sql)))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Table writes rows under header as a box table in text mode or a markdown
// table otherwise.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		r.Println()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func trimNewline(s string) string {
	for len(s) > 0 && s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	return s
}
