// Package format renders statement terms as literal text for a target dialect.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/dialect"
)

const indentSize = 2

// Printer accumulates statement text with indentation.
type Printer struct {
	dialect     *dialect.Dialect
	output      *bytes.Buffer
	depth       int
	atLineStart bool
}

func newPrinter(d *dialect.Dialect) *Printer {
	return &Printer{
		dialect:     d,
		output:      &bytes.Buffer{},
		atLineStart: true,
	}
}

// String returns the formatted output with a single trailing newline.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) keyword(s string) {
	p.write(strings.ToUpper(s))
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

// ident writes a possibly schema-qualified name, quoting each part when the
// dialect requires it.
func (p *Printer) ident(name string) {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		if i > 0 {
			p.write(".")
		}
		p.write(p.dialect.QuoteIdentifierIfNeeded(part))
	}
}

// formatList prints a list of items with separators.
// count is the number of items, format is called for each index,
// sep is the separator string, multiline adds newlines after separators.
// The first error returned by format stops the list.
func (p *Printer) formatList(count int, format func(i int) error, sep string, multiline bool) error {
	for i := 0; i < count; i++ {
		if err := format(i); err != nil {
			return err
		}
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			}
		}
	}
	return nil
}
