package format

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/term"
)

// ValueFunc returns the text standing for a term in a statement, either a
// literal or a parameter placeholder.
type ValueFunc func(t term.Term) (string, error)

// InlineValues writes every term as a dialect literal.
func InlineValues(d *dialect.Dialect) ValueFunc {
	return func(t term.Term) (string, error) {
		return Literal(t, d)
	}
}

// Assignments renders col = literal pairs separated by commas, quoting
// columns as the dialect requires.
func Assignments(assignments []term.Assignment, d *dialect.Dialect) (string, error) {
	parts := make([]string, 0, len(assignments))
	for _, a := range assignments {
		text, err := Literal(a.Value, d)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", a.Column, err)
		}
		parts = append(parts, d.QuoteIdentifierIfNeeded(a.Column)+" = "+text)
	}
	return strings.Join(parts, ", "), nil
}
