package term

import (
	"strings"
)

// Assignment is a compound-value assignment: the target column on the left,
// the term on the right. The assignment exclusively owns its term.
type Assignment struct {
	Column string
	Value  Term
}

// String renders the assignment as column = literal. The column is
// double-quoted when it is not a plain identifier.
func (a Assignment) String() string {
	return QuoteIdent(a.Column) + " = " + a.Value.Render()
}

// reservedWords may not appear as bare column names in the literal grammar.
var reservedWords = map[string]bool{
	"TRUE": true, "FALSE": true, "NULL": true, "SET": true, "VALUES": true,
}

// QuoteIdent returns name unchanged when it is a plain identifier and
// double-quoted otherwise.
func QuoteIdent(name string) string {
	if isPlainIdent(name) && !reservedWords[strings.ToUpper(name)] {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
