// Package parser implements the literal grammar that produces statement terms.
//
// # Usage
//
//	t, err := parser.ParseTerm(`['a', 'b', 'c']`)
//	if err != nil {
//	    // handle error
//	}
//
// Empty collections do not determine their own element type. Supply the
// target column's type as a hint, or write the type in front of the literal:
//
//	t, err := parser.ParseTermWithHint("[]", types.ArrayOf(types.StringType))
//	t, err := parser.ParseTerm("ARRAY<STRING>[]")
//
// # Grammar Overview
//
//	assignments → [SET] assignment {"," assignment}
//	assignment  → column "=" term
//	values      → [VALUES] "(" term {"," term} ")" {"," "(" term {"," term} ")"}
//	term        → scalar | collection
//	scalar      → ["-"] NUMBER | STRING | TRUE | FALSE | NULL | type_name STRING
//	collection  → [type] "[" [term {"," term}] "]"
//	            | [type] "{" [term {"," term}] "}"
//	            | [type] "{" term ":" term {"," term ":" term} "}"
//	type        → type_name | ARRAY "<" type ">" | SET "<" type ">"
//	            | MAP "<" type "," type ">"
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapterm/pkg/term"
	"github.com/leapstack-labs/leapterm/pkg/token"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

// Parser parses literal-grammar input.
type Parser struct {
	input   string
	lexer   *Lexer
	token   token.Token // current token
	peek    token.Token // lookahead token
	prevEnd int         // end offset of the last consumed token
	errors  []error
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{
		input: input,
		lexer: NewLexer(input),
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

// HintFunc returns the declared type of a column, or the zero Descriptor when
// the column is unknown.
type HintFunc func(column string) types.Descriptor

// ParseTerm parses a single term.
func ParseTerm(input string) (term.Term, error) {
	return ParseTermWithHint(input, types.Descriptor{})
}

// ParseTermWithHint parses a single term. The hint is used only when the
// literal does not determine its own type, such as an empty collection.
func ParseTermWithHint(input string, hint types.Descriptor) (term.Term, error) {
	p := NewParser(input)
	lit := p.parseLiteral()
	p.expectEOF()
	if err := p.err(); err != nil {
		return nil, err
	}
	return build(lit, hint)
}

// ParseType parses a type name such as INTEGER, ARRAY<STRING> or
// MAP<STRING, LONG>.
func ParseType(input string) (types.Descriptor, error) {
	p := NewParser(input)
	typ := p.parseType()
	p.expectEOF()
	if err := p.err(); err != nil {
		return types.Descriptor{}, err
	}
	return typ, nil
}

// ParseAssignments parses a SET clause body: col = term, col = term, ...
func ParseAssignments(input string) ([]term.Assignment, error) {
	return ParseAssignmentsWithHints(input, nil)
}

// ParseAssignmentsWithHints parses a SET clause body, resolving literals that
// do not determine their own type against the column types reported by hint.
func ParseAssignmentsWithHints(input string, hint HintFunc) ([]term.Assignment, error) {
	p := NewParser(input)
	raw := p.parseAssignmentList()
	p.expectEOF()
	if err := p.err(); err != nil {
		return nil, err
	}

	out := make([]term.Assignment, 0, len(raw))
	for _, a := range raw {
		var h types.Descriptor
		if hint != nil {
			h = hint(a.column)
		}
		t, err := build(a.value, h)
		if err != nil {
			return nil, err
		}
		out = append(out, term.Assignment{Column: a.column, Value: t})
	}
	return out, nil
}

// ParseValues parses a VALUES list: (term, ...), (term, ...).
func ParseValues(input string) ([][]term.Term, error) {
	return ParseValuesWithHints(input, nil)
}

// ParseValuesWithHints parses a VALUES list. hints[i] is the declared type of
// the i-th column and is used as in ParseTermWithHint.
func ParseValuesWithHints(input string, hints []types.Descriptor) ([][]term.Term, error) {
	p := NewParser(input)
	raw := p.parseValuesList()
	p.expectEOF()
	if err := p.err(); err != nil {
		return nil, err
	}

	rows := make([][]term.Term, 0, len(raw))
	for _, r := range raw {
		row := make([]term.Term, 0, len(r))
		for i, lit := range r {
			var h types.Descriptor
			if i < len(hints) {
				h = hints[i]
			}
			t, err := build(lit, h)
			if err != nil {
				return nil, err
			}
			row = append(row, t)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.prevEnd = p.token.End
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token, t))
	return false
}

func (p *Parser) expectEOF() {
	if !p.failed() && !p.check(token.EOF) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token, "end of input"))
	}
}

// addError adds a parse error at the current token.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// failed reports whether parsing has already hit an error.
func (p *Parser) failed() bool {
	return len(p.errors) > 0 || len(p.lexer.Errors) > 0
}

// err returns the first error. Lexer errors take precedence since they
// explain the ILLEGAL token the parser tripped over.
func (p *Parser) err() error {
	if len(p.lexer.Errors) > 0 {
		return p.lexer.Errors[0]
	}
	if len(p.errors) > 0 {
		return p.errors[0]
	}
	return nil
}

// textFrom returns the source text from start up to the last consumed token.
func (p *Parser) textFrom(start token.Token) string {
	if p.prevEnd < start.Pos.Offset {
		return ""
	}
	return p.input[start.Pos.Offset:p.prevEnd]
}
