package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapterm/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LiteralError is returned when a well-formed literal cannot be turned into a
// term: an out-of-range value, an element that does not fit its collection,
// or a collection whose element type cannot be resolved.
type LiteralError struct {
	Pos     token.Position
	Literal string
	Err     error
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("invalid literal %s at line %d, column %d: %v", e.Literal, e.Pos.Line, e.Pos.Column, e.Err)
}

func (e *LiteralError) Unwrap() error { return e.Err }

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected %s, expected %s"
	ErrUnexpectedChar     = "unexpected character %q"
	ErrUnterminatedString = "unterminated string literal"
	ErrInvalidNumber      = "invalid number literal %s"
	ErrUnknownType        = "unknown type %q"
	ErrBracketMismatch    = "%s literal must use %s"
	ErrMapKeyType         = "map key type must be a non-NULL scalar, got %s"
)
