// Package token defines the token types of the literal grammar: scalar and
// collection literals, type names, and assignment and VALUES lists.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello' or "hello"

	// Operators and delimiters
	MINUS    // -
	EQ       // =
	LT       // <
	GT       // >
	COLON    // :
	COMMA    // ,
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }

	// Keywords (alphabetical)
	ARRAY
	FALSE
	MAP
	NULL
	SET
	TRUE
	VALUES
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	MINUS:    "-",
	EQ:       "=",
	LT:       "<",
	GT:       ">",
	COLON:    ":",
	COMMA:    ",",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	LBRACE:   "{",
	RBRACE:   "}",

	ARRAY:  "ARRAY",
	FALSE:  "FALSE",
	MAP:    "MAP",
	NULL:   "NULL",
	SET:    "SET",
	TRUE:   "TRUE",
	VALUES: "VALUES",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"array":  ARRAY,
	"false":  FALSE,
	"map":    MAP,
	"null":   NULL,
	"set":    SET,
	"true":   TRUE,
	"values": VALUES,
}

// LookupIdent returns the token type for the given lowercase identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= ARRAY && t <= VALUES
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	End     int // byte offset just past the token
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of input"
	case IDENT, NUMBER:
		return fmt.Sprintf("%s %s", t.Type, t.Literal)
	case STRING:
		return fmt.Sprintf("STRING %q", t.Literal)
	default:
		return fmt.Sprintf("%q", t.Type.String())
	}
}
