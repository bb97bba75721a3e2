package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/leapterm/pkg/token"
)

// Lexer tokenizes literal-grammar input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	// Errors collected during lexing. The offending input is still returned
	// as an ILLEGAL token so the parser can report where it stopped.
	Errors []error
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	tok := l.scan()
	tok.End = l.pos
	return tok
}

func (l *Lexer) scan() token.Token {
	l.skipWhitespace()

	pos := l.currentPos()
	tok := token.Token{Pos: pos}

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
		return tok
	case '-':
		tok = l.newToken(token.MINUS, "-")
	case '=':
		tok = l.newToken(token.EQ, "=")
	case '<':
		tok = l.newToken(token.LT, "<")
	case '>':
		tok = l.newToken(token.GT, ">")
	case ':':
		tok = l.newToken(token.COLON, ":")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '[':
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case '\'', '"':
		lit, ok := l.readString(l.ch)
		if !ok {
			l.addError(pos, ErrUnterminatedString)
			return token.Token{Type: token.ILLEGAL, Literal: lit, Pos: pos}
		}
		return token.Token{Type: token.STRING, Literal: lit, Pos: pos}
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(strings.ToLower(tok.Literal))
			return tok
		case isDigit(l.ch):
			tok.Type = token.NUMBER
			tok.Literal = l.readNumber()
			return tok
		default:
			l.addError(pos, fmt.Sprintf(ErrUnexpectedChar, l.ch))
			tok = l.newToken(token.ILLEGAL, string(l.ch))
		}
	}

	l.readChar()
	return tok
}

// newToken creates a new token.
func (l *Lexer) newToken(tokenType token.TokenType, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

func (l *Lexer) addError(pos token.Position, msg string) {
	l.Errors = append(l.Errors, &LexError{Pos: pos, Message: msg})
}

// skipWhitespace skips spaces, tabs and line breaks.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a string literal delimited by quote.
// Handles doubled quotes as escape: 'it''s' -> it's
// The second result is false when the input ends before the closing quote.
func (l *Lexer) readString(quote byte) (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == quote {
			if l.peekChar() == quote {
				// Doubled quote escape
				result.WriteByte(quote)
				l.readChar() // skip first quote
				l.readChar() // skip second quote
			} else {
				// End of string
				l.readChar() // skip closing quote
				return result.String(), true
			}
		} else {
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
	return result.String(), false
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	// Read integer part
	for isDigit(l.ch) {
		l.readChar()
	}

	// Read decimal part
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Read exponent part (e.g., 1e10, 1E-5)
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar() // skip sign
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// isLetter returns true if ch is a letter.
func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
