package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/term"
	"github.com/leapstack-labs/leapterm/pkg/token"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

// literal is a parsed but not yet typed term. Collections are turned into
// terms only after parsing, when the type hint of the enclosing column or
// collection is known.
type literal struct {
	pos  token.Position
	text string

	scalar *term.SimpleTerm

	container types.Kind       // Array, Set, Map, or Invalid for bare {}
	declared  types.Descriptor // type written in front of the literal
	elems     []*literal
	keys      []*literal // maps only, parallel to elems
}

// ---------- Terms ----------

// parseLiteral parses a term.
//
//	term → ["-"] NUMBER | STRING | TRUE | FALSE | NULL | type_name STRING | collection
func (p *Parser) parseLiteral() *literal {
	start := p.token

	switch p.token.Type {
	case token.NUMBER:
		return p.parseNumber(start, "")
	case token.MINUS:
		p.nextToken()
		if !p.check(token.NUMBER) {
			p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token, token.NUMBER))
			return nil
		}
		return p.parseNumber(start, "-")
	case token.STRING:
		p.nextToken()
		return p.scalar(start, term.NewString(start.Literal))
	case token.TRUE, token.FALSE:
		p.nextToken()
		return p.scalar(start, term.NewBoolean(start.Type == token.TRUE))
	case token.NULL:
		p.nextToken()
		return p.scalar(start, term.NewNull())
	case token.LBRACKET, token.LBRACE:
		return p.parseCollection(start, types.Descriptor{})
	case token.ARRAY, token.SET, token.MAP:
		typ := p.parseType()
		if p.failed() {
			return nil
		}
		return p.parseCollection(start, typ)
	case token.IDENT:
		kind, ok := types.LookupKind(p.token.Literal)
		switch {
		case ok && kind.IsContainer() && p.checkPeek(token.LT):
			typ := p.parseType()
			if p.failed() {
				return nil
			}
			return p.parseCollection(start, typ)
		case ok && !kind.IsContainer() && kind != types.Null && p.checkPeek(token.STRING):
			return p.parseTypedLiteral(start, kind)
		}
	}

	p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token, "literal"))
	return nil
}

func (p *Parser) scalar(start token.Token, s *term.SimpleTerm) *literal {
	return &literal{pos: start.Pos, text: p.textFrom(start), scalar: s}
}

// parseNumber converts a NUMBER token. Integers are Integer when they fit in
// 32 bits and Long otherwise. A fraction or exponent makes a Double.
func (p *Parser) parseNumber(start token.Token, sign string) *literal {
	text := sign + p.token.Literal
	pos := p.token.Pos
	p.nextToken()

	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.errors = append(p.errors, &ParseError{Pos: pos, Message: fmt.Sprintf(ErrInvalidNumber, text)})
			return nil
		}
		return p.scalar(start, term.NewDouble(f))
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		p.errors = append(p.errors, &LiteralError{
			Pos:     start.Pos,
			Literal: text,
			Err:     &term.ValueError{Type: types.LongType, Literal: text, Err: err},
		})
		return nil
	}
	if term.FitsIntegral(types.Integer, v) {
		return p.scalar(start, term.NewInteger(int32(v)))
	}
	return p.scalar(start, term.NewLong(v))
}

// parseTypedLiteral parses DATE '2015-10-19', DECIMAL '1.50' and friends.
func (p *Parser) parseTypedLiteral(start token.Token, kind types.Kind) *literal {
	p.nextToken() // type name
	text := p.token.Literal
	p.nextToken() // string

	s, err := term.FromText(kind, text)
	if err != nil {
		p.errors = append(p.errors, &LiteralError{Pos: start.Pos, Literal: p.textFrom(start), Err: err})
		return nil
	}
	return p.scalar(start, s)
}

// parseCollection parses the bracketed part of a collection literal. declared
// is the type written in front of it, if any.
//
//	collection → "[" [term {"," term}] "]"
//	           | "{" [term {"," term}] "}"
//	           | "{" term ":" term {"," term ":" term} "}"
func (p *Parser) parseCollection(start token.Token, declared types.Descriptor) *literal {
	lit := &literal{pos: start.Pos, declared: declared}
	want := declared.Kind()

	switch p.token.Type {
	case token.LBRACKET:
		if declared.IsValid() && want != types.Array {
			p.addError(fmt.Sprintf(ErrBracketMismatch, strings.ToUpper(want.String()), bracketsFor(want)))
			return nil
		}
		p.nextToken()
		lit.container = types.Array
		lit.elems = p.parseLiteralList(token.RBRACKET)

	case token.LBRACE:
		if want == types.Array {
			p.addError(fmt.Sprintf(ErrBracketMismatch, "ARRAY", bracketsFor(want)))
			return nil
		}
		p.nextToken()
		lit.container = want
		if !p.check(token.RBRACE) {
			first := p.parseLiteral()
			if p.failed() {
				return nil
			}
			if p.check(token.COLON) {
				lit.container = types.Map
				lit.keys, lit.elems = p.parseEntries(first)
			} else {
				lit.container = types.Set
				lit.elems = append([]*literal{first}, p.parseLiteralTail(token.RBRACE)...)
			}
			if want != types.Invalid && want != lit.container {
				p.errors = append(p.errors, &ParseError{
					Pos:     start.Pos,
					Message: fmt.Sprintf(ErrBracketMismatch, strings.ToUpper(want.String()), bracketsFor(want)),
				})
				return nil
			}
		}
		p.expect(token.RBRACE)

	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, p.token, "[ or {"))
		return nil
	}

	if p.failed() {
		return nil
	}
	lit.text = p.textFrom(start)
	return lit
}

func bracketsFor(k types.Kind) string {
	switch k {
	case types.Array:
		return "[ ]"
	case types.Map:
		return "{ key: value }"
	default:
		return "{ }"
	}
}

// parseLiteralList parses "term {"," term} close" after the opening bracket,
// including the closing token.
func (p *Parser) parseLiteralList(closing token.TokenType) []*literal {
	var out []*literal
	if p.match(closing) {
		return out
	}
	first := p.parseLiteral()
	if p.failed() {
		return nil
	}
	out = append(out, first)
	out = append(out, p.parseLiteralTail(closing)...)
	p.expect(closing)
	return out
}

// parseLiteralTail parses {"," term} up to, but not including, closing.
func (p *Parser) parseLiteralTail(closing token.TokenType) []*literal {
	var out []*literal
	for p.match(token.COMMA) {
		lit := p.parseLiteral()
		if p.failed() {
			return nil
		}
		out = append(out, lit)
	}
	return out
}

// parseEntries parses map entries after the first key.
func (p *Parser) parseEntries(firstKey *literal) (keys, values []*literal) {
	key := firstKey
	for {
		if !p.expect(token.COLON) {
			return nil, nil
		}
		value := p.parseLiteral()
		if p.failed() {
			return nil, nil
		}
		keys = append(keys, key)
		values = append(values, value)

		if !p.match(token.COMMA) {
			return keys, values
		}
		key = p.parseLiteral()
		if p.failed() {
			return nil, nil
		}
	}
}

// ---------- Types ----------

// parseType parses a type name.
//
//	type → type_name | ARRAY "<" type ">" | SET "<" type ">" | MAP "<" type "," type ">"
func (p *Parser) parseType() types.Descriptor {
	name := p.token
	var kind types.Kind
	switch name.Type {
	case token.ARRAY:
		kind = types.Array
	case token.SET:
		kind = types.Set
	case token.MAP:
		kind = types.Map
	case token.IDENT, token.NULL:
		k, ok := types.LookupKind(name.Literal)
		if !ok {
			p.addError(fmt.Sprintf(ErrUnknownType, name.Literal))
			return types.Descriptor{}
		}
		kind = k
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, name, "type name"))
		return types.Descriptor{}
	}
	p.nextToken()

	if !kind.IsContainer() {
		return types.Scalar(kind)
	}

	if !p.expect(token.LT) {
		return types.Descriptor{}
	}
	var key types.Descriptor
	if kind == types.Map {
		keyTok := p.token
		key = p.parseType()
		if p.failed() {
			return types.Descriptor{}
		}
		if !key.IsScalar() || key.Kind() == types.Null {
			p.errors = append(p.errors, &ParseError{Pos: keyTok.Pos, Message: fmt.Sprintf(ErrMapKeyType, key)})
			return types.Descriptor{}
		}
		if !p.expect(token.COMMA) {
			return types.Descriptor{}
		}
	}
	elem := p.parseType()
	if p.failed() || !p.expect(token.GT) {
		return types.Descriptor{}
	}
	return types.Container(kind, key, elem)
}

// ---------- Statement clauses ----------

type rawAssignment struct {
	column string
	value  *literal
}

// parseAssignmentList parses a SET clause body.
//
//	assignments → [SET] assignment {"," assignment}
//	assignment  → column "=" term
func (p *Parser) parseAssignmentList() []rawAssignment {
	if p.check(token.SET) && !p.checkPeek(token.LT) && !p.checkPeek(token.EQ) {
		p.nextToken()
	}

	var out []rawAssignment
	for {
		column, ok := p.parseColumn()
		if !ok || !p.expect(token.EQ) {
			return nil
		}
		value := p.parseLiteral()
		if p.failed() {
			return nil
		}
		out = append(out, rawAssignment{column: column, value: value})

		if !p.match(token.COMMA) {
			return out
		}
	}
}

// parseColumn accepts an identifier, a quoted name, or a keyword used as a
// column name directly before "=".
func (p *Parser) parseColumn() (string, bool) {
	tok := p.token
	switch {
	case tok.Type == token.IDENT, tok.Type == token.STRING:
	case token.IsKeyword(tok.Type) && p.checkPeek(token.EQ):
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, tok, "column name"))
		return "", false
	}
	p.nextToken()
	return tok.Literal, true
}

// parseValuesList parses the rows of a VALUES clause.
//
//	values → [VALUES] row {"," row}
//	row    → "(" term {"," term} ")"
func (p *Parser) parseValuesList() [][]*literal {
	p.match(token.VALUES)

	var rows [][]*literal
	for {
		if !p.expect(token.LPAREN) {
			return nil
		}
		row := p.parseLiteralList(token.RPAREN)
		if p.failed() {
			return nil
		}
		rows = append(rows, row)

		if !p.match(token.COMMA) {
			return rows
		}
	}
}

// ---------- Term construction ----------

// build converts a parsed literal to a term. The hint is consulted only when
// the literal does not determine its own type.
func build(lit *literal, hint types.Descriptor) (term.Term, error) {
	t, err := construct(lit, types.Descriptor{})
	if err == nil || !hint.IsValid() || !errors.Is(err, term.ErrUnresolvedType) {
		return t, err
	}
	return construct(lit, hint)
}

func construct(lit *literal, hint types.Descriptor) (term.Term, error) {
	if lit.scalar != nil {
		return lit.scalar, nil
	}

	declared := lit.declared
	if !declared.IsValid() && hint.IsContainer() &&
		(hint.Kind() == lit.container || (lit.container == types.Invalid && hint.Kind() != types.Array)) {
		declared = hint
	}

	ignored := hint.IsValid() && !declared.IsValid()

	container := lit.container
	if container == types.Invalid {
		container = declared.Kind()
	}
	fail := func(err error) (term.Term, error) {
		var unresolved *term.UnresolvedTypeError
		if ignored && errors.As(err, &unresolved) {
			unresolved.Hint = hint
		}
		return nil, &LiteralError{Pos: lit.pos, Literal: lit.text, Err: err}
	}
	if !container.IsContainer() {
		return fail(&term.UnresolvedTypeError{Container: types.Invalid, Literal: lit.text})
	}

	elems := make([]term.Term, len(lit.elems))
	for i, e := range lit.elems {
		t, err := build(e, declared.Elem())
		if err != nil {
			return nil, err
		}
		elems[i] = t
	}

	var (
		c   *term.CollectionTerm
		err error
	)
	switch container {
	case types.Array:
		c, err = term.NewArray(declared.Elem(), elems...)
	case types.Set:
		c, err = term.NewSet(declared.Elem(), elems...)
	case types.Map:
		entries := make([]term.Entry, len(lit.keys))
		for i, k := range lit.keys {
			key, kerr := build(k, declared.Key())
			if kerr != nil {
				return nil, kerr
			}
			entries[i] = term.Entry{Key: key, Value: elems[i]}
		}
		c, err = term.NewMap(declared.Key(), declared.Elem(), entries...)
	}
	if err != nil {
		return fail(err)
	}
	return c, nil
}
