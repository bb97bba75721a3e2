package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/term"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

// UnsupportedError is returned when a dialect has no way to write a term.
type UnsupportedError struct {
	Dialect string
	Type    types.Descriptor
	Reason  string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: cannot write %s literal: %s", e.Dialect, e.Type, e.Reason)
}

type rendered struct {
	text string
	err  error
}

// Literal renders t as literal text native to d: ARRAY['a', 'b'] for
// Postgres, ['a', 'b'] for DuckDB, '["a","b"]' for SQLite.
func Literal(t term.Term, d *dialect.Dialect) (string, error) {
	r := term.Match(t,
		func(s *term.SimpleTerm) rendered {
			text, err := scalar(s, d)
			return rendered{text, err}
		},
		func(c *term.CollectionTerm) rendered {
			text, err := collection(c, d)
			return rendered{text, err}
		},
	)
	return r.text, r.err
}

func scalar(s *term.SimpleTerm, d *dialect.Dialect) (string, error) {
	typ := s.UnderlyingClass()
	switch typ.Kind() {
	case types.Null:
		return "NULL", nil
	case types.Boolean:
		if s.Value().(bool) {
			return "TRUE", nil
		}
		return "FALSE", nil
	case types.Byte, types.Short, types.Integer, types.Long:
		i, _ := s.Int64()
		return strconv.FormatInt(i, 10), nil
	case types.Float, types.Double:
		return floating(s, d)
	case types.Decimal:
		dec, _ := s.Decimal()
		return term.DecimalText(dec), nil
	case types.String:
		return term.Quote(s.Value().(string)), nil
	case types.Date:
		return temporal(d, "DATE", s.Value().(time.Time).Format(term.DateLayout)), nil
	case types.Timestamp:
		return temporal(d, "TIMESTAMP", s.Value().(time.Time).UTC().Format(term.TimestampLayout)), nil
	default:
		panic(&term.InvariantError{Reason: "simple term with type " + typ.String()})
	}
}

func floating(s *term.SimpleTerm, d *dialect.Dialect) (string, error) {
	typ := s.UnderlyingClass()
	f, _ := s.Float64()

	var special string
	switch {
	case math.IsNaN(f):
		special = "NaN"
	case math.IsInf(f, 1):
		special = "Infinity"
	case math.IsInf(f, -1):
		special = "-Infinity"
	default:
		bits := 64
		if typ.Kind() == types.Float {
			bits = 32
		}
		return formatFloat(f, bits), nil
	}

	name, ok := d.TypeName(typ)
	if !ok || d.Collections == dialect.CollectionJSON {
		return "", &UnsupportedError{Dialect: d.Name, Type: typ, Reason: "non-finite value " + special}
	}
	return d.Cast(term.Quote(special), name), nil
}

// formatFloat always carries a decimal point or exponent so the text stays a
// floating literal.
func formatFloat(f float64, bits int) string {
	out := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(out, ".eE") {
		out += ".0"
	}
	return out
}

// temporal writes DATE '...' style literals. SQLite has no date type and
// stores the text.
func temporal(d *dialect.Dialect, keyword, text string) string {
	if d.Collections == dialect.CollectionJSON {
		return term.Quote(text)
	}
	return keyword + " " + term.Quote(text)
}

func collection(c *term.CollectionTerm, d *dialect.Dialect) (string, error) {
	typ := c.UnderlyingClass()

	switch d.Collections {
	case dialect.CollectionJSON:
		doc, err := JSON(c)
		if err != nil {
			return "", err
		}
		return term.Quote(string(doc)), nil

	case dialect.CollectionList:
		if typ.Kind() == types.Map {
			body, err := entries(c, d)
			if err != nil {
				return "", err
			}
			return castEmpty(c, d, "MAP {"+body+"}")
		}
		body, err := elements(c, d)
		if err != nil {
			return "", err
		}
		return castEmpty(c, d, "["+body+"]")

	default:
		if typ.Kind() == types.Map {
			if d.JSONType == "" {
				return "", &UnsupportedError{Dialect: d.Name, Type: typ, Reason: "dialect has no map type"}
			}
			doc, err := JSON(c)
			if err != nil {
				return "", err
			}
			return d.Cast(term.Quote(string(doc)), d.JSONType), nil
		}
		body, err := elements(c, d)
		if err != nil {
			return "", err
		}
		return castEmpty(c, d, "ARRAY["+body+"]")
	}
}

// castEmpty adds a cast to an empty collection, whose type the datastore
// cannot infer from the elements.
func castEmpty(c *term.CollectionTerm, d *dialect.Dialect, text string) (string, error) {
	if c.Len() > 0 {
		return text, nil
	}
	name, ok := d.TypeName(c.UnderlyingClass())
	if !ok {
		return "", &UnsupportedError{Dialect: d.Name, Type: c.UnderlyingClass(), Reason: "no native type for an empty collection"}
	}
	return d.Cast(text, name), nil
}

func elements(c *term.CollectionTerm, d *dialect.Dialect) (string, error) {
	parts := make([]string, 0, c.Len())
	for _, e := range c.Elements() {
		text, err := Literal(e, d)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, ", "), nil
}

func entries(c *term.CollectionTerm, d *dialect.Dialect) (string, error) {
	parts := make([]string, 0, c.Len())
	for _, e := range c.Entries() {
		key, err := Literal(e.Key, d)
		if err != nil {
			return "", err
		}
		value, err := Literal(e.Value, d)
		if err != nil {
			return "", err
		}
		parts = append(parts, key+": "+value)
	}
	return strings.Join(parts, ", "), nil
}
