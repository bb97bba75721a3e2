package term

import (
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/types"
	"github.com/shopspring/decimal"
)

// Render implements Term.
//
// Booleans and NULL are upper case, strings are single-quoted with embedded
// quotes doubled, and Integer and Double values are bare numerals. Types a bare
// literal cannot express carry a typed-literal prefix: BYTE '7', FLOAT '1.5',
// DECIMAL '10.25', DATE '2015-10-19'. A Long renders bare only when the value
// is out of 32-bit range, since a bare numeral in range parses as Integer.
func (s *SimpleTerm) Render() string {
	switch s.typ.Kind() {
	case types.Null:
		return "NULL"
	case types.Boolean:
		if s.b {
			return "TRUE"
		}
		return "FALSE"
	case types.Integer:
		return strconv.FormatInt(s.i, 10)
	case types.Long:
		if FitsIntegral(types.Integer, s.i) {
			return typed(types.Long, strconv.FormatInt(s.i, 10))
		}
		return strconv.FormatInt(s.i, 10)
	case types.Byte, types.Short:
		return typed(s.typ.Kind(), strconv.FormatInt(s.i, 10))
	case types.Float:
		return typed(types.Float, strconv.FormatFloat(s.f, 'g', -1, 32))
	case types.Double:
		return renderDouble(s.f)
	case types.Decimal:
		return typed(types.Decimal, DecimalText(s.d))
	case types.String:
		return Quote(s.s)
	case types.Date:
		return typed(types.Date, s.t.Format(DateLayout))
	case types.Timestamp:
		return typed(types.Timestamp, s.t.UTC().Format(TimestampLayout))
	default:
		panic(&InvariantError{Reason: "simple term with type " + s.typ.String()})
	}
}

func renderDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return typed(types.Double, "NaN")
	case math.IsInf(f, 1):
		return typed(types.Double, "+Inf")
	case math.IsInf(f, -1):
		return typed(types.Double, "-Inf")
	}
	out := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(out, ".eE") {
		out += ".0"
	}
	return out
}

// DecimalText formats d keeping its scale: 1.50 stays 1.50.
func DecimalText(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

func typed(k types.Kind, text string) string {
	return strings.ToUpper(k.String()) + " " + Quote(text)
}

// Quote returns s as a single-quoted string literal.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Render implements Term.
//
// Arrays render as [a, b], sets as {a, b} and maps as {k: v}. The declared type
// is written in front (ARRAY<LONG>[1, 2]) when the collection is empty or when
// the elements alone would infer a different type.
func (c *CollectionTerm) Render() string {
	body := c.renderBody()
	if len(c.elems) == 0 || !c.inferred.Equal(c.typ) {
		return c.typ.SQL() + body
	}
	return body
}

func (c *CollectionTerm) renderBody() string {
	var sb strings.Builder
	open, close := "[", "]"
	if c.typ.Kind() != types.Array {
		open, close = "{", "}"
	}

	sb.WriteString(open)
	for i, e := range c.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		if c.keys != nil {
			sb.WriteString(c.keys[i].Render())
			sb.WriteString(": ")
		}
		sb.WriteString(e.Render())
	}
	sb.WriteString(close)
	return sb.String()
}
