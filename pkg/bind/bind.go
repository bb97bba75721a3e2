// Package bind turns statements into SQL text for a dialect, either with
// positional parameters or with every term written inline.
package bind

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/format"
	"github.com/leapstack-labs/leapterm/pkg/statement"
	"github.com/leapstack-labs/leapterm/pkg/term"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

// Query is statement text with its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

// Params renders stmt with placeholders ($1 or ?) and returns the driver
// arguments in placeholder order.
func Params(stmt *statement.Statement, d *dialect.Dialect) (*Query, error) {
	q := &Query{}
	value := func(t term.Term) (string, error) {
		arg, err := Value(t, d)
		if err != nil {
			return "", err
		}
		q.Args = append(q.Args, arg)
		return d.FormatPlaceholder(len(q.Args)), nil
	}

	text, err := render(stmt, d, value)
	if err != nil {
		return nil, err
	}
	q.SQL = text
	return q, nil
}

// Inline renders stmt with literal values in place of parameters.
func Inline(stmt *statement.Statement, d *dialect.Dialect) (string, error) {
	return render(stmt, d, format.InlineValues(d))
}

func render(stmt *statement.Statement, d *dialect.Dialect, value format.ValueFunc) (string, error) {
	table := stmt.Table.QualifiedName()
	switch stmt.Kind {
	case statement.Update:
		if len(stmt.Rows) != 1 {
			return "", fmt.Errorf("update must have exactly one row, got %d", len(stmt.Rows))
		}
		return format.Update(d, table, stmt.Rows[0], value)
	case statement.Insert:
		return format.Insert(d, table, stmt.Rows, value)
	default:
		return "", fmt.Errorf("cannot render statement kind %s", stmt.Kind)
	}
}

// Value converts a term to a driver argument.
//
// Scalars become bool, int64, float64, string or time.Time; NULL is nil and
// decimals are passed as their canonical text to keep precision. Arrays and
// sets of scalars become typed slices when the driver takes native arrays
// (slices of pointers when an element is NULL) and JSON text otherwise. Maps
// are always JSON text.
func Value(t term.Term, d *dialect.Dialect) (any, error) {
	s, ok := t.(*term.SimpleTerm)
	if ok {
		return scalarValue(s), nil
	}
	c := t.(*term.CollectionTerm)

	if c.Container() != types.Map && d.NativeArrays {
		if !c.ElementType().IsScalar() {
			return nil, &format.UnsupportedError{Dialect: d.Name, Type: c.UnderlyingClass(), Reason: "nested collections cannot be bound as parameters"}
		}
		return nativeSlice(c), nil
	}
	doc, err := format.JSON(c)
	if err != nil {
		return nil, err
	}
	return string(doc), nil
}

func scalarValue(s *term.SimpleTerm) any {
	switch k := s.UnderlyingClass().Kind(); {
	case k == types.Null:
		return nil
	case s.UnderlyingClass().IsIntegral():
		i, _ := s.Int64()
		return i
	case s.UnderlyingClass().IsFloating():
		f, _ := s.Float64()
		return f
	case k == types.Decimal:
		dec, _ := s.Decimal()
		return term.DecimalText(dec)
	case k == types.Timestamp:
		return s.Value().(time.Time).UTC()
	default:
		return s.Value()
	}
}

func nativeSlice(c *term.CollectionTerm) any {
	elems := c.Elements()
	switch k := c.ElementType(); {
	case k.Kind() == types.Boolean:
		return sliceOf[bool](elems)
	case k.IsIntegral():
		return sliceOf[int64](elems)
	case k.IsFloating():
		return sliceOf[float64](elems)
	case k.Kind() == types.Date, k.Kind() == types.Timestamp:
		return sliceOf[time.Time](elems)
	default: // String, Decimal
		return sliceOf[string](elems)
	}
}

// sliceOf converts scalar elements to []T, or []*T when any element is NULL.
func sliceOf[T any](elems []term.Term) any {
	values := make([]*T, len(elems))
	hasNull := false
	for i, e := range elems {
		v := scalarValue(e.(*term.SimpleTerm))
		if v == nil {
			hasNull = true
			continue
		}
		typed := v.(T)
		values[i] = &typed
	}

	if hasNull {
		return values
	}
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = *v
	}
	return out
}
