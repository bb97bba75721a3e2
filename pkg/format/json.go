package format

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapterm/pkg/term"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

// JSON encodes t as a compact JSON document. Arrays and sets become JSON
// arrays, maps become objects with keys in entry order, decimals are written
// as numbers with their scale intact, and dates and timestamps as strings.
//
// Non-finite floating values have no JSON form and return *UnsupportedError.
func JSON(t term.Term) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, t term.Term) error {
	return term.Match(t,
		func(s *term.SimpleTerm) error { return writeJSONScalar(buf, s) },
		func(c *term.CollectionTerm) error {
			if c.Container() == types.Map {
				return writeJSONObject(buf, c)
			}
			buf.WriteByte('[')
			for i, e := range c.Elements() {
				if i > 0 {
					buf.WriteByte(',')
				}
				if err := writeJSON(buf, e); err != nil {
					return err
				}
			}
			buf.WriteByte(']')
			return nil
		},
	)
}

func writeJSONObject(buf *bytes.Buffer, c *term.CollectionTerm) error {
	buf.WriteByte('{')
	for i, e := range c.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, ok := e.Key.(*term.SimpleTerm)
		if !ok {
			panic(&term.InvariantError{Reason: "map key is not a simple term"})
		}
		text, err := jsonKey(key)
		if err != nil {
			return err
		}
		writeJSONString(buf, text)
		buf.WriteByte(':')
		if err := writeJSON(buf, e.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// jsonKey returns the object key for a map key: strings as-is, other scalars
// in their JSON spelling.
func jsonKey(s *term.SimpleTerm) (string, error) {
	switch s.UnderlyingClass().Kind() {
	case types.String:
		return s.Value().(string), nil
	case types.Date:
		return s.Value().(time.Time).Format(term.DateLayout), nil
	case types.Timestamp:
		return s.Value().(time.Time).UTC().Format(term.TimestampLayout), nil
	}
	var buf bytes.Buffer
	if err := writeJSONScalar(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeJSONScalar(buf *bytes.Buffer, s *term.SimpleTerm) error {
	typ := s.UnderlyingClass()
	switch typ.Kind() {
	case types.Null:
		buf.WriteString("null")
	case types.Boolean:
		buf.WriteString(strconv.FormatBool(s.Value().(bool)))
	case types.Byte, types.Short, types.Integer, types.Long:
		i, _ := s.Int64()
		buf.WriteString(strconv.FormatInt(i, 10))
	case types.Float, types.Double:
		f, _ := s.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &UnsupportedError{Dialect: "json", Type: typ, Reason: "non-finite value " + s.Render()}
		}
		bits := 64
		if typ.Kind() == types.Float {
			bits = 32
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
	case types.Decimal:
		dec, _ := s.Decimal()
		buf.WriteString(term.DecimalText(dec))
	case types.String:
		writeJSONString(buf, s.Value().(string))
	case types.Date:
		writeJSONString(buf, s.Value().(time.Time).Format(term.DateLayout))
	case types.Timestamp:
		writeJSONString(buf, s.Value().(time.Time).UTC().Format(term.TimestampLayout))
	default:
		panic(&term.InvariantError{Reason: "simple term with type " + typ.String()})
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
}
