package term

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapterm/pkg/types"
	"github.com/shopspring/decimal"
)

// Formats accepted for date and timestamp literal text.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05.999999999"
)

// SimpleTerm holds exactly one scalar value.
type SimpleTerm struct {
	typ types.Descriptor

	b bool
	i int64
	f float64
	d decimal.Decimal
	s string
	t time.Time
}

func (*SimpleTerm) sealed() {}

// Kind implements Term.
func (*SimpleTerm) Kind() Kind { return Simple }

// UnderlyingClass implements Term. The result is always a scalar descriptor.
func (s *SimpleTerm) UnderlyingClass() types.Descriptor { return s.typ }

// String implements Term.
func (s *SimpleTerm) String() string { return s.Render() }

// IsNull reports whether the term is the NULL literal.
func (s *SimpleTerm) IsNull() bool { return s.typ.Kind() == types.Null }

// Value returns the held value as its natural Go type: bool, int8, int16,
// int32, int64, float32, float64, decimal.Decimal, string, time.Time, or nil
// for NULL.
func (s *SimpleTerm) Value() any {
	switch s.typ.Kind() {
	case types.Boolean:
		return s.b
	case types.Byte:
		return int8(s.i)
	case types.Short:
		return int16(s.i)
	case types.Integer:
		return int32(s.i)
	case types.Long:
		return s.i
	case types.Float:
		return float32(s.f)
	case types.Double:
		return s.f
	case types.Decimal:
		return s.d
	case types.String:
		return s.s
	case types.Date, types.Timestamp:
		return s.t
	default:
		return nil
	}
}

// Int64 returns the value of an integral term.
func (s *SimpleTerm) Int64() (int64, bool) {
	return s.i, s.typ.IsIntegral()
}

// Float64 returns the value of a floating term.
func (s *SimpleTerm) Float64() (float64, bool) {
	return s.f, s.typ.IsFloating()
}

// Decimal returns the value of a numeric term as a decimal.
func (s *SimpleTerm) Decimal() (decimal.Decimal, bool) {
	switch {
	case s.typ.Kind() == types.Decimal:
		return s.d, true
	case s.typ.IsIntegral():
		return decimal.NewFromInt(s.i), true
	case s.typ.IsFloating() && !math.IsNaN(s.f) && !math.IsInf(s.f, 0):
		return decimal.NewFromFloat(s.f), true
	}
	return decimal.Decimal{}, false
}

// NewNull returns the NULL literal.
func NewNull() *SimpleTerm { return &SimpleTerm{typ: types.NullType} }

// NewBoolean returns a Boolean term.
func NewBoolean(v bool) *SimpleTerm { return &SimpleTerm{typ: types.BooleanType, b: v} }

// NewByte returns a Byte term.
func NewByte(v int8) *SimpleTerm { return &SimpleTerm{typ: types.ByteType, i: int64(v)} }

// NewShort returns a Short term.
func NewShort(v int16) *SimpleTerm { return &SimpleTerm{typ: types.ShortType, i: int64(v)} }

// NewInteger returns an Integer term.
func NewInteger(v int32) *SimpleTerm { return &SimpleTerm{typ: types.IntegerType, i: int64(v)} }

// NewLong returns a Long term.
func NewLong(v int64) *SimpleTerm { return &SimpleTerm{typ: types.LongType, i: v} }

// NewFloat returns a Float term.
func NewFloat(v float32) *SimpleTerm { return &SimpleTerm{typ: types.FloatType, f: float64(v)} }

// NewDouble returns a Double term.
func NewDouble(v float64) *SimpleTerm { return &SimpleTerm{typ: types.DoubleType, f: v} }

// NewDecimal returns a Decimal term.
func NewDecimal(v decimal.Decimal) *SimpleTerm { return &SimpleTerm{typ: types.DecimalType, d: v} }

// NewString returns a String term.
func NewString(v string) *SimpleTerm { return &SimpleTerm{typ: types.StringType, s: v} }

// NewDate returns a Date term. The time of day and location are discarded.
func NewDate(v time.Time) *SimpleTerm {
	y, m, d := v.Date()
	return &SimpleTerm{typ: types.DateType, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NewTimestamp returns a Timestamp term normalized to UTC.
func NewTimestamp(v time.Time) *SimpleTerm {
	return &SimpleTerm{typ: types.TimestampType, t: v.UTC()}
}

// integralRange holds the inclusive bounds of each integral kind.
var integralRange = map[types.Kind][2]int64{
	types.Byte:    {math.MinInt8, math.MaxInt8},
	types.Short:   {math.MinInt16, math.MaxInt16},
	types.Integer: {math.MinInt32, math.MaxInt32},
	types.Long:    {math.MinInt64, math.MaxInt64},
}

// FitsIntegral reports whether v is representable by the integral type k.
func FitsIntegral(k types.Kind, v int64) bool {
	r, ok := integralRange[k]
	return ok && v >= r[0] && v <= r[1]
}

// NewIntegral returns a term of integral type k holding v.
func NewIntegral(k types.Kind, v int64) (*SimpleTerm, error) {
	desc := types.Scalar(k)
	if !desc.IsIntegral() {
		return nil, &ValueError{Type: desc, Literal: strconv.FormatInt(v, 10)}
	}
	if !FitsIntegral(k, v) {
		return nil, &ValueError{Type: desc, Literal: strconv.FormatInt(v, 10), Err: strconv.ErrRange}
	}
	return &SimpleTerm{typ: desc, i: v}, nil
}

// FromText converts literal text to a simple term of scalar kind k. This is
// the conversion behind typed literals such as DATE '2015-10-19'.
func FromText(k types.Kind, text string) (*SimpleTerm, error) {
	desc := types.Scalar(k)
	fail := func(err error) (*SimpleTerm, error) {
		return nil, &ValueError{Type: desc, Literal: text, Err: err}
	}

	switch k {
	case types.Null:
		if !strings.EqualFold(text, "null") {
			return fail(nil)
		}
		return NewNull(), nil
	case types.Boolean:
		v, err := strconv.ParseBool(strings.ToLower(text))
		if err != nil {
			return fail(err)
		}
		return NewBoolean(v), nil
	case types.Byte, types.Short, types.Integer, types.Long:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return fail(err)
		}
		return NewIntegral(k, v)
	case types.Float:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return fail(err)
		}
		return NewFloat(float32(v)), nil
	case types.Double:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fail(err)
		}
		return NewDouble(v), nil
	case types.Decimal:
		v, err := decimal.NewFromString(text)
		if err != nil {
			return fail(err)
		}
		return NewDecimal(v), nil
	case types.String:
		return NewString(text), nil
	case types.Date:
		v, err := time.Parse(DateLayout, text)
		if err != nil {
			return fail(err)
		}
		return NewDate(v), nil
	case types.Timestamp:
		v, err := parseTimestamp(text)
		if err != nil {
			return fail(err)
		}
		return NewTimestamp(v), nil
	default:
		return fail(nil)
	}
}

func parseTimestamp(text string) (time.Time, error) {
	var firstErr error
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, DateLayout} {
		v, err := time.Parse(layout, text)
		if err == nil {
			return v, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// key returns an identity used to detect duplicate set elements and map
// keys. Numerically equal values of the same family share a key.
func (s *SimpleTerm) key() string {
	switch {
	case s.typ.IsIntegral():
		return "i:" + strconv.FormatInt(s.i, 10)
	case s.typ.IsFloating():
		return "f:" + strconv.FormatFloat(s.f, 'g', -1, 64)
	case s.typ.Kind() == types.Decimal:
		return "d:" + s.d.String()
	default:
		return s.Render()
	}
}
