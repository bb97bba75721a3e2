package term_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/leapstack-labs/leapterm/pkg/term"
	"github.com/leapstack-labs/leapterm/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustArray(t *testing.T, hint types.Descriptor, elems ...term.Term) *term.CollectionTerm {
	t.Helper()
	c, err := term.NewArray(hint, elems...)
	require.NoError(t, err)
	return c
}

func TestSimpleTerm_KindAndClass(t *testing.T) {
	date := time.Date(2015, 10, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		term *term.SimpleTerm
		want types.Descriptor
	}{
		{"null", term.NewNull(), types.NullType},
		{"boolean", term.NewBoolean(true), types.BooleanType},
		{"byte", term.NewByte(7), types.ByteType},
		{"short", term.NewShort(7), types.ShortType},
		{"integer", term.NewInteger(42), types.IntegerType},
		{"long", term.NewLong(1 << 40), types.LongType},
		{"float", term.NewFloat(1.5), types.FloatType},
		{"double", term.NewDouble(2.25), types.DoubleType},
		{"decimal", term.NewDecimal(decimal.RequireFromString("10.25")), types.DecimalType},
		{"string", term.NewString("a"), types.StringType},
		{"date", term.NewDate(date), types.DateType},
		{"timestamp", term.NewTimestamp(date), types.TimestampType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, term.Simple, tt.term.Kind())
			got := tt.term.UnderlyingClass()
			assert.True(t, got.IsScalar())
			assert.False(t, got.IsContainer())
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestSimpleTerm_Render(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 500_000_000, time.UTC)

	tests := []struct {
		name string
		term *term.SimpleTerm
		want string
	}{
		{"integer", term.NewInteger(42), "42"},
		{"negative integer", term.NewInteger(-7), "-7"},
		{"long in int32 range", term.NewLong(42), "LONG '42'"},
		{"long out of int32 range", term.NewLong(5_000_000_000), "5000000000"},
		{"byte", term.NewByte(7), "BYTE '7'"},
		{"short", term.NewShort(-3), "SHORT '-3'"},
		{"float", term.NewFloat(1.5), "FLOAT '1.5'"},
		{"double", term.NewDouble(2.25), "2.25"},
		{"whole double", term.NewDouble(100), "100.0"},
		{"large double", term.NewDouble(1e21), "1e+21"},
		{"decimal keeps scale", term.NewDecimal(decimal.RequireFromString("1.50")), "DECIMAL '1.50'"},
		{"decimal integral", term.NewDecimal(decimal.NewFromInt(12)), "DECIMAL '12'"},
		{"true", term.NewBoolean(true), "TRUE"},
		{"false", term.NewBoolean(false), "FALSE"},
		{"null", term.NewNull(), "NULL"},
		{"string", term.NewString("a"), "'a'"},
		{"string with quote", term.NewString("it's"), "'it''s'"},
		{"date", term.NewDate(ts), "DATE '2020-01-02'"},
		{"timestamp", term.NewTimestamp(ts), "TIMESTAMP '2020-01-02 03:04:05.5'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.term.Render())
			assert.Equal(t, tt.want, tt.term.String())
		})
	}
}

func TestFromText(t *testing.T) {
	tests := []struct {
		name    string
		kind    types.Kind
		text    string
		want    string
		wantErr bool
	}{
		{"date", types.Date, "2015-10-19", "DATE '2015-10-19'", false},
		{"timestamp rfc3339", types.Timestamp, "2015-10-19T10:00:00Z", "TIMESTAMP '2015-10-19 10:00:00'", false},
		{"byte", types.Byte, "12", "BYTE '12'", false},
		{"byte overflow", types.Byte, "300", "", true},
		{"boolean", types.Boolean, "TRUE", "TRUE", false},
		{"decimal", types.Decimal, "3.14", "DECIMAL '3.14'", false},
		{"bad date", types.Date, "2015-13-45", "", true},
		{"bad integer", types.Integer, "abc", "", true},
		{"container kind", types.Array, "x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := term.FromText(tt.kind, tt.text)
			if tt.wantErr {
				var valueErr *term.ValueError
				require.ErrorAs(t, err, &valueErr)
				assert.Equal(t, tt.text, valueErr.Literal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Render())
		})
	}
}

func TestCollectionTerm_StringArray(t *testing.T) {
	arr := mustArray(t, types.Descriptor{},
		term.NewString("a"), term.NewString("b"), term.NewString("c"))

	assert.Equal(t, term.Collection, arr.Kind())
	assert.True(t, types.ArrayOf(types.StringType).Equal(arr.UnderlyingClass()))
	assert.Equal(t, "Array<String>", arr.UnderlyingClass().String())

	children := arr.Children()
	require.Len(t, children, 3)
	for i, want := range []string{"'a'", "'b'", "'c'"} {
		assert.Equal(t, term.Simple, children[i].Kind())
		assert.True(t, types.StringType.Equal(children[i].UnderlyingClass()))
		assert.Equal(t, want, children[i].Render())
	}
	assert.Equal(t, "['a', 'b', 'c']", arr.Render())
}

func TestCollectionTerm_EmptyWithoutHint(t *testing.T) {
	_, err := term.NewArray(types.Descriptor{})

	var unresolved *term.UnresolvedTypeError
	require.ErrorAs(t, err, &unresolved)
	assert.ErrorIs(t, err, term.ErrUnresolvedType)
	assert.Equal(t, types.Array, unresolved.Container)
	assert.Equal(t, "[]", unresolved.Literal)
	assert.Contains(t, err.Error(), "without a type hint")
}

func TestCollectionTerm_Resolution(t *testing.T) {
	tests := []struct {
		name      string
		build     func() (*term.CollectionTerm, error)
		wantClass types.Descriptor
		render    string
	}{
		{
			name: "empty array with hint",
			build: func() (*term.CollectionTerm, error) {
				return term.NewArray(types.StringType)
			},
			wantClass: types.ArrayOf(types.StringType),
			render:    "ARRAY<STRING>[]",
		},
		{
			name: "integral elements widen",
			build: func() (*term.CollectionTerm, error) {
				return term.NewArray(types.Descriptor{}, term.NewInteger(1), term.NewLong(5_000_000_000))
			},
			wantClass: types.ArrayOf(types.LongType),
			render:    "[1, 5000000000]",
		},
		{
			name: "hint differs from inferred",
			build: func() (*term.CollectionTerm, error) {
				return term.NewArray(types.LongType, term.NewInteger(1), term.NewInteger(2))
			},
			wantClass: types.ArrayOf(types.LongType),
			render:    "ARRAY<LONG>[1, 2]",
		},
		{
			name: "null element resolved by siblings",
			build: func() (*term.CollectionTerm, error) {
				return term.NewArray(types.Descriptor{}, term.NewNull(), term.NewString("x"))
			},
			wantClass: types.ArrayOf(types.StringType),
			render:    "[NULL, 'x']",
		},
		{
			name: "all-null with hint",
			build: func() (*term.CollectionTerm, error) {
				return term.NewArray(types.StringType, term.NewNull())
			},
			wantClass: types.ArrayOf(types.StringType),
			render:    "ARRAY<STRING>[NULL]",
		},
		{
			name: "set",
			build: func() (*term.CollectionTerm, error) {
				return term.NewSet(types.Descriptor{}, term.NewInteger(1), term.NewInteger(2))
			},
			wantClass: types.SetOf(types.IntegerType),
			render:    "{1, 2}",
		},
		{
			name: "empty set with hint",
			build: func() (*term.CollectionTerm, error) {
				return term.NewSet(types.DateType)
			},
			wantClass: types.SetOf(types.DateType),
			render:    "SET<DATE>{}",
		},
		{
			name: "map",
			build: func() (*term.CollectionTerm, error) {
				return term.NewMap(types.Descriptor{}, types.Descriptor{},
					term.Entry{Key: term.NewString("a"), Value: term.NewInteger(1)},
					term.Entry{Key: term.NewString("b"), Value: term.NewInteger(2)},
				)
			},
			wantClass: types.MapOf(types.StringType, types.IntegerType),
			render:    "{'a': 1, 'b': 2}",
		},
		{
			name: "empty map with hints",
			build: func() (*term.CollectionTerm, error) {
				return term.NewMap(types.StringType, types.DoubleType)
			},
			wantClass: types.MapOf(types.StringType, types.DoubleType),
			render:    "MAP<STRING, DOUBLE>{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.build()
			require.NoError(t, err)
			assert.Equal(t, term.Collection, c.Kind())
			assert.True(t, c.UnderlyingClass().IsContainer())
			assert.True(t, tt.wantClass.Equal(c.UnderlyingClass()), "want %s, got %s", tt.wantClass, c.UnderlyingClass())
			assert.Equal(t, tt.render, c.Render())
		})
	}
}

func TestCollectionTerm_Nested(t *testing.T) {
	inner1 := mustArray(t, types.Descriptor{}, term.NewInteger(1))
	inner2 := mustArray(t, types.LongType)
	outer := mustArray(t, types.Descriptor{}, inner1, inner2)

	assert.True(t, types.ArrayOf(types.ArrayOf(types.LongType)).Equal(outer.UnderlyingClass()))
	assert.Equal(t, "[[1], ARRAY<LONG>[]]", outer.Render())

	var depths []int
	term.Walk(outer, func(depth int, _ term.Term) bool {
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestCollectionTerm_Errors(t *testing.T) {
	t.Run("element incompatible with hint", func(t *testing.T) {
		_, err := term.NewArray(types.IntegerType, term.NewString("x"))
		var typeErr *term.ElementTypeError
		require.ErrorAs(t, err, &typeErr)
		assert.Equal(t, 0, typeErr.Index)
		assert.Equal(t, "'x'", typeErr.Literal)
		assert.True(t, types.IntegerType.Equal(typeErr.Expected))
	})

	t.Run("incompatible siblings", func(t *testing.T) {
		_, err := term.NewArray(types.Descriptor{}, term.NewInteger(1), term.NewString("x"))
		var typeErr *term.ElementTypeError
		require.ErrorAs(t, err, &typeErr)
		assert.Equal(t, 1, typeErr.Index)
	})

	t.Run("all-null without hint", func(t *testing.T) {
		_, err := term.NewSet(types.Descriptor{}, term.NewNull())
		assert.ErrorIs(t, err, term.ErrUnresolvedType)
	})

	t.Run("duplicate set element", func(t *testing.T) {
		_, err := term.NewSet(types.Descriptor{}, term.NewInteger(1), term.NewLong(1))
		var dupErr *term.DuplicateElementError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "LONG '1'", dupErr.Literal)
	})

	t.Run("duplicate map key", func(t *testing.T) {
		_, err := term.NewMap(types.Descriptor{}, types.Descriptor{},
			term.Entry{Key: term.NewString("a"), Value: term.NewInteger(1)},
			term.Entry{Key: term.NewString("a"), Value: term.NewInteger(2)},
		)
		var dupErr *term.DuplicateElementError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "duplicate map key 'a'", err.Error())
	})

	t.Run("null map key", func(t *testing.T) {
		_, err := term.NewMap(types.Descriptor{}, types.Descriptor{},
			term.Entry{Key: term.NewNull(), Value: term.NewInteger(1)},
		)
		var typeErr *term.ElementTypeError
		require.ErrorAs(t, err, &typeErr)
		assert.True(t, typeErr.Key)
		assert.Equal(t, "Map key 0 (NULL) has type Null, expected a non-NULL scalar", err.Error())
	})

	t.Run("map key hint must be a scalar", func(t *testing.T) {
		for _, hint := range []types.Descriptor{
			types.ArrayOf(types.IntegerType),
			types.MapOf(types.StringType, types.StringType),
			types.NullType,
		} {
			_, err := term.NewMap(hint, types.StringType)
			var keyErr *term.KeyTypeError
			require.ErrorAs(t, err, &keyErr, hint.String())
			assert.True(t, hint.Equal(keyErr.Key))
		}

		_, err := term.NewMap(types.ArrayOf(types.IntegerType), types.StringType,
			term.Entry{Key: mustArray(t, types.Descriptor{}, term.NewInteger(1)), Value: term.NewString("a")},
		)
		assert.EqualError(t, err, "Map key type Array<Integer> is not a non-NULL scalar")
	})

	t.Run("empty map without hint", func(t *testing.T) {
		_, err := term.NewMap(types.Descriptor{}, types.Descriptor{})
		assert.ErrorIs(t, err, term.ErrUnresolvedType)
	})
}

func TestCollectionTerm_ConcurrentReads(t *testing.T) {
	tags, err := term.NewMap(types.Descriptor{}, types.Descriptor{},
		term.Entry{Key: term.NewString("a"), Value: mustArray(t, types.Descriptor{}, term.NewInteger(1), term.NewNull())},
		term.Entry{Key: term.NewString("b"), Value: mustArray(t, types.LongType)},
	)
	require.NoError(t, err)
	shared := mustArray(t, types.Descriptor{}, tags, tags)

	wantRender := shared.Render()
	wantClass := shared.UnderlyingClass()
	count := func() int {
		n := 0
		term.Walk(shared, func(int, term.Term) bool {
			n++
			return true
		})
		return n
	}
	wantNodes := count()

	const readers = 8
	var wg sync.WaitGroup
	results := make([]error, readers)
	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				switch {
				case shared.Render() != wantRender:
					results[i] = errors.New("render changed")
				case !shared.UnderlyingClass().Equal(wantClass):
					results[i] = errors.New("class changed")
				case count() != wantNodes:
					results[i] = errors.New("walk changed")
				}
			}
		}()
	}
	wg.Wait()

	for _, err := range results {
		assert.NoError(t, err)
	}
	assert.Equal(t, 15, wantNodes)
}

func TestCollectionTerm_Immutable(t *testing.T) {
	elems := []term.Term{term.NewString("a"), term.NewString("b")}
	arr := mustArray(t, types.Descriptor{}, elems...)

	elems[0] = term.NewString("z")
	got := arr.Elements()
	got[1] = term.NewString("y")

	assert.Equal(t, "['a', 'b']", arr.Render())
}

func TestMatch(t *testing.T) {
	describe := func(tm term.Term) string {
		return term.Match(tm,
			func(s *term.SimpleTerm) string { return "simple " + s.UnderlyingClass().String() },
			func(c *term.CollectionTerm) string { return "collection " + c.UnderlyingClass().String() },
		)
	}

	assert.Equal(t, "simple Integer", describe(term.NewInteger(42)))
	assert.Equal(t, "collection Array<Integer>", describe(mustArray(t, types.Descriptor{}, term.NewInteger(1))))
}

func TestMatch_NilPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, term.ErrInvariantViolation))
	}()

	var s *term.SimpleTerm
	term.Match(term.Term(s),
		func(*term.SimpleTerm) int { return 1 },
		func(*term.CollectionTerm) int { return 2 },
	)
}

func TestAssignment_String(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"age", "age = 42"},
		{"first name", `"first name" = 42`},
		{"null", `"null" = 42`},
		{`we"ird`, `"we""ird" = 42`},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			a := term.Assignment{Column: tt.column, Value: term.NewInteger(42)}
			assert.Equal(t, tt.want, a.String())
		})
	}
}
