package dialect

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/parser"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

// UnsupportedTypeError is returned when a native column type has no
// equivalent descriptor, e.g. json, hugeint or a STRUCT.
type UnsupportedTypeError struct {
	Dialect string
	Native  string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: unsupported column type %q", e.Dialect, e.Native)
}

// ResolveNative maps a datastore type name to a descriptor. It understands
// the dialect's scalar names with or without length and precision arguments
// (varchar(255), numeric(10,2)), array suffixes (text[]), Postgres udt names
// (_int4), DuckDB maps (MAP(VARCHAR, INTEGER)), and the canonical spelling
// (ARRAY<STRING>).
func (d *Dialect) ResolveNative(native string) (types.Descriptor, error) {
	if t, ok := d.resolve(strings.TrimSpace(native)); ok {
		return t, nil
	}
	return types.Descriptor{}, &UnsupportedTypeError{Dialect: d.Name, Native: native}
}

func (d *Dialect) resolve(s string) (types.Descriptor, bool) {
	if s == "" {
		return types.Descriptor{}, false
	}
	lower := strings.ToLower(s)

	// text[], integer[3], varchar[][]
	if strings.HasSuffix(lower, "]") {
		if open := strings.LastIndexByte(lower, '['); open > 0 {
			elem, ok := d.resolve(strings.TrimSpace(s[:open]))
			if !ok {
				return types.Descriptor{}, false
			}
			return types.ArrayOf(elem), true
		}
	}

	// udt_name spelling of arrays: _int4, _text
	if strings.HasPrefix(lower, "_") && len(lower) > 1 {
		if elem, ok := d.scalar(lower[1:]); ok {
			return types.ArrayOf(elem), true
		}
	}

	// MAP(VARCHAR, INTEGER)
	if strings.HasPrefix(lower, "map(") && strings.HasSuffix(lower, ")") {
		parts := splitTopLevel(s[len("map(") : len(s)-1])
		if len(parts) != 2 {
			return types.Descriptor{}, false
		}
		key, ok := d.resolve(parts[0])
		if !ok {
			return types.Descriptor{}, false
		}
		value, ok := d.resolve(parts[1])
		if !ok {
			return types.Descriptor{}, false
		}
		return types.MapOf(key, value), true
	}

	if t, ok := d.scalar(lower); ok {
		return t, true
	}

	// Canonical spelling, for schema files and SQLite declared types.
	if t, err := parser.ParseType(s); err == nil {
		return t, true
	}
	return types.Descriptor{}, false
}

func (d *Dialect) scalar(name string) (types.Descriptor, bool) {
	k, ok := d.nativeTypes[normalizeNative(name)]
	if !ok {
		return types.Descriptor{}, false
	}
	return types.Scalar(k), true
}

// normalizeNative lowercases a type name, drops length and precision
// arguments and collapses whitespace: "NUMERIC(10, 2)" -> "numeric",
// "timestamp(3) with time zone" -> "timestamp with time zone".
func normalizeNative(name string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range strings.ToLower(name) {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// splitTopLevel splits s on commas that are not nested in parentheses.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(', '<':
			depth++
		case ')', '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}
