// Package dialect describes how a target datastore spells literals, types and
// identifiers.
//
// This package contains the public contract for dialect definitions used by the
// literal formatter, the parameter binder and the schema adapters. Concrete
// dialects are registered from pkg/dialects/*/ packages.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/types"
)

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase.
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly.
	NormCaseSensitive
	// NormCaseInsensitive compares case-insensitively but preserves case (DuckDB, SQLite).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// CollectionStyle defines how collection literals are written.
type CollectionStyle int

const (
	// CollectionArray uses ARRAY[1, 2]. Sets are written as arrays and maps
	// are not expressible.
	CollectionArray CollectionStyle = iota
	// CollectionList uses [1, 2] lists and MAP {k: v} (DuckDB).
	CollectionList
	// CollectionJSON stores collections as JSON text (SQLite).
	CollectionJSON
)

// String returns the name of the style.
func (s CollectionStyle) String() string {
	switch s {
	case CollectionArray:
		return "array"
	case CollectionList:
		return "list"
	case CollectionJSON:
		return "json"
	default:
		return "unknown"
	}
}

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// Dialect represents a target datastore's literal and type conventions.
type Dialect struct {
	Name        string
	Identifiers IdentifierConfig

	// Database-specific settings
	DefaultSchema string           // Default schema name ("main" for DuckDB, "public" for Postgres)
	Placeholder   PlaceholderStyle // How to format query parameters
	Collections   CollectionStyle  // How to write collection literals

	// NativeArrays reports whether the driver accepts Go slices as array
	// parameters. Otherwise collections bind as JSON text.
	NativeArrays bool

	// MapValues reports whether map-typed columns exist natively.
	MapValues bool

	// JSONType names the JSON document type maps are written as when the
	// dialect has no map type. Empty when maps are not expressible.
	JSONType string

	// ColonCasts reports whether casts are written expr::type instead of
	// CAST(expr AS type).
	ColonCasts bool

	reservedWords map[string]struct{}
	typeNames     map[types.Kind]string // scalar kind -> native type name
	nativeTypes   map[string]types.Kind // normalized native name -> scalar kind
	arrayTemplate string                // "%s[]" style suffix, or "" when arrays are not typed
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case NormUppercase:
		return strings.ToUpper(name)
	case NormLowercase, NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// IsReservedWord returns true if the word needs quoting when used as an identifier.
func (d *Dialect) IsReservedWord(word string) bool {
	_, ok := d.reservedWords[strings.ToLower(word)]
	return ok
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., " -> "")
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier when it is a reserved word,
// is not a plain identifier, or would be changed by normalization.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if d.IsReservedWord(name) || !isPlainIdent(name) {
		return d.QuoteIdentifier(name)
	}
	if d.Identifiers.Normalization != NormCaseInsensitive && d.NormalizeName(name) != name {
		return d.QuoteIdentifier(name)
	}
	return name
}

// Cast wraps expr in a cast to the native type name.
func (d *Dialect) Cast(expr, typeName string) string {
	if d.ColonCasts {
		return expr + "::" + typeName
	}
	return "CAST(" + expr + " AS " + typeName + ")"
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// TypeName returns the native spelling of a type: integer, text[],
// MAP(VARCHAR, INTEGER). The second result is false when the dialect has no
// spelling for it.
func (d *Dialect) TypeName(t types.Descriptor) (string, bool) {
	switch t.Kind() {
	case types.Array, types.Set:
		if d.arrayTemplate == "" {
			return "", false
		}
		elem, ok := d.TypeName(t.Elem())
		if !ok {
			return "", false
		}
		return strings.ReplaceAll(d.arrayTemplate, "%s", elem), true
	case types.Map:
		if !d.MapValues {
			return "", false
		}
		key, ok := d.TypeName(t.Key())
		if !ok {
			return "", false
		}
		value, ok := d.TypeName(t.Elem())
		if !ok {
			return "", false
		}
		return "MAP(" + key + ", " + value + ")", true
	default:
		name, ok := d.typeNames[t.Kind()]
		return name, ok
	}
}
