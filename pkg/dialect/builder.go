package dialect

import (
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/types"
)

// Builder constructs a Dialect.
type Builder struct {
	d *Dialect
}

// NewDialect starts building a dialect with default settings: double-quoted
// lowercase identifiers, ? placeholders and ARRAY[...] collections.
func NewDialect(name string) *Builder {
	return &Builder{d: &Dialect{
		Name: name,
		Identifiers: IdentifierConfig{
			Quote:    `"`,
			QuoteEnd: `"`,
			Escape:   `""`,
		},
		reservedWords: make(map[string]struct{}),
		typeNames:     make(map[types.Kind]string),
		nativeTypes:   make(map[string]types.Kind),
	}}
}

// Identifiers sets identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm NormalizationStrategy) *Builder {
	b.d.Identifiers = IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the schema used for unqualified table names.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.d.DefaultSchema = schema
	return b
}

// Placeholder sets the parameter placeholder style.
func (b *Builder) Placeholder(style PlaceholderStyle) *Builder {
	b.d.Placeholder = style
	return b
}

// Collections sets how collection literals are written. arrayTemplate is the
// native array type spelling with %s standing for the element type, e.g.
// "%s[]"; pass "" when the dialect has no typed arrays.
func (b *Builder) Collections(style CollectionStyle, arrayTemplate string) *Builder {
	b.d.Collections = style
	b.d.arrayTemplate = arrayTemplate
	return b
}

// NativeArrays marks the driver as accepting Go slices for array parameters.
func (b *Builder) NativeArrays() *Builder {
	b.d.NativeArrays = true
	return b
}

// MapValues marks the dialect as having map-typed columns.
func (b *Builder) MapValues() *Builder {
	b.d.MapValues = true
	return b
}

// JSONMaps makes maps render as documents of the given JSON type.
func (b *Builder) JSONMaps(typeName string) *Builder {
	b.d.JSONType = typeName
	return b
}

// ColonCasts switches casts to the expr::type spelling.
func (b *Builder) ColonCasts() *Builder {
	b.d.ColonCasts = true
	return b
}

// TypeNames sets the native spelling of each scalar kind. When two kinds
// share a spelling (Postgres smallint for Byte and Short), the name resolves
// to the wider kind.
func (b *Builder) TypeNames(names map[types.Kind]string) *Builder {
	for k, name := range names {
		b.d.typeNames[k] = name
		key := normalizeNative(name)
		if prev, ok := b.d.nativeTypes[key]; !ok || k > prev {
			b.d.nativeTypes[key] = k
		}
	}
	return b
}

// NativeTypes adds native type names (aliases) that resolve to a scalar kind.
func (b *Builder) NativeTypes(names map[string]types.Kind) *Builder {
	for name, k := range names {
		b.d.nativeTypes[normalizeNative(name)] = k
	}
	return b
}

// WithReservedWords adds words that must be quoted as identifiers.
func (b *Builder) WithReservedWords(words ...string) *Builder {
	for _, w := range words {
		b.d.reservedWords[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// Build returns the dialect.
func (b *Builder) Build() *Dialect {
	return b.d
}
