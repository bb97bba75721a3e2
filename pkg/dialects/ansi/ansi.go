// Package ansi provides the ANSI SQL dialect definition and is the fallback
// when no target datastore is configured.
package ansi

import (
	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

func init() {
	dialect.Register(ANSI)
}

// ANSI is the standard SQL dialect. It has typed arrays but no sets or maps.
var ANSI = dialect.NewDialect("ansi").
	Identifiers(`"`, `"`, `""`, dialect.NormUppercase).
	Placeholder(dialect.PlaceholderQuestion).
	Collections(dialect.CollectionArray, "%s ARRAY").
	TypeNames(map[types.Kind]string{
		types.Boolean:   "BOOLEAN",
		types.Byte:      "SMALLINT",
		types.Short:     "SMALLINT",
		types.Integer:   "INTEGER",
		types.Long:      "BIGINT",
		types.Float:     "REAL",
		types.Double:    "DOUBLE PRECISION",
		types.Decimal:   "DECIMAL",
		types.String:    "VARCHAR",
		types.Date:      "DATE",
		types.Timestamp: "TIMESTAMP",
	}).
	NativeTypes(map[string]types.Kind{
		"int":               types.Integer,
		"character varying": types.String,
		"char":              types.String,
		"character":         types.String,
		"numeric":           types.Decimal,
		"float":             types.Double,
		"double":            types.Double,
	}).
	WithReservedWords(
		"all", "and", "array", "as", "between", "by", "case", "cast", "check",
		"column", "constraint", "create", "cross", "default", "delete", "distinct",
		"else", "end", "except", "false", "from", "full", "grant", "group", "having",
		"in", "inner", "insert", "intersect", "into", "is", "join", "left", "like",
		"not", "null", "on", "or", "order", "outer", "primary", "references",
		"right", "select", "set", "table", "then", "to", "true", "union", "unique",
		"update", "user", "using", "values", "when", "where", "with",
	).
	Build()
