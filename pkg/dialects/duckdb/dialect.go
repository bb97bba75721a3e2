// Package duckdb provides the DuckDB dialect definition.
// This package is pure Go with no database driver dependencies.
package duckdb

import (
	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect: [1, 2] lists, MAP {k: v} maps, ? placeholders.
var DuckDB = dialect.NewDialect("duckdb").
	Identifiers(`"`, `"`, `""`, dialect.NormCaseInsensitive).
	DefaultSchema("main").
	Placeholder(dialect.PlaceholderQuestion).
	Collections(dialect.CollectionList, "%s[]").
	MapValues().
	ColonCasts().
	TypeNames(map[types.Kind]string{
		types.Boolean:   "BOOLEAN",
		types.Byte:      "TINYINT",
		types.Short:     "SMALLINT",
		types.Integer:   "INTEGER",
		types.Long:      "BIGINT",
		types.Float:     "FLOAT",
		types.Double:    "DOUBLE",
		types.Decimal:   "DECIMAL",
		types.String:    "VARCHAR",
		types.Date:      "DATE",
		types.Timestamp: "TIMESTAMP",
	}).
	NativeTypes(map[string]types.Kind{
		"bool":                     types.Boolean,
		"logical":                  types.Boolean,
		"int1":                     types.Byte,
		"int2":                     types.Short,
		"short":                    types.Short,
		"int4":                     types.Integer,
		"int":                      types.Integer,
		"signed":                   types.Integer,
		"int8":                     types.Long,
		"long":                     types.Long,
		"float4":                   types.Float,
		"real":                     types.Float,
		"float8":                   types.Double,
		"numeric":                  types.Decimal,
		"text":                     types.String,
		"string":                   types.String,
		"char":                     types.String,
		"bpchar":                   types.String,
		"datetime":                 types.Timestamp,
		"timestamptz":              types.Timestamp,
		"timestamp_us":             types.Timestamp,
		"timestamp with time zone": types.Timestamp,
	}).
	WithReservedWords(
		"all", "analyse", "analyze", "and", "any", "array", "as", "asc",
		"asymmetric", "both", "case", "cast", "check", "collate", "column",
		"constraint", "create", "default", "deferrable", "desc", "describe",
		"distinct", "do", "else", "end", "except", "false", "fetch", "for",
		"foreign", "from", "grant", "group", "having", "in", "initially",
		"intersect", "into", "lateral", "leading", "limit", "not", "null",
		"offset", "on", "only", "or", "order", "pivot", "placing", "primary",
		"qualify", "references", "returning", "select", "show", "some",
		"summarize", "symmetric", "table", "then", "to", "trailing", "true",
		"union", "unique", "unpivot", "using", "variadic", "when", "where",
		"window", "with",
	).
	Build()
