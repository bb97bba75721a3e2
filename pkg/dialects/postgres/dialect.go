// Package postgres provides the PostgreSQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import (
	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

func init() {
	dialect.Register(Postgres)
}

// postgresReservedWords contains common PostgreSQL reserved words.
// This is a manually maintained list of frequently problematic identifiers.
// For a complete list, use pg_get_keywords() at runtime.
var postgresReservedWords = []string{
	"user", "order", "group", "table", "select", "from", "where", "index",
	"all", "and", "any", "array", "as", "asc", "asymmetric", "authorization",
	"between", "binary", "both", "case", "cast", "check", "collate", "column",
	"constraint", "create", "cross", "current_catalog", "current_date",
	"current_role", "current_schema", "current_time", "current_timestamp",
	"current_user", "default", "deferrable", "desc", "distinct", "do", "else",
	"end", "except", "false", "fetch", "for", "foreign", "freeze", "full",
	"grant", "having", "ilike", "in", "initially", "inner", "intersect",
	"into", "is", "isnull", "join", "lateral", "leading", "left", "like",
	"limit", "localtime", "localtimestamp", "natural", "not", "notnull",
	"null", "offset", "on", "only", "or", "outer", "overlaps", "placing",
	"primary", "references", "returning", "right", "session_user", "similar",
	"some", "symmetric", "then", "to", "trailing", "true", "union", "unique",
	"using", "variadic", "verbose", "when", "window", "with",
}

// Postgres is the PostgreSQL dialect. Arrays are native; sets are written as
// arrays and maps are carried as jsonb.
var Postgres = dialect.NewDialect("postgres").
	Identifiers(`"`, `"`, `""`, dialect.NormLowercase).
	DefaultSchema("public").
	Placeholder(dialect.PlaceholderDollar).
	Collections(dialect.CollectionArray, "%s[]").
	NativeArrays().
	JSONMaps("jsonb").
	ColonCasts().
	TypeNames(map[types.Kind]string{
		types.Boolean:   "boolean",
		types.Byte:      "smallint",
		types.Short:     "smallint",
		types.Integer:   "integer",
		types.Long:      "bigint",
		types.Float:     "real",
		types.Double:    "double precision",
		types.Decimal:   "numeric",
		types.String:    "text",
		types.Date:      "date",
		types.Timestamp: "timestamp",
	}).
	NativeTypes(map[string]types.Kind{
		// information_schema data_type spellings
		"character varying":           types.String,
		"character":                   types.String,
		"varchar":                     types.String,
		"char":                        types.String,
		"decimal":                     types.Decimal,
		"int":                         types.Integer,
		"timestamp without time zone": types.Timestamp,
		"timestamp with time zone":    types.Timestamp,
		"timestamptz":                 types.Timestamp,

		// udt_name spellings
		"bool":   types.Boolean,
		"int2":   types.Short,
		"int4":   types.Integer,
		"int8":   types.Long,
		"float4": types.Float,
		"float8": types.Double,
		"bpchar": types.String,
	}).
	WithReservedWords(postgresReservedWords...).
	Build()
