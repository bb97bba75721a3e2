// Package sqlite provides the SQLite dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlite

import (
	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/types"
)

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect. Column types are declared names rather than
// storage classes, so common spellings are listed explicitly. Collections have
// no native type and are stored as JSON text.
var SQLite = dialect.NewDialect("sqlite").
	Identifiers(`"`, `"`, `""`, dialect.NormCaseInsensitive).
	DefaultSchema("main").
	Placeholder(dialect.PlaceholderQuestion).
	Collections(dialect.CollectionJSON, "").
	TypeNames(map[types.Kind]string{
		types.Boolean:   "BOOLEAN",
		types.Byte:      "TINYINT",
		types.Short:     "SMALLINT",
		types.Integer:   "INT",
		types.Long:      "INTEGER",
		types.Float:     "FLOAT",
		types.Double:    "REAL",
		types.Decimal:   "NUMERIC",
		types.String:    "TEXT",
		types.Date:      "DATE",
		types.Timestamp: "DATETIME",
	}).
	NativeTypes(map[string]types.Kind{
		"bool":             types.Boolean,
		"int2":             types.Short,
		"mediumint":        types.Integer,
		"int8":             types.Long,
		"bigint":           types.Long,
		"double":           types.Double,
		"double precision": types.Double,
		"decimal":          types.Decimal,
		"varchar":          types.String,
		"character":        types.String,
		"char":             types.String,
		"clob":             types.String,
		"nvarchar":         types.String,
		"timestamp":        types.Timestamp,
	}).
	WithReservedWords(
		"abort", "add", "all", "alter", "and", "as", "autoincrement", "between",
		"case", "check", "collate", "commit", "constraint", "create", "default",
		"deferrable", "delete", "distinct", "drop", "else", "escape", "except",
		"exists", "foreign", "from", "group", "having", "in", "index", "insert",
		"intersect", "into", "is", "isnull", "join", "limit", "not", "notnull",
		"null", "on", "or", "order", "primary", "references", "select", "set",
		"table", "then", "to", "transaction", "union", "unique", "update",
		"using", "values", "when", "where",
	).
	Build()
