// Package schema describes target tables and the catalogs that look them up.
//
// A Column carries both the datastore's native type name and the descriptor it
// resolves to. Columns whose native type has no descriptor keep a zero Type;
// validation reports them instead of guessing.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/types"
	"golang.org/x/text/cases"
)

// Column is one column of a target table.
type Column struct {
	Name       string
	Type       types.Descriptor
	NativeType string
	Nullable   bool
	Position   int
}

// Supported reports whether the column's type resolved to a descriptor.
func (c Column) Supported() bool {
	return c.Type.IsValid()
}

// TypeName returns the canonical type, or the native name for unsupported
// columns.
func (c Column) TypeName() string {
	if c.Supported() {
		return c.Type.SQL()
	}
	return c.NativeType
}

// NewColumn builds a column from datastore metadata, resolving the native
// type through d. An unresolvable type leaves Type zero.
func NewColumn(d *dialect.Dialect, name, native string, nullable bool, position int) Column {
	col := Column{
		Name:       name,
		NativeType: native,
		Nullable:   nullable,
		Position:   position,
	}
	if t, err := d.ResolveNative(native); err == nil {
		col.Type = t
	}
	return col
}

// Table is a target table with its ordered columns.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

// QualifiedName returns schema.name, or name when the schema is empty.
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Column finds a column by name. An exact match wins; otherwise names are
// compared after Unicode case folding.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	folded := Fold(name)
	for i := range t.Columns {
		if Fold(t.Columns[i].Name) == folded {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns the column names in position order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Fold returns the case-folded form of an identifier.
func Fold(s string) string {
	// A Caser keeps state between calls and cannot be shared.
	return cases.Fold().String(s)
}

// Catalog looks up target tables by name. Names may be qualified
// (schema.table) or bare.
type Catalog interface {
	Table(ctx context.Context, name string) (*Table, error)
}

// TableNotFoundError is returned when a catalog has no such table.
type TableNotFoundError struct {
	Name string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %s not found", e.Name)
}

// AmbiguousTableError is returned when a bare table name exists in more than
// one schema.
type AmbiguousTableError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousTableError) Error() string {
	return fmt.Sprintf("table name %s is ambiguous, qualify it as one of: %s", e.Name, strings.Join(e.Candidates, ", "))
}

// SplitName splits schema.table. The schema is empty for bare names.
func SplitName(name string) (schema, table string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
