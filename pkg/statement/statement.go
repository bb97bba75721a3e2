// Package statement builds validated INSERT and UPDATE statements from
// assignment text and catalog metadata.
//
// Literals are parsed with the target column's type as a hint, so an empty
// collection assigned to an Array<String> column resolves without a type
// prefix. A statement is returned only when every row validates.
package statement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapterm/pkg/parser"
	"github.com/leapstack-labs/leapterm/pkg/schema"
	"github.com/leapstack-labs/leapterm/pkg/term"
	"github.com/leapstack-labs/leapterm/pkg/types"
	"github.com/leapstack-labs/leapterm/pkg/validate"
)

// Kind is the statement type.
type Kind int

// Statement kinds.
const (
	Insert Kind = iota + 1
	Update
)

// String returns the SQL keyword of the kind.
func (k Kind) String() string {
	switch k {
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Statement is a validated statement. Rows holds one assignment list per
// inserted row; updates have exactly one row. Statements are read-only once
// built and may be shared between goroutines.
type Statement struct {
	ID    uuid.UUID
	Kind  Kind
	Table *schema.Table
	Rows  [][]term.Assignment
}

// Columns returns the assigned column names of the first row.
func (s *Statement) Columns() []string {
	if len(s.Rows) == 0 {
		return nil
	}
	names := make([]string, len(s.Rows[0]))
	for i, a := range s.Rows[0] {
		names[i] = a.Column
	}
	return names
}

// BuildError reports why a statement could not be built.
type BuildError struct {
	Kind  Kind
	Table string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cannot build %s on %s: %v", e.Kind, e.Table, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Builder turns assignment text into statements. A nil Logger discards
// output.
type Builder struct {
	Catalog schema.Catalog
	Logger  *slog.Logger
}

// NewBuilder returns a Builder resolving tables through cat.
func NewBuilder(cat schema.Catalog, logger *slog.Logger) *Builder {
	return &Builder{Catalog: cat, Logger: logger}
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// BuildUpdate builds an UPDATE from a SET clause body such as
// "name = 'x', tags = []".
func (b *Builder) BuildUpdate(ctx context.Context, table, setClause string) (*Statement, error) {
	tbl, err := b.Catalog.Table(ctx, table)
	if err != nil {
		return nil, &BuildError{Kind: Update, Table: table, Err: err}
	}

	row, err := parser.ParseAssignmentsWithHints(setClause, columnHints(tbl))
	if err != nil {
		return nil, &BuildError{Kind: Update, Table: tbl.QualifiedName(), Err: err}
	}
	if err := validate.New(b.logger()).Check(tbl, row); err != nil {
		return nil, &BuildError{Kind: Update, Table: tbl.QualifiedName(), Err: err}
	}
	return b.finish(Update, tbl, [][]term.Assignment{row}), nil
}

// BuildInsert builds a multi-row INSERT from a VALUES list. columns names the
// target columns in value order; when empty, all table columns are used.
func (b *Builder) BuildInsert(ctx context.Context, table string, columns []string, values string) (*Statement, error) {
	tbl, err := b.Catalog.Table(ctx, table)
	if err != nil {
		return nil, &BuildError{Kind: Insert, Table: table, Err: err}
	}
	fail := func(err error) (*Statement, error) {
		return nil, &BuildError{Kind: Insert, Table: tbl.QualifiedName(), Err: err}
	}

	if len(columns) == 0 {
		columns = tbl.ColumnNames()
	}
	hints := make([]types.Descriptor, len(columns))
	for i, name := range columns {
		if col, ok := tbl.Column(name); ok {
			hints[i] = col.Type
		}
	}

	terms, err := parser.ParseValuesWithHints(values, hints)
	if err != nil {
		return fail(err)
	}

	v := validate.New(b.logger())
	var errs []error
	rows := make([][]term.Assignment, 0, len(terms))
	for i, vals := range terms {
		if len(vals) != len(columns) {
			errs = append(errs, fmt.Errorf("row %d has %d values for %d columns (%s)",
				i+1, len(vals), len(columns), strings.Join(columns, ", ")))
			continue
		}
		row := make([]term.Assignment, len(columns))
		for j, v := range vals {
			row[j] = term.Assignment{Column: columns[j], Value: v}
		}
		if err := v.Check(tbl, row); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		rows = append(rows, row)
	}
	if err := errors.Join(errs...); err != nil {
		return fail(err)
	}
	return b.finish(Insert, tbl, rows), nil
}

func (b *Builder) finish(kind Kind, tbl *schema.Table, rows [][]term.Assignment) *Statement {
	stmt := &Statement{
		ID:    uuid.New(),
		Kind:  kind,
		Table: tbl,
		Rows:  rows,
	}
	b.logger().Debug("statement built",
		slog.String("id", stmt.ID.String()),
		slog.String("kind", kind.String()),
		slog.String("table", tbl.QualifiedName()),
		slog.Int("rows", len(rows)))
	return stmt
}

func columnHints(tbl *schema.Table) parser.HintFunc {
	return func(column string) types.Descriptor {
		if col, ok := tbl.Column(column); ok {
			return col.Type
		}
		return types.Descriptor{}
	}
}
