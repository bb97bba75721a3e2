package commands

import (
	"errors"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/statement"
	"github.com/spf13/cobra"
)

// statementFlags are the flags shared by commands that build a statement.
type statementFlags struct {
	set     string
	columns []string
	values  string
}

func (f *statementFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.set, "set", "", "SET clause body for an UPDATE (e.g. \"name = 'x', tags = []\")")
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "Target columns for an INSERT (default: all table columns)")
	cmd.Flags().StringVar(&f.values, "values", "", "VALUES rows for an INSERT (e.g. \"(1, 'a'), (2, 'b')\")")
	cmd.MarkFlagsMutuallyExclusive("set", "values")
	cmd.MarkFlagsMutuallyExclusive("set", "columns")
	cmd.MarkFlagsOneRequired("set", "values")
}

func (f *statementFlags) request(table string) statement.Request {
	if f.set != "" {
		return statement.Request{Kind: statement.Update, Table: table, Set: f.set}
	}
	cols := make([]string, 0, len(f.columns))
	for _, c := range f.columns {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return statement.Request{Kind: statement.Insert, Table: table, Columns: cols, Values: f.values}
}

// problems flattens a build failure into the individual causes.
func problems(err error) []error {
	var be *statement.BuildError
	if errors.As(err, &be) {
		err = be.Err
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
