package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapterm/internal/cli/output"
	"github.com/leapstack-labs/leapterm/pkg/statement"
	"github.com/spf13/cobra"
)

// CheckOutput is the JSON form of a check result.
type CheckOutput struct {
	Table     string   `json:"table"`
	Statement string   `json:"statement"`
	Valid     bool     `json:"valid"`
	Columns   []string `json:"columns,omitempty"`
	Rows      int      `json:"rows,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var flags statementFlags

	cmd := &cobra.Command{
		Use:   "check <table>",
		Short: "Validate statement literals against a table's column types",
		Long: `Parse the literals of an UPDATE SET clause or INSERT VALUES list and check
each against the column it is assigned to.

Column metadata comes from the configured catalog: a schema file, a live
target, or the latest saved snapshot. Every problem is reported, not just
the first. The command exits non-zero when any check fails.`,
		Example: `  # Check an update
  leapterm check users --set "name = 'ada', tags = ['a', 'b']"

  # Check a two-row insert
  leapterm check users --columns id,name --values "(1, 'ada'), (2, 'bob')"

  # Check against a live DuckDB database
  leapterm check events --catalog target --target-type duckdb --database dev.duckdb --set "payload = MAP<STRING, INTEGER>{'k': 1}"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], &flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func runCheck(cmd *cobra.Command, table string, flags *statementFlags) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	req := flags.request(table)

	b := statement.NewBuilder(cmdCtx.Catalog, cmdCtx.Logger)
	stmt, buildErr := b.Build(cmd.Context(), req)

	result := CheckOutput{Table: table, Statement: req.Kind.String(), Valid: buildErr == nil}
	if buildErr != nil {
		result.Errors = errorStrings(problems(buildErr))
	} else {
		result.Table = stmt.Table.QualifiedName()
		result.Columns = stmt.Columns()
		result.Rows = len(stmt.Rows)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(result); err != nil {
			return err
		}
	default:
		r.Header(fmt.Sprintf("%s %s", result.Statement, result.Table))
		if result.Valid {
			r.Success(fmt.Sprintf("%d row(s), %d column(s) valid", result.Rows, len(result.Columns)))
		} else {
			for _, msg := range result.Errors {
				r.Error(msg)
			}
		}
	}

	if !result.Valid {
		return fmt.Errorf("check failed with %d problem(s)", len(result.Errors))
	}
	return nil
}
