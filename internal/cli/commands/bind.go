package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapterm/internal/cli/output"
	"github.com/leapstack-labs/leapterm/pkg/bind"
	"github.com/leapstack-labs/leapterm/pkg/statement"
	"github.com/spf13/cobra"
)

// BindOutput is the JSON form of a bound statement.
type BindOutput struct {
	Dialect string `json:"dialect"`
	SQL     string `json:"sql"`
	Args    []any  `json:"args,omitempty"`
}

// NewBindCommand creates the bind command.
func NewBindCommand() *cobra.Command {
	var (
		flags  statementFlags
		inline bool
	)

	cmd := &cobra.Command{
		Use:   "bind <table>",
		Short: "Render a validated statement with driver parameters",
		Long: `Validate an UPDATE or INSERT against the catalog, then render it for the
configured dialect.

By default literals become placeholders ($1 for postgres, ? elsewhere) and
the driver arguments are listed in order. With --inline, literals are
written in the dialect's native syntax instead.`,
		Example: `  # Bind an update for postgres
  leapterm bind users --dialect postgres --set "tags = ['a'], name = 'ada'"

  # Inline literals for duckdb
  leapterm bind users --dialect duckdb --inline --values "(1, 'ada', [])"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBind(cmd, args[0], &flags, inline)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&inline, "inline", false, "Write literals inline instead of as parameters")

	return cmd
}

func runBind(cmd *cobra.Command, table string, flags *statementFlags, inline bool) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	d := cmdCtx.Dialect

	b := statement.NewBuilder(cmdCtx.Catalog, cmdCtx.Logger)
	stmt, err := b.Build(cmd.Context(), flags.request(table))
	if err != nil {
		for _, p := range problems(err) {
			r.Error(p.Error())
		}
		return fmt.Errorf("cannot bind statement on %s", table)
	}

	result := BindOutput{Dialect: d.Name}
	if inline {
		result.SQL, err = bind.Inline(stmt, d)
	} else {
		var q *bind.Query
		q, err = bind.Params(stmt, d)
		if q != nil {
			result.SQL, result.Args = q.SQL, q.Args
		}
	}
	if err != nil {
		return fmt.Errorf("failed to render statement for %s: %w", d.Name, err)
	}

	cmdCtx.Logger.Debug("bound statement",
		"id", stmt.ID.String(),
		"dialect", d.Name,
		"args", len(result.Args))

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(result)
	default:
		r.Code(result.SQL)
		if len(result.Args) > 0 {
			r.Println()
			rows := make([][]string, len(result.Args))
			for i, arg := range result.Args {
				rows[i] = []string{strconv.Itoa(i + 1), argText(arg), fmt.Sprintf("%T", arg)}
			}
			r.Table([]string{"#", "value", "go type"}, rows)
		}
	}
	return nil
}

// argText shows an argument as JSON so pointer slices print their values.
func argText(arg any) string {
	b, err := json.Marshal(arg)
	if err != nil {
		return fmt.Sprintf("%v", arg)
	}
	return string(b)
}
