package commands

import (
	"fmt"

	"github.com/leapstack-labs/leapterm/internal/cli/output"
	"github.com/leapstack-labs/leapterm/pkg/format"
	"github.com/leapstack-labs/leapterm/pkg/parser"
	"github.com/leapstack-labs/leapterm/pkg/term"
	"github.com/leapstack-labs/leapterm/pkg/types"
	"github.com/spf13/cobra"
)

// RenderOutput is the JSON form of a rendered literal.
type RenderOutput struct {
	Input        string `json:"input"`
	Kind         string `json:"kind"`
	Type         string `json:"type"`
	Canonical    string `json:"canonical"`
	Dialect      string `json:"dialect"`
	Literal      string `json:"literal,omitempty"`
	LiteralError string `json:"literal_error,omitempty"`
	JSON         string `json:"json,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var typeHint string

	cmd := &cobra.Command{
		Use:   "render <literal>",
		Short: "Parse a literal and show its type and renderings",
		Long: `Parse a single literal and print its kind, resolved type, canonical text,
the native literal of the configured dialect and its JSON form.

Empty collections and collections of NULLs have no type of their own; pass
the column type with --type, either canonical (ARRAY<STRING>) or native to
the dialect (text[], VARCHAR[]).`,
		Example: `  # Typed literal
  leapterm render "DATE '2024-01-31'"

  # Empty array with a type hint, rendered for postgres
  leapterm render "[]" --type "text[]" --dialect postgres

  # Map as JSON
  leapterm render "{'a': 1, 'b': 2}" --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], typeHint)
		},
	}
	cmd.Flags().StringVar(&typeHint, "type", "", "Type hint for literals that cannot infer their own type")

	return cmd
}

func runRender(cmd *cobra.Command, input, typeHint string) error {
	cmdCtx, err := NewCommandContextWithoutCatalog(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	d := cmdCtx.Dialect

	var hint types.Descriptor
	if typeHint != "" {
		hint, err = d.ResolveNative(typeHint)
		if err != nil {
			return fmt.Errorf("invalid --type: %w", err)
		}
	}

	t, err := parser.ParseTermWithHint(input, hint)
	if err != nil {
		return err
	}

	result := RenderOutput{
		Input:     input,
		Kind:      t.Kind().String(),
		Type:      t.UnderlyingClass().String(),
		Canonical: t.Render(),
		Dialect:   d.Name,
	}
	if lit, err := format.Literal(t, d); err != nil {
		result.LiteralError = err.Error()
	} else {
		result.Literal = lit
	}
	if js, err := format.JSON(t); err == nil {
		result.JSON = string(js)
	}

	cmdCtx.Logger.Debug("rendered literal",
		"kind", result.Kind,
		"type", result.Type,
		"elements", elementCount(t))

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(result)
	default:
		rows := [][]string{
			{"kind", result.Kind},
			{"type", result.Type},
			{"canonical", result.Canonical},
			{d.Name, result.Literal},
			{"json", result.JSON},
		}
		r.Table([]string{"field", "value"}, rows)
		if result.LiteralError != "" {
			r.Warning(result.LiteralError)
		}
	}
	return nil
}

func elementCount(t term.Term) int {
	return term.Match(t,
		func(*term.SimpleTerm) int { return 0 },
		func(c *term.CollectionTerm) int { return c.Len() },
	)
}
