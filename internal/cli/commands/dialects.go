package commands

import (
	"strconv"

	"github.com/leapstack-labs/leapterm/internal/cli/output"
	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/spf13/cobra"
)

// DialectOutput describes a registered dialect.
type DialectOutput struct {
	Name          string `json:"name"`
	DefaultSchema string `json:"default_schema"`
	Placeholder   string `json:"placeholder"`
	Collections   string `json:"collections"`
	NativeArrays  bool   `json:"native_arrays"`
	Maps          bool   `json:"maps"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List registered SQL dialects",
		Args:  cobra.NoArgs,
		RunE:  runDialects,
	}
}

func runDialects(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContextWithoutCatalog(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	var list []DialectOutput
	for _, name := range dialect.List() {
		d, ok := dialect.Get(name)
		if !ok {
			continue
		}
		list = append(list, DialectOutput{
			Name:          d.Name,
			DefaultSchema: d.DefaultSchema,
			Placeholder:   d.FormatPlaceholder(1),
			Collections:   d.Collections.String(),
			NativeArrays:  d.NativeArrays,
			Maps:          d.MapValues || d.JSONType != "",
		})
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(list)
	}

	rows := make([][]string, len(list))
	for i, d := range list {
		rows[i] = []string{d.Name, d.DefaultSchema, d.Placeholder, d.Collections,
			strconv.FormatBool(d.NativeArrays), strconv.FormatBool(d.Maps)}
	}
	r.Table([]string{"dialect", "default schema", "placeholder", "collections", "native arrays", "maps"}, rows)
	return nil
}
