package commands

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/leapstack-labs/leapterm/internal/cli/config"
	clitestutil "github.com/leapstack-labs/leapterm/internal/cli/testutil"
	"github.com/leapstack-labs/leapterm/internal/testutil"
	"github.com/leapstack-labs/leapterm/pkg/parser"
	"github.com/leapstack-labs/leapterm/pkg/term"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/leapterm/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/leapterm/pkg/dialects/ansi"
	_ "github.com/leapstack-labs/leapterm/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/leapterm/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/leapterm/pkg/dialects/sqlite"
)

func fileConfig(t *testing.T, dialectName, out string) *config.Config {
	t.Helper()
	return &config.Config{
		Dialect:      dialectName,
		SchemaFile:   clitestutil.SchemaFile(t),
		Catalog:      config.CatalogFile,
		StatePath:    filepath.Join(t.TempDir(), "state.db"),
		OutputFormat: out,
	}
}

// execute runs cmd with cfg in its context and returns stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx := WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func decodeJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewRenderCommand(), "render <literal>", []string{"type"}},
		{NewCheckCommand(), "check <table>", []string{"set", "columns", "values"}},
		{NewBindCommand(), "bind <table>", []string{"set", "columns", "values", "inline"}},
		{NewSnapshotCommand(), "snapshot", nil},
		{NewDialectsCommand(), "dialects", nil},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}

	var names []string
	for _, sub := range NewSnapshotCommand().Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"save", "list"}, names)
}

func TestExampleSetClausesParse(t *testing.T) {
	setFlag := regexp.MustCompile(`--set "([^"]*)"`)

	var clauses []string
	for _, cmd := range []*cobra.Command{NewCheckCommand(), NewBindCommand()} {
		for _, m := range setFlag.FindAllStringSubmatch(cmd.Example, -1) {
			clauses = append(clauses, m[1])
		}
	}
	require.Len(t, clauses, 3)

	for _, clause := range clauses {
		t.Run(clause, func(t *testing.T) {
			_, err := parser.ParseAssignments(clause)
			assert.NoError(t, err)
		})
	}
}

func TestGetConfig_Defaults(t *testing.T) {
	cfg := GetConfig(context.Background())
	assert.Equal(t, config.DefaultDialect, cfg.Dialect)
	assert.Equal(t, config.CatalogFile, cfg.Catalog)
	assert.Equal(t, config.DefaultStateFile, cfg.StatePath)
}

func TestRender(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, _, err := execute(t, NewRenderCommand(), fileConfig(t, "postgres", "json"), "['a', 'b']")
		require.NoError(t, err)

		got := decodeJSON[RenderOutput](t, out)
		assert.Equal(t, "collection", got.Kind)
		assert.Equal(t, "Array<String>", got.Type)
		assert.Equal(t, "['a', 'b']", got.Canonical)
		assert.Equal(t, "postgres", got.Dialect)
		assert.Equal(t, "ARRAY['a', 'b']", got.Literal)
		assert.Equal(t, `["a","b"]`, got.JSON)
	})

	t.Run("markdown table", func(t *testing.T) {
		out, _, err := execute(t, NewRenderCommand(), fileConfig(t, "duckdb", "markdown"), "DATE '2024-01-31'")
		require.NoError(t, err)
		assert.Contains(t, out, "| kind | simple |")
		assert.Contains(t, out, "| type | Date |")
		assert.Contains(t, out, "| duckdb | DATE '2024-01-31' |")
		clitestutil.AssertNoANSI(t, out)
	})

	t.Run("empty array needs a type", func(t *testing.T) {
		_, _, err := execute(t, NewRenderCommand(), fileConfig(t, "postgres", "json"), "[]")
		require.ErrorIs(t, err, term.ErrUnresolvedType)
	})

	t.Run("native type hint", func(t *testing.T) {
		out, _, err := execute(t, NewRenderCommand(), fileConfig(t, "postgres", "json"), "[]", "--type", "text[]")
		require.NoError(t, err)

		got := decodeJSON[RenderOutput](t, out)
		assert.Equal(t, "Array<String>", got.Type)
		assert.Equal(t, "ARRAY[]::text[]", got.Literal)
		assert.Equal(t, "[]", got.JSON)
	})

	t.Run("invalid type hint", func(t *testing.T) {
		_, _, err := execute(t, NewRenderCommand(), fileConfig(t, "postgres", "json"), "[]", "--type", "geometry")
		require.ErrorContains(t, err, "invalid --type")
	})

	t.Run("parse error", func(t *testing.T) {
		_, _, err := execute(t, NewRenderCommand(), fileConfig(t, "ansi", "json"), "[1,")
		require.Error(t, err)
	})
}

func TestCheck(t *testing.T) {
	t.Run("valid update", func(t *testing.T) {
		out, _, err := execute(t, NewCheckCommand(), fileConfig(t, "postgres", "json"),
			"users", "--set", "name = 'ada', tags = []")
		require.NoError(t, err)

		got := decodeJSON[CheckOutput](t, out)
		assert.True(t, got.Valid)
		assert.Equal(t, "UPDATE", got.Statement)
		assert.Equal(t, "public.users", got.Table)
		assert.Equal(t, []string{"name", "tags"}, got.Columns)
		assert.Equal(t, 1, got.Rows)
		assert.Empty(t, got.Errors)
	})

	t.Run("valid insert", func(t *testing.T) {
		out, _, err := execute(t, NewCheckCommand(), fileConfig(t, "postgres", "json"),
			"users", "--columns", "id,name", "--values", "(1, 'ada'), (2, 'bob')")
		require.NoError(t, err)

		got := decodeJSON[CheckOutput](t, out)
		assert.True(t, got.Valid)
		assert.Equal(t, "INSERT", got.Statement)
		assert.Equal(t, 2, got.Rows)
	})

	t.Run("every problem is reported", func(t *testing.T) {
		out, _, err := execute(t, NewCheckCommand(), fileConfig(t, "postgres", "json"),
			"users", "--set", "id = NULL, nope = 1, doc = 'x'")
		require.ErrorContains(t, err, "check failed with 3 problem(s)")

		got := decodeJSON[CheckOutput](t, out)
		assert.False(t, got.Valid)
		require.Len(t, got.Errors, 3)
		assert.Contains(t, got.Errors[0], "id")
		assert.Contains(t, got.Errors[1], "nope")
		assert.Contains(t, got.Errors[2], "doc")
	})

	t.Run("markdown failure", func(t *testing.T) {
		out, _, err := execute(t, NewCheckCommand(), fileConfig(t, "postgres", "markdown"),
			"audit.events", "--set", "amount = 'lots'")
		require.Error(t, err)
		assert.Contains(t, out, "## UPDATE audit.events")
		assert.Contains(t, out, "- **FAIL**")
		assert.Contains(t, out, "'lots'")
		clitestutil.AssertValidMarkdown(t, out)
	})

	t.Run("unknown table", func(t *testing.T) {
		out, _, err := execute(t, NewCheckCommand(), fileConfig(t, "postgres", "json"),
			"ghost", "--set", "a = 1")
		require.Error(t, err)

		got := decodeJSON[CheckOutput](t, out)
		require.Len(t, got.Errors, 1)
		assert.Contains(t, got.Errors[0], "table ghost not found")
	})

	t.Run("set or values required", func(t *testing.T) {
		_, _, err := execute(t, NewCheckCommand(), fileConfig(t, "postgres", "json"), "users")
		require.ErrorContains(t, err, "at least one of the flags")
	})

	t.Run("set and values are exclusive", func(t *testing.T) {
		_, _, err := execute(t, NewCheckCommand(), fileConfig(t, "postgres", "json"),
			"users", "--set", "id = 1", "--values", "(1)")
		require.ErrorContains(t, err, "none of the others can be")
	})

	t.Run("no schema file", func(t *testing.T) {
		cfg := fileConfig(t, "postgres", "json")
		cfg.SchemaFile = ""
		_, _, err := execute(t, NewCheckCommand(), cfg, "users", "--set", "id = 1")
		require.ErrorContains(t, err, "no schema file configured")
	})
}

func TestBind(t *testing.T) {
	t.Run("params", func(t *testing.T) {
		out, _, err := execute(t, NewBindCommand(), fileConfig(t, "postgres", "json"),
			"users", "--set", "name = 'ada', tags = ['a']")
		require.NoError(t, err)

		got := decodeJSON[BindOutput](t, out)
		assert.Equal(t, "postgres", got.Dialect)
		assert.Equal(t, "UPDATE public.users\nSET\n  name = $1,\n  tags = $2\n", got.SQL)
		require.Len(t, got.Args, 2)
		assert.Equal(t, "ada", got.Args[0])
		assert.Equal(t, []any{"a"}, got.Args[1])
	})

	t.Run("inline", func(t *testing.T) {
		out, _, err := execute(t, NewBindCommand(), fileConfig(t, "postgres", "json"),
			"users", "--inline", "--set", "tags = ['a']")
		require.NoError(t, err)

		got := decodeJSON[BindOutput](t, out)
		assert.Equal(t, "UPDATE public.users\nSET\n  tags = ARRAY['a']\n", got.SQL)
		assert.Empty(t, got.Args)
	})

	t.Run("markdown lists arguments", func(t *testing.T) {
		out, _, err := execute(t, NewBindCommand(), fileConfig(t, "postgres", "markdown"),
			"users", "--columns", "id", "--values", "(7)")
		require.NoError(t, err)
		assert.Contains(t, out, "```sql\nINSERT INTO public.users (id)")
		assert.Contains(t, out, "| 1 | 7 | int64 |")
		clitestutil.AssertValidMarkdown(t, out)
	})

	t.Run("invalid statement", func(t *testing.T) {
		out, _, err := execute(t, NewBindCommand(), fileConfig(t, "postgres", "markdown"),
			"users", "--set", "id = 'x'")
		require.ErrorContains(t, err, "cannot bind statement on users")
		assert.Contains(t, out, "- **FAIL**")
	})
}

func TestSnapshot(t *testing.T) {
	cfg := fileConfig(t, "postgres", "json")

	out, _, err := execute(t, NewSnapshotCommand(), cfg, "list")
	require.NoError(t, err)
	assert.Empty(t, decodeJSON[[]SnapshotOutput](t, out))

	out, _, err = execute(t, NewSnapshotCommand(), cfg, "save")
	require.NoError(t, err)
	saved := decodeJSON[SnapshotOutput](t, out)
	assert.Equal(t, 2, saved.Tables)
	assert.Equal(t, "file:"+cfg.SchemaFile, saved.Source)
	assert.NotEmpty(t, saved.ID)

	out, _, err = execute(t, NewSnapshotCommand(), cfg, "save", "users")
	require.NoError(t, err)
	second := decodeJSON[SnapshotOutput](t, out)
	assert.Equal(t, 1, second.Tables)

	out, _, err = execute(t, NewSnapshotCommand(), cfg, "list")
	require.NoError(t, err)
	list := decodeJSON[[]SnapshotOutput](t, out)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, saved.ID, list[1].ID)

	// Checks can now run against the snapshot without the schema file.
	snapCfg := *cfg
	snapCfg.Catalog = config.CatalogSnapshot
	snapCfg.SchemaFile = ""

	out, _, err = execute(t, NewCheckCommand(), &snapCfg, "audit.events", "--set", "amount = DECIMAL '9.99'")
	require.NoError(t, err)
	assert.True(t, decodeJSON[CheckOutput](t, out).Valid)

	_, _, err = execute(t, NewSnapshotCommand(), &snapCfg, "save")
	require.ErrorContains(t, err, "needs a file or target catalog")
}

func TestSnapshot_ListMarkdownEmpty(t *testing.T) {
	out, _, err := execute(t, NewSnapshotCommand(), fileConfig(t, "ansi", "markdown"), "list")
	require.NoError(t, err)
	assert.Equal(t, "_no snapshots saved_\n", out)
}

func TestDialects(t *testing.T) {
	out, _, err := execute(t, NewDialectsCommand(), fileConfig(t, "ansi", "json"))
	require.NoError(t, err)

	list := decodeJSON[[]DialectOutput](t, out)
	byName := make(map[string]DialectOutput)
	for _, d := range list {
		byName[d.Name] = d
	}
	require.Contains(t, byName, "postgres")
	require.Contains(t, byName, "duckdb")
	require.Contains(t, byName, "sqlite")
	require.Contains(t, byName, "ansi")

	assert.Equal(t, "$1", byName["postgres"].Placeholder)
	assert.Equal(t, "public", byName["postgres"].DefaultSchema)
	assert.True(t, byName["postgres"].NativeArrays)
	assert.Equal(t, "?", byName["duckdb"].Placeholder)
	assert.Equal(t, "list", byName["duckdb"].Collections)
	assert.Equal(t, "json", byName["sqlite"].Collections)
}

func TestCheck_SQLiteTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE people (id INTEGER NOT NULL, name TEXT, age INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cfg := &config.Config{
		Dialect:      "sqlite",
		Catalog:      config.CatalogTarget,
		StatePath:    filepath.Join(t.TempDir(), "state.db"),
		OutputFormat: "json",
		Target:       &config.TargetConfig{Type: "sqlite", Database: path, Schema: "main"},
	}

	out, _, err := execute(t, NewCheckCommand(), cfg, "people", "--set", "name = 'ada', age = 36")
	require.NoError(t, err)
	got := decodeJSON[CheckOutput](t, out)
	assert.True(t, got.Valid)
	assert.Equal(t, "main.people", got.Table)

	out, _, err = execute(t, NewCheckCommand(), cfg, "people", "--set", "age = 'old'")
	require.Error(t, err)
	assert.False(t, decodeJSON[CheckOutput](t, out).Valid)

	out, _, err = execute(t, NewSnapshotCommand(), cfg, "save", "people")
	require.NoError(t, err)
	saved := decodeJSON[SnapshotOutput](t, out)
	assert.Equal(t, "sqlite:"+path, saved.Source)
	assert.Equal(t, 1, saved.Tables)

	_, _, err = execute(t, NewSnapshotCommand(), cfg, "save")
	require.ErrorContains(t, err, "name the tables to snapshot")
}
