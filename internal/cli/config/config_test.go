package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Register adapters and dialects via init()
	_ "github.com/leapstack-labs/leapterm/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapterm/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapterm/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/leapterm/pkg/dialects/ansi"
)

const testdataDir = "../testdata"

// TestTargetConfig_Validate tests the Validate method of TargetConfig.
func TestTargetConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		target    TargetConfig
		wantErr   bool
		errSubstr string
	}{
		{
			name:      "empty type",
			target:    TargetConfig{Type: ""},
			wantErr:   true,
			errSubstr: "target type is required",
		},
		{
			name:   "valid duckdb",
			target: TargetConfig{Type: "duckdb"},
		},
		{
			name:   "valid duckdb uppercase",
			target: TargetConfig{Type: "DuckDB"},
		},
		{
			name:   "valid postgres",
			target: TargetConfig{Type: "postgres"},
		},
		{
			name:   "valid sqlite",
			target: TargetConfig{Type: "sqlite"},
		},
		{
			name:      "unknown type mysql",
			target:    TargetConfig{Type: "mysql"},
			wantErr:   true,
			errSubstr: "unknown adapter type",
		},
		{
			name:      "dialect without adapter",
			target:    TargetConfig{Type: "ansi"},
			wantErr:   true,
			errSubstr: "unknown adapter type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr {
				require.Error(t, err, "expected error but got nil")
				assert.Contains(t, err.Error(), tt.errSubstr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestTargetConfig_Validate_ErrorContainsAvailable verifies that validation errors
// include the list of available adapters.
func TestTargetConfig_Validate_ErrorContainsAvailable(t *testing.T) {
	target := TargetConfig{Type: "invalid_db"}
	err := target.Validate()
	require.Error(t, err, "expected error for invalid type")

	errStr := err.Error()
	assert.Contains(t, errStr, "duckdb", "error should list available adapters")
	assert.Contains(t, errStr, "leapterm.yaml", "error should mention config file")
}

func TestDefaultSchemaForType(t *testing.T) {
	tests := []struct {
		dbType   string
		expected string
	}{
		{"duckdb", "main"},
		{"DUCKDB", "main"},
		{"postgres", "public"},
		{"sqlite", "main"},
		{"postgresql", "main"},
		{"", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultSchemaForType(tt.dbType))
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${TEST_VAR_ONE}", "value_one"},
		{"multiple variables", "${TEST_VAR_ONE}/${TEST_VAR_TWO}", "value_one/value_two"},
		{"unset variable stays as-is", "${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"no variables", "plain string", "plain string"},
		{"empty string", "", ""},
		{"mixed set and unset", "${TEST_VAR_ONE}:${UNSET_VAR}", "value_one:${UNSET_VAR}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestTargetConfig_ApplyDefaults(t *testing.T) {
	t.Run("sets default schema for postgres", func(t *testing.T) {
		target := &TargetConfig{Type: "Postgres"}
		target.ApplyDefaults()
		assert.Equal(t, "postgres", target.Type)
		assert.Equal(t, "public", target.Schema)
		assert.Equal(t, 5432, target.Port)
	})

	t.Run("preserves existing schema", func(t *testing.T) {
		target := &TargetConfig{Type: "duckdb", Schema: "custom"}
		target.ApplyDefaults()
		assert.Equal(t, "custom", target.Schema)
	})
}

func TestTargetConfig_AdapterConfig(t *testing.T) {
	target := &TargetConfig{
		Type:     "postgres",
		Database: "app",
		Host:     "db",
		Port:     5433,
		User:     "u",
		Password: "p",
		Schema:   "s",
		Options:  map[string]string{"sslmode": "require"},
		Params:   map[string]any{"x": 1},
	}
	cfg := target.AdapterConfig()
	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "app", cfg.Path)
	assert.Equal(t, "app", cfg.Database)
	assert.Equal(t, "u", cfg.Username)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "require", cfg.Options["sslmode"])
	assert.Equal(t, 1, cfg.Params["x"])
}

func TestLoad_Fixtures(t *testing.T) {
	t.Run("defaults without config file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Load("", nil)
		require.NoError(t, err)

		assert.Equal(t, DefaultDialect, cfg.Dialect)
		assert.Equal(t, CatalogFile, cfg.Catalog)
		assert.Equal(t, DefaultOutput, cfg.OutputFormat)
		assert.Empty(t, cfg.ConfigFile)
		assert.Nil(t, cfg.Target)
		assert.True(t, filepath.IsAbs(cfg.StatePath))
	})

	t.Run("valid duckdb config", func(t *testing.T) {
		cfg, err := Load(filepath.Join(testdataDir, "valid_duckdb.yaml"), nil)
		require.NoError(t, err)

		assert.Equal(t, "duckdb", cfg.Target.Type)
		assert.Equal(t, ":memory:", cfg.Target.Database)
		assert.Equal(t, "main", cfg.Target.Schema)
		assert.Equal(t, "duckdb", cfg.Dialect, "dialect follows the target")
	})

	t.Run("paths resolve against the config file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(testdataDir, "valid_schema_file.yaml"), nil)
		require.NoError(t, err)

		absTestdata, err := filepath.Abs(testdataDir)
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Dialect)
		assert.Equal(t, filepath.Join(absTestdata, "schema.yaml"), cfg.SchemaFile)
		assert.Equal(t, filepath.Join(absTestdata, "state", "leapterm.db"), cfg.StatePath)
		assert.Equal(t, "json", cfg.OutputFormat)
	})

	t.Run("config with env vars", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "db.internal")
		t.Setenv("TEST_DB_USER", "testuser")
		t.Setenv("TEST_DB_PASSWORD", "secret123")

		cfg, err := Load(filepath.Join(testdataDir, "valid_postgres_env.yaml"), nil)
		require.NoError(t, err)

		assert.Equal(t, "db.internal", cfg.Target.Host)
		assert.Equal(t, "testuser", cfg.Target.User)
		assert.Equal(t, "secret123", cfg.Target.Password)
		assert.Equal(t, "app", cfg.Target.Database, "network database names are not paths")
		assert.Equal(t, "require", cfg.Target.Options["sslmode"])
		assert.Equal(t, 5432, cfg.Target.Port)
	})

	t.Run("invalid unknown type", func(t *testing.T) {
		_, err := Load(filepath.Join(testdataDir, "invalid_unknown_type.yaml"), nil)
		require.Error(t, err, "expected error for unknown type")
		assert.Contains(t, err.Error(), "invalid target configuration")
		assert.Contains(t, err.Error(), "mysql")
	})

	t.Run("invalid empty type", func(t *testing.T) {
		_, err := Load(filepath.Join(testdataDir, "invalid_empty_type.yaml"), nil)
		require.Error(t, err, "expected error for empty type")
		assert.Contains(t, err.Error(), "target type is required")
	})

	t.Run("invalid catalog", func(t *testing.T) {
		_, err := Load(filepath.Join(testdataDir, "invalid_catalog.yaml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown catalog "warehouse"`)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(testdataDir, "nope.yaml"), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})
}

func TestLoad_FindsConfigInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leapterm.yml"), []byte("dialect: sqlite\n"), 0600))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, filepath.Join(dir, "leapterm.yml"), cfg.ConfigFile)
}

func TestLoad_UnknownDialect(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEAPTERM_DIALECT", "oracle")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestLoad_UnknownOutput(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEAPTERM_OUTPUT", "xml")

	_, err := Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "leapterm.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))
	return cfgPath
}

// TestLoad_FlagPrecedence tests that flags override env vars and config file.
func TestLoad_FlagPrecedence(t *testing.T) {
	cfgPath := writeConfig(t, "dialect: duckdb\n")
	t.Setenv("LEAPTERM_DIALECT", "sqlite")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "", "dialect")
	require.NoError(t, flags.Set("dialect", "postgres"))

	cfg, err := Load(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Dialect, "flag value should override config file and env var")
}

// TestLoad_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoad_EnvPrecedenceOverFile(t *testing.T) {
	cfgPath := writeConfig(t, "dialect: duckdb\n")
	t.Setenv("LEAPTERM_DIALECT", "sqlite")

	cfg, err := Load(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect, "env var should override config file")
}

// TestLoad_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoad_FlagNotSetUsesEnv(t *testing.T) {
	cfgPath := writeConfig(t, "dialect: duckdb\n")
	t.Setenv("LEAPTERM_DIALECT", "sqlite")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "", "dialect")

	cfg, err := Load(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect, "env var should be used when flag is not set")
}

func TestLoad_NestedEnvAndMappedFlags(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)
	cfgPath := writeConfig(t, "catalog: target\ntarget:\n  type: duckdb\n")
	t.Setenv("LEAPTERM_TARGET__SCHEMA", "analytics")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state", "", "state path")
	flags.String("database", "", "database")
	require.NoError(t, flags.Set("state", "custom.db"))
	require.NoError(t, flags.Set("database", "local.duckdb"))

	cfg, err := Load(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "analytics", cfg.Target.Schema)
	assert.Equal(t, filepath.Join(work, "custom.db"), cfg.StatePath, "flag paths resolve against the working directory")
	assert.Equal(t, filepath.Join(work, "local.duckdb"), cfg.Target.Database)
}
