package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configNames are the file names searched for in the working directory.
var configNames = []string{"leapterm.yaml", "leapterm.yml"}

// flagKeys bridges flag names that differ from their config keys.
var flagKeys = map[string]string{
	"state":       "state_path",
	"target-type": "target.type",
	"database":    "target.database",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > leapterm.yaml > leapterm.yml
func findConfigFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, ":memory:" or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Load loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Relative paths from the config file resolve against the file's directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"catalog":    DefaultCatalog,
		"state_path": DefaultStateFile,
		"verbose":    false,
		"output":     DefaultOutput,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	cwd, _ := os.Getwd()
	baseDir := cwd
	used := findConfigFile(cfgFile, cwd)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
		if abs, err := filepath.Abs(used); err == nil {
			baseDir = filepath.Dir(abs)
		}
	}

	// 3. Load environment variables (LEAPTERM_ prefix)
	// Transform: LEAPTERM_SCHEMA_FILE -> schema_file, LEAPTERM_TARGET__USER -> target.user
	if err := k.Load(env.Provider("LEAPTERM_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	var flagPaths map[string]bool
	if flags != nil {
		flagPaths = make(map[string]bool)
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				// Transform kebab-case to snake_case for config keys
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			flagPaths[key] = true
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = used

	// 6. Resolve relative paths. Flag values are relative to the working
	// directory, everything else to the config file.
	resolve := func(key, path string) string {
		if flagPaths[key] {
			return resolvePathRelativeTo(path, cwd)
		}
		return resolvePathRelativeTo(path, baseDir)
	}
	cfg.SchemaFile = resolve("schema_file", cfg.SchemaFile)
	cfg.StatePath = resolve("state_path", cfg.StatePath)

	if cfg.Target != nil {
		cfg.Target.ApplyDefaults()
		expandTargetEnvVars(cfg.Target)
		if isFileDatabase(cfg.Target.Type) {
			cfg.Target.Database = resolve("target.database", cfg.Target.Database)
		}
	}

	// The dialect follows the target unless set explicitly.
	if cfg.Dialect == "" {
		cfg.Dialect = DefaultDialect
		if cfg.Target != nil && cfg.Target.Type != "" {
			cfg.Dialect = cfg.Target.Type
		}
	}
	cfg.Dialect = strings.ToLower(cfg.Dialect)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "LEAPTERM_"))
	return strings.ReplaceAll(s, "__", ".")
}

func isFileDatabase(dbType string) bool {
	return dbType == "duckdb" || dbType == "sqlite"
}

// WithLogger stores the logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR}
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
	for k, v := range t.Options {
		t.Options[k] = expandEnvVars(v)
	}
}
