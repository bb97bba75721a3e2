// Package config loads CLI configuration from defaults, leapterm.yaml,
// LEAPTERM_* environment variables and command-line flags.
package config

import (
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/adapter"
	"github.com/leapstack-labs/leapterm/pkg/dialect"
)

// Catalog sources.
const (
	CatalogFile     = "file"
	CatalogTarget   = "target"
	CatalogSnapshot = "snapshot"
)

// Default configuration values.
const (
	DefaultDialect   = "ansi"
	DefaultCatalog   = CatalogFile
	DefaultStateFile = ".leapterm/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Config holds all CLI configuration options.
type Config struct {
	Dialect      string        `koanf:"dialect"`
	SchemaFile   string        `koanf:"schema_file"`
	Catalog      string        `koanf:"catalog"`
	StatePath    string        `koanf:"state_path"`
	OutputFormat string        `koanf:"output"`
	Verbose      bool          `koanf:"verbose"`
	Target       *TargetConfig `koanf:"target"`

	// ConfigFile is the file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// TargetConfig describes the datastore metadata is read from.
type TargetConfig struct {
	Type string `koanf:"type"` // duckdb, postgres, sqlite

	// File-based databases (DuckDB, SQLite)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	Schema string `koanf:"schema"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Adapter-specific params, decoded by each adapter
	Params map[string]any `koanf:"params"`
}

// ApplyDefaults fills the schema and port from the target type.
func (t *TargetConfig) ApplyDefaults() {
	t.Type = strings.ToLower(t.Type)
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Type == "postgres" && t.Port == 0 {
		t.Port = 5432
	}
}

// AdapterConfig converts the target to an adapter connection config.
func (t *TargetConfig) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     t.Type,
		Path:     t.Database,
		Database: t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
}

// DefaultSchemaForType returns the default schema of the dialect with the
// same name, or "main".
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(strings.ToLower(dbType)); ok && d.DefaultSchema != "" {
		return d.DefaultSchema
	}
	return "main"
}
