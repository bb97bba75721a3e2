package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapterm/pkg/adapter"
	"github.com/leapstack-labs/leapterm/pkg/dialect"
)

var outputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks the target type against the adapter registry.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	// Use adapter registry as single source of truth
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := dialect.Lookup(c.Dialect); err != nil {
		return err
	}

	switch c.Catalog {
	case CatalogFile:
		// schema_file is checked when a command needs a catalog so that
		// dialects and render work without one.
	case CatalogTarget:
		if c.Target == nil {
			return fmt.Errorf("catalog %q requires a target", c.Catalog)
		}
		if err := c.Target.Validate(); err != nil {
			return fmt.Errorf("invalid target configuration: %w", err)
		}
	case CatalogSnapshot:
		if c.StatePath == "" {
			return fmt.Errorf("catalog %q requires state_path", c.Catalog)
		}
	default:
		return fmt.Errorf("unknown catalog %q (expected %s, %s or %s)",
			c.Catalog, CatalogFile, CatalogTarget, CatalogSnapshot)
	}

	for _, m := range outputModes {
		if c.OutputFormat == m {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (expected one of %s)",
		c.OutputFormat, strings.Join(outputModes, ", "))
}
