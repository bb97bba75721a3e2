package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/leapterm/internal/cli/config"
	"github.com/leapstack-labs/leapterm/internal/cli/output"
	"github.com/leapstack-labs/leapterm/internal/store"
	"github.com/leapstack-labs/leapterm/pkg/adapter"
	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/schema"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Dialect  *dialect.Dialect
	Catalog  schema.Catalog
}

type configKey struct{}

// WithConfig stores the loaded configuration in ctx.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig returns the configuration stored in ctx, or the defaults when
// the command runs without the root command (tests).
func GetConfig(ctx context.Context) *config.Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return c
		}
	}
	return &config.Config{
		Dialect:      config.DefaultDialect,
		Catalog:      config.CatalogFile,
		StatePath:    config.DefaultStateFile,
		OutputFormat: config.DefaultOutput,
	}
}

// NewCommandContextWithoutCatalog creates a CommandContext for commands that
// only need the dialect.
func NewCommandContextWithoutCatalog(cmd *cobra.Command) (*CommandContext, error) {
	cfg := GetConfig(cmd.Context())
	d, err := dialect.Lookup(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
		Dialect:  d,
	}, nil
}

// NewCommandContext creates a CommandContext with the configured catalog
// opened. Returns the context and a cleanup function that must be called
// (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx, err := NewCommandContextWithoutCatalog(cmd)
	if err != nil {
		return nil, nil, err
	}

	cat, cleanup, err := openCatalog(cmd.Context(), cmdCtx)
	if err != nil {
		return nil, nil, err
	}
	cmdCtx.Catalog = cat
	return cmdCtx, cleanup, nil
}

func openCatalog(ctx context.Context, c *CommandContext) (schema.Catalog, func(), error) {
	noop := func() {}
	cfg := c.Cfg

	switch cfg.Catalog {
	case config.CatalogTarget:
		a, err := connectTarget(ctx, cfg, c.Logger)
		if err != nil {
			return nil, nil, err
		}
		return adapter.NewCatalog(a), func() { _ = a.Close() }, nil

	case config.CatalogSnapshot:
		st, err := openStore(cfg.StatePath, c.Logger)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil

	default:
		if cfg.SchemaFile == "" {
			return nil, nil, errors.New("no schema file configured (set schema_file or --schema-file)")
		}
		fc, err := schema.LoadFile(cfg.SchemaFile, c.Dialect)
		if err != nil {
			return nil, nil, err
		}
		c.Logger.Debug("loaded schema file",
			slog.String("path", cfg.SchemaFile),
			slog.Int("tables", len(fc.Tables())))
		return fc, noop, nil
	}
}

func connectTarget(ctx context.Context, cfg *config.Config, logger *slog.Logger) (adapter.Adapter, error) {
	if cfg.Target == nil {
		return nil, errors.New("no target configured")
	}
	acfg := cfg.Target.AdapterConfig()
	a, err := adapter.NewAdapter(acfg, logger)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, acfg); err != nil {
		return nil, fmt.Errorf("failed to connect to %s target: %w", acfg.Type, err)
	}
	logger.Debug("connected to target", slog.String("type", acfg.Type))
	return a, nil
}

func openStore(path string, logger *slog.Logger) (*store.Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}
	return store.Open(path, logger)
}
