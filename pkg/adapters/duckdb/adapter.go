package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/leapterm/pkg/adapter"
	"github.com/leapstack-labs/leapterm/pkg/dialect"
	duckdbdialect "github.com/leapstack-labs/leapterm/pkg/dialects/duckdb"
	"github.com/leapstack-labs/leapterm/pkg/schema"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the DuckDB dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return duckdbdialect.DuckDB
}

// Connect establishes a connection to DuckDB and applies params.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("connecting to duckdb", slog.String("path", path))

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	// Settings and secrets are per connection.
	db.SetMaxOpenConns(1)

	if err := a.apply(ctx, db, params); err != nil {
		_ = db.Close()
		return err
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

func (a *Adapter) apply(ctx context.Context, db *sql.DB, p *Params) error {
	for _, ext := range p.Extensions {
		a.Logger.Debug("loading extension", slog.String("extension", ext))
		if _, err := db.ExecContext(ctx, "INSTALL "+ext); err != nil {
			return fmt.Errorf("failed to install extension %s: %w", ext, err)
		}
		if _, err := db.ExecContext(ctx, "LOAD "+ext); err != nil {
			return fmt.Errorf("failed to load extension %s: %w", ext, err)
		}
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmt := fmt.Sprintf("SET %s = %s", k, quote(p.Settings[k]))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", k, err)
		}
	}

	for i, s := range p.Secrets {
		if _, err := db.ExecContext(ctx, buildCreateSecretSQL(s)); err != nil {
			return fmt.Errorf("failed to create secret %d (%s): %w", i, s.Type, err)
		}
	}
	return nil
}

// GetTableMetadata retrieves column metadata for a table from
// information_schema. DuckDB reports lists as VARCHAR[] and maps as
// MAP(K, V), which the dialect resolves directly.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*schema.Table, error) {
	return a.GetTableMetadataCommon(ctx, table, duckdbdialect.DuckDB)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
