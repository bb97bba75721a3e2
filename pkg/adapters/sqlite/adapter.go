package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapterm/pkg/adapter"
	"github.com/leapstack-labs/leapterm/pkg/dialect"
	sqlitedialect "github.com/leapstack-labs/leapterm/pkg/dialects/sqlite"
	"github.com/leapstack-labs/leapterm/pkg/schema"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return sqlitedialect.SQLite
}

// Connect opens the database file. An empty path opens an in-memory
// database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := parseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", buildDSN(path, params))
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	// Each connection to :memory: is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// GetTableMetadata reads declared column types with pragma_table_info.
// SQLite has no information_schema.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*schema.Table, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}

	schemaName, tableName := a.QualifiedName(table, sqlitedialect.SQLite)

	rows, err := a.DB.QueryContext(ctx,
		`SELECT name, type, "notnull", cid FROM pragma_table_info(?, ?) ORDER BY cid`,
		tableName, schemaName)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []schema.Column
	for rows.Next() {
		var (
			name, declared string
			notNull, cid   int
		)
		if err := rows.Scan(&name, &declared, &notNull, &cid); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		columns = append(columns, schema.NewColumn(sqlitedialect.SQLite, name, declared, notNull == 0, cid+1))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	return a.Table(schemaName, tableName, columns)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
