package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/leapstack-labs/leapterm/pkg/adapter"
	"github.com/leapstack-labs/leapterm/pkg/dialect"
	pgdialect "github.com/leapstack-labs/leapterm/pkg/dialects/postgres"
	"github.com/leapstack-labs/leapterm/pkg/schema"
)

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Dialect returns the PostgreSQL dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return pgdialect.Postgres
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildPostgresDSN(cfg)

	a.Logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}
	if name, ok := cfg.Options["application_name"]; ok {
		dsn += fmt.Sprintf(" application_name=%s", name)
	}

	return dsn
}

// information_schema reports every array as "ARRAY" and domains or enums as
// "USER-DEFINED"; udt_name carries the element type (_int4, _text).
const columnsQuery = `
	SELECT
		column_name,
		data_type,
		udt_name,
		is_nullable,
		ordinal_position
	FROM information_schema.columns
	WHERE table_schema = $1 AND table_name = $2
	ORDER BY ordinal_position
`

// GetTableMetadata retrieves column metadata for a table.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*schema.Table, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}

	schemaName, tableName := a.QualifiedName(table, pgdialect.Postgres)

	rows, err := a.DB.QueryContext(ctx, columnsQuery, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []schema.Column
	for rows.Next() {
		var (
			name, dataType, udtName, nullable string
			position                          int
		)
		if err := rows.Scan(&name, &dataType, &udtName, &nullable, &position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		native := dataType
		if dataType == "ARRAY" || dataType == "USER-DEFINED" {
			native = udtName
		}
		columns = append(columns, schema.NewColumn(pgdialect.Postgres, name, native, nullable == "YES", position))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	return a.Table(schemaName, tableName, columns)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
