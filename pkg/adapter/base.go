package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/schema"
)

// ErrNotConnected is returned by metadata calls before Connect succeeds.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close and information_schema metadata implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		err := b.DB.Close()
		b.DB = nil
		return err
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// QualifiedName splits a table reference into schema and name. Bare names
// use the configured schema, then the dialect's default schema.
func (b *BaseSQLAdapter) QualifiedName(table string, d *dialect.Dialect) (string, string) {
	s, name := schema.SplitName(table)
	if s != "" {
		return s, name
	}
	if b.Cfg.Schema != "" {
		return b.Cfg.Schema, name
	}
	return d.DefaultSchema, name
}

// GetTableMetadataCommon provides a shared implementation of GetTableMetadata.
// Uses information_schema.columns with dialect-appropriate placeholders and
// resolves data_type through the dialect.
func (b *BaseSQLAdapter) GetTableMetadataCommon(ctx context.Context, table string, d *dialect.Dialect) (*schema.Table, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	schemaName, tableName := b.QualifiedName(table, d)

	// The placeholders come from the dialect and are safe (? or $N)
	//nolint:gosec // Placeholders are safe - they come from dialect.FormatPlaceholder
	query := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, d.FormatPlaceholder(1), d.FormatPlaceholder(2))

	rows, err := b.DB.QueryContext(ctx, query, schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []schema.Column
	for rows.Next() {
		var (
			name, dataType, nullable string
			position                 int
		)
		if err := rows.Scan(&name, &dataType, &nullable, &position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		columns = append(columns, schema.NewColumn(d, name, dataType, nullable == "YES", position))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	return b.Table(schemaName, tableName, columns)
}

// Table assembles metadata, reporting a missing table when no columns were
// found.
func (b *BaseSQLAdapter) Table(schemaName, tableName string, columns []schema.Column) (*schema.Table, error) {
	if len(columns) == 0 {
		return nil, &schema.TableNotFoundError{Name: schemaName + "." + tableName}
	}
	if b.Logger != nil {
		b.Logger.Debug("loaded table metadata",
			slog.String("schema", schemaName),
			slog.String("table", tableName),
			slog.Int("columns", len(columns)))
	}
	return &schema.Table{Schema: schemaName, Name: tableName, Columns: columns}, nil
}

// DecodeParams decodes adapter-specific params into out, a pointer to a
// struct with mapstructure tags. Unknown keys are rejected and scalar values
// are converted ("4" to 4).
func DecodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("invalid adapter params: %w", err)
	}
	return nil
}
