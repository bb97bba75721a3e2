// Package adapter provides the datastore adapter contract used to read target
// table metadata.
//
// This package contains the public contract that all adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves on import.
package adapter

import (
	"context"

	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/schema"
)

// Config holds the connection settings of a target datastore.
type Config struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
	Params   map[string]any
}

// Adapter defines the interface that all datastore adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// GetTableMetadata retrieves the columns of a table. Unqualified names
	// use the configured or dialect default schema. A missing table returns
	// *schema.TableNotFoundError.
	GetTableMetadata(ctx context.Context, table string) (*schema.Table, error)

	// Dialect returns the literal dialect of the datastore.
	Dialect() *dialect.Dialect
}
