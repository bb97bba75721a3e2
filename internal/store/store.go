// Package store keeps snapshots of table metadata in a local SQLite file so
// statements can be validated without a live connection.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapterm/pkg/parser"
	"github.com/leapstack-labs/leapterm/pkg/schema"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is not open")

// Snapshot describes one saved set of tables.
type Snapshot struct {
	ID        uuid.UUID
	Source    string
	CreatedAt time.Time
	Tables    int
}

// Store is a snapshot store backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the store at path and applies migrations.
// Use ":memory:" for an in-memory store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dsn := path + "?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("opened snapshot store", slog.String("path", path))
	return &Store{db: db, path: path, logger: logger, now: time.Now}, nil
}

// Path returns the file the store was opened with.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveSnapshot records tables under a new snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, source string, tables []*schema.Table) (*Snapshot, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	snap := &Snapshot{
		ID:        uuid.New(),
		Source:    source,
		CreatedAt: s.now().UTC(),
		Tables:    len(tables),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, created_at) VALUES (?, ?, ?)`,
		snap.ID.String(), source, snap.CreatedAt.Format(time.RFC3339Nano)); err != nil {
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}

	tableStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_tables (snapshot_id, table_schema, table_name)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = tableStmt.Close() }()

	colStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_columns
		(snapshot_id, table_schema, table_name, position, column_name, column_type, native_type, nullable)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = colStmt.Close() }()

	for _, t := range tables {
		if _, err := tableStmt.ExecContext(ctx, snap.ID.String(), t.Schema, t.Name); err != nil {
			return nil, fmt.Errorf("insert table %s: %w", t.QualifiedName(), err)
		}
		for i, c := range t.Columns {
			var typ string
			if c.Supported() {
				typ = c.Type.SQL()
			}
			position := c.Position
			if position == 0 {
				position = i + 1
			}
			if _, err := colStmt.ExecContext(ctx, snap.ID.String(), t.Schema, t.Name,
				position, c.Name, typ, c.NativeType, c.Nullable); err != nil {
				return nil, fmt.Errorf("insert column %s.%s: %w", t.QualifiedName(), c.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Debug("saved snapshot",
		slog.String("id", snap.ID.String()),
		slog.String("source", source),
		slog.Int("tables", len(tables)))
	return snap, nil
}

// ListSnapshots returns all snapshots, newest first.
func (s *Store) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.source, s.created_at, COUNT(t.table_name)
		FROM snapshots s
		LEFT JOIN snapshot_tables t ON t.snapshot_id = s.id
		GROUP BY s.seq
		ORDER BY s.seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		var (
			snap      Snapshot
			id, taken string
		)
		if err := rows.Scan(&id, &snap.Source, &taken, &snap.Tables); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if snap.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("snapshot id %q: %w", id, err)
		}
		if snap.CreatedAt, err = time.Parse(time.RFC3339Nano, taken); err != nil {
			return nil, fmt.Errorf("snapshot %s created_at: %w", id, err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Table implements schema.Catalog. The table is read from the newest
// snapshot that contains a table of that name.
func (s *Store) Table(ctx context.Context, name string) (*schema.Table, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	wantSchema, wantName := schema.SplitName(name)
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.snapshot_id, t.table_schema, t.table_name
		FROM snapshot_tables t
		JOIN snapshots s ON s.id = t.snapshot_id
		ORDER BY s.seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query snapshot tables: %w", err)
	}

	// Names are compared with Unicode folding, which SQLite's lower() lacks.
	var (
		snapshotID string
		matches    []*schema.Table
	)
	for rows.Next() {
		var id, tblSchema, tblName string
		if err := rows.Scan(&id, &tblSchema, &tblName); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan snapshot table: %w", err)
		}
		if snapshotID != "" && id != snapshotID {
			break
		}
		if schema.Fold(tblName) != schema.Fold(wantName) {
			continue
		}
		if wantSchema != "" && schema.Fold(tblSchema) != schema.Fold(wantSchema) {
			continue
		}
		snapshotID = id
		matches = append(matches, &schema.Table{Schema: tblSchema, Name: tblName})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate snapshot tables: %w", err)
	}
	_ = rows.Close()

	if len(matches) == 0 {
		return nil, &schema.TableNotFoundError{Name: name}
	}
	for _, t := range matches {
		if t.Columns, err = s.columns(ctx, snapshotID, t.Schema, t.Name); err != nil {
			return nil, err
		}
	}
	return schema.NewStatic(matches...).Table(ctx, name)
}

func (s *Store) columns(ctx context.Context, snapshotID, tblSchema, tblName string) ([]schema.Column, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, column_name, column_type, native_type, nullable
		FROM snapshot_columns
		WHERE snapshot_id = ? AND table_schema = ? AND table_name = ?
		ORDER BY position
	`, snapshotID, tblSchema, tblName)
	if err != nil {
		return nil, fmt.Errorf("query snapshot columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cols []schema.Column
	for rows.Next() {
		var (
			c   schema.Column
			typ string
		)
		if err := rows.Scan(&c.Position, &c.Name, &typ, &c.NativeType, &c.Nullable); err != nil {
			return nil, fmt.Errorf("scan snapshot column: %w", err)
		}
		if typ != "" {
			if c.Type, err = parser.ParseType(typ); err != nil {
				return nil, fmt.Errorf("column %s.%s.%s: stored type %q: %w", tblSchema, tblName, c.Name, typ, err)
			}
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

var _ schema.Catalog = (*Store)(nil)
