package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapterm/internal/testutil"
	"github.com/leapstack-labs/leapterm/pkg/schema"
	"github.com/leapstack-labs/leapterm/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func usersTable(cols ...schema.Column) *schema.Table {
	if len(cols) == 0 {
		cols = []schema.Column{
			{Name: "id", Type: types.LongType, NativeType: "bigint", Position: 1},
			{Name: "tags", Type: types.ArrayOf(types.StringType), NativeType: "_text", Nullable: true, Position: 2},
			{Name: "doc", NativeType: "jsonb", Nullable: true, Position: 3},
		}
	}
	return &schema.Table{Schema: "public", Name: "users", Columns: cols}
}

func TestOpen_Migrates(t *testing.T) {
	s := openTestStore(t)

	version, err := s.Version()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestSaveSnapshot_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap, err := s.SaveSnapshot(ctx, "postgres://localhost/app", []*schema.Table{usersTable()})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Tables)

	tbl, err := s.Table(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, "public.users", tbl.QualifiedName())
	require.Len(t, tbl.Columns, 3)

	assert.True(t, types.LongType.Equal(tbl.Columns[0].Type))
	assert.False(t, tbl.Columns[0].Nullable)
	assert.True(t, types.ArrayOf(types.StringType).Equal(tbl.Columns[1].Type))
	assert.Equal(t, "_text", tbl.Columns[1].NativeType)
	assert.True(t, tbl.Columns[1].Nullable)
	assert.False(t, tbl.Columns[2].Supported())
	assert.Equal(t, "jsonb", tbl.Columns[2].NativeType)
}

func TestTable_NewestSnapshotWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "first", []*schema.Table{
		usersTable(schema.Column{Name: "id", Type: types.IntegerType, Position: 1}),
		{Schema: "public", Name: "orders", Columns: []schema.Column{{Name: "total", Type: types.DecimalType, Position: 1}}},
	})
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, "second", []*schema.Table{
		usersTable(schema.Column{Name: "id", Type: types.LongType, Position: 1}),
	})
	require.NoError(t, err)

	users, err := s.Table(ctx, "public.USERS")
	require.NoError(t, err)
	assert.True(t, types.LongType.Equal(users.Columns[0].Type), "newest snapshot should win")

	orders, err := s.Table(ctx, "orders")
	require.NoError(t, err, "older snapshot still serves tables missing from newer ones")
	assert.True(t, types.DecimalType.Equal(orders.Columns[0].Type))
}

func TestTable_Errors(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.SaveSnapshot(ctx, "src", []*schema.Table{
		{Schema: "a", Name: "events", Columns: []schema.Column{{Name: "id", Type: types.LongType}}},
		{Schema: "b", Name: "events", Columns: []schema.Column{{Name: "id", Type: types.LongType}}},
	})
	require.NoError(t, err)

	_, err = s.Table(ctx, "missing")
	var notFound *schema.TableNotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = s.Table(ctx, "c.events")
	require.ErrorAs(t, err, &notFound)

	_, err = s.Table(ctx, "events")
	var ambiguous *schema.AmbiguousTableError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []string{"a.events", "b.events"}, ambiguous.Candidates)

	tbl, err := s.Table(ctx, "b.events")
	require.NoError(t, err)
	assert.Equal(t, "b", tbl.Schema)
	assert.Equal(t, 1, tbl.Columns[0].Position, "zero positions are numbered on save")
}

func TestListSnapshots(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	empty, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first, err := s.SaveSnapshot(ctx, "first", []*schema.Table{usersTable()})
	require.NoError(t, err)
	second, err := s.SaveSnapshot(ctx, "second", nil)
	require.NoError(t, err)

	snaps, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.Equal(t, second.ID, snaps[0].ID)
	assert.Equal(t, "second", snaps[0].Source)
	assert.Equal(t, 0, snaps[0].Tables)
	assert.Equal(t, first.ID, snaps[1].ID)
	assert.Equal(t, 1, snaps[1].Tables)
	assert.True(t, snaps[1].CreatedAt.Equal(time.Date(2024, 3, 1, 12, 1, 0, 0, time.UTC)))
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	s, err := Open(path, nil)
	require.NoError(t, err)
	_, err = s.SaveSnapshot(ctx, "src", []*schema.Table{usersTable()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	snaps, err := reopened.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
	assert.Equal(t, path, reopened.Path())
}

func TestClosed(t *testing.T) {
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.ListSnapshots(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Table(context.Background(), "users")
	assert.ErrorIs(t, err, ErrClosed)
}
