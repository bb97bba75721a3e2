package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapterm/internal/cli/config"
	"github.com/leapstack-labs/leapterm/internal/cli/output"
	"github.com/leapstack-labs/leapterm/pkg/schema"
	"github.com/spf13/cobra"
)

// SnapshotOutput is the JSON form of a saved snapshot.
type SnapshotOutput struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Tables    int       `json:"tables"`
}

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and list catalog snapshots",
		Long: `Snapshots copy table metadata from the schema file or a live target into
the local state database, so later checks can run with --catalog snapshot
without a connection.`,
	}
	cmd.AddCommand(newSnapshotSaveCommand())
	cmd.AddCommand(newSnapshotListCommand())
	return cmd
}

func newSnapshotSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save [table...]",
		Short: "Save table metadata to the state database",
		Long: `Save the metadata of the named tables. With a schema file catalog and no
table names, every table in the file is saved. A target catalog needs the
table names.`,
		Example: `  # Snapshot all tables of the schema file
  leapterm snapshot save

  # Snapshot two tables of a postgres target
  leapterm snapshot save public.users public.orders --catalog target`,
		RunE: runSnapshotSave,
	}
}

func newSnapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved snapshots, newest first",
		Args:    cobra.NoArgs,
		RunE:    runSnapshotList,
	}
}

type tableLister interface {
	Tables() []*schema.Table
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	cfg := GetConfig(cmd.Context())
	if cfg.Catalog == config.CatalogSnapshot {
		return errors.New("snapshot save needs a file or target catalog")
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var tables []*schema.Table
	if len(args) == 0 {
		lister, ok := cmdCtx.Catalog.(tableLister)
		if !ok {
			return errors.New("name the tables to snapshot")
		}
		tables = lister.Tables()
	} else {
		for _, name := range args {
			t, err := cmdCtx.Catalog.Table(cmd.Context(), name)
			if err != nil {
				return err
			}
			tables = append(tables, t)
		}
	}
	if len(tables) == 0 {
		return errors.New("no tables to snapshot")
	}

	st, err := openStore(cfg.StatePath, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap, err := st.SaveSnapshot(cmd.Context(), snapshotSource(cfg), tables)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(SnapshotOutput{
			ID:        snap.ID.String(),
			Source:    snap.Source,
			CreatedAt: snap.CreatedAt,
			Tables:    snap.Tables,
		})
	}
	r.Success(fmt.Sprintf("saved snapshot %s (%d tables)", snap.ID, snap.Tables))
	r.Muted(st.Path())
	return nil
}

func runSnapshotList(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContextWithoutCatalog(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cmdCtx.Cfg.StatePath, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snaps, err := st.ListSnapshots(cmd.Context())
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]SnapshotOutput, len(snaps))
		for i, s := range snaps {
			out[i] = SnapshotOutput{ID: s.ID.String(), Source: s.Source, CreatedAt: s.CreatedAt, Tables: s.Tables}
		}
		return r.JSON(out)
	}

	if len(snaps) == 0 {
		r.Muted("no snapshots saved")
		return nil
	}
	rows := make([][]string, len(snaps))
	for i, s := range snaps {
		rows[i] = []string{s.ID.String(), s.Source, s.CreatedAt.Format(time.RFC3339), strconv.Itoa(s.Tables)}
	}
	r.Table([]string{"id", "source", "created", "tables"}, rows)
	return nil
}

func snapshotSource(cfg *config.Config) string {
	if cfg.Catalog == config.CatalogTarget && cfg.Target != nil {
		if cfg.Target.Database != "" {
			return cfg.Target.Type + ":" + cfg.Target.Database
		}
		return cfg.Target.Type
	}
	return "file:" + cfg.SchemaFile
}
