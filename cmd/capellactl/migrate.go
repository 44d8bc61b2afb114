package main

import (
	"context"
	"fmt"
	"io"

	"capella-backend/internal/casestudies"

	"github.com/spf13/cobra"
)

type migrator interface {
	Migrate(ctx context.Context) (int, error)
}

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: fmt.Sprintf("Upgrade stored records to schema version %d", casestudies.CurrentSchemaVersion),
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), e.store, cmd.OutOrStdout())
		},
	}
}

func migrate(ctx context.Context, store casestudies.RecordStore, out io.Writer) error {
	m, ok := store.(migrator)
	if !ok {
		fmt.Fprintln(out, "record store keeps no persisted documents; nothing to migrate")
		return nil
	}
	n, err := m.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintf(out, "%d records upgraded to schema version %d\n", n, casestudies.CurrentSchemaVersion)
	return nil
}
