package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/postgres"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de dte_documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, e.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}
			version, err := postgres.MigrationVersion(ctx, pool)
			if err != nil {
				return err
			}
			e.log.Info().Int64("version", version).Msg("migraciones aplicadas")
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}
