// Package cli comandos de operación de dtectl.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/config"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/logger"
)

// env configuración y logger cargados antes de cada comando.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

// NewRootCmd arma el árbol de comandos.
func NewRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:               "dtectl",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		Short:             "Operación de boletas electrónicas SII",
		Long:              `Migraciones, inspección de CAF, autenticación y emisión manual de boletas (39/41)`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
			return nil
		},
	}
	root.AddCommand(newMigrateCmd(e), newCAFCmd(), newTokenCmd(e), newIssueCmd(e))
	return root
}

// Execute corre dtectl y termina el proceso con código 1 ante error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
