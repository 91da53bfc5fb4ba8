package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/bootstrap"
)

func newTokenCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Ejecuta semilla → firma → token contra el ambiente configurado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cfg.SII.Env == "dev" {
				return errors.New("SII_ENV=dev no habla con el SII; usar cert o prod")
			}
			sii, err := bootstrap.NewSII(e.cfg.SII, e.log)
			if err != nil {
				return err
			}
			token, err := sii.Tokens.Token(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
