package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/bootstrap"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/postgres"
	pkgsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

func newIssueCmd(e *env) *cobra.Command {
	var tipo int
	cmd := &cobra.Command{
		Use:   "issue <order-id>",
		Short: "Emite la boleta de una orden",
		Long:  `Ejecuta el mismo flujo que POST /api/dte/orders/{orderId}; si la orden ya tiene documento lo muestra sin reenviar`,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !pkgsii.IsSupportedDocType(tipo) {
				return fmt.Errorf("tipo %d no soportado (39 o 41)", tipo)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sii, err := bootstrap.NewSII(e.cfg.SII, e.log)
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(ctx, e.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			res, err := bootstrap.NewUseCases(e.cfg, pool, sii, e.log).Issue.IssueInvoice(ctx, args[0], tipo)
			if err != nil {
				return err
			}
			state := "emitida"
			if res.Existing {
				state = "ya existía"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "orden %s %s: tipo %d folio %d total %s track %s\n",
				res.OrderID, state, res.Tipo, res.Folio, res.Total.String(), res.TrackID)
			return nil
		},
	}
	cmd.Flags().IntVar(&tipo, "tipo", pkgsii.DocTypeBoleta, "39 boleta afecta, 41 boleta exenta")
	return cmd
}
