package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	infrasii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/infrastructure/sii"
)

func newCAFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "caf <archivo.xml>",
		Short: "Muestra tipo, rango y emisor de un CAF",
		Long:  `Lee el XML de autorización de folios y verifica que su llave privada corresponda a la pública`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("leer CAF: %w", err)
			}
			caf, err := infrasii.ParseCAF(data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tipo:       %d\n", caf.Tipo)
			fmt.Fprintf(out, "rango:      %d-%d (%d folios)\n", caf.RangeStart, caf.RangeEnd, caf.RangeEnd-caf.RangeStart+1)
			fmt.Fprintf(out, "emisor:     %s %s\n", caf.IssuerRUT, caf.IssuerName)
			fmt.Fprintf(out, "autorizado: %s\n", caf.AuthorizedAt)
			fmt.Fprintf(out, "idk:        %s\n", caf.KeyID)
			if caf.PrivateKey == nil {
				fmt.Fprintln(out, "llave:      sin RSASK, no sirve para timbrar")
				return nil
			}
			fmt.Fprintf(out, "llave:      %d bits\n", caf.PrivateKey.N.BitLen())
			return nil
		},
	}
}
