// dtectl herramienta de operación: migraciones, CAF, token y emisión manual.
package main

import "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/cli"

func main() {
	cli.Execute()
}
