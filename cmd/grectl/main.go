// grectl administra la base de datos y el certificado de gre-api.
//
// Uso:
//
//	grectl migrate up
//	grectl seed-ubigeo ubigeos.csv
//	grectl check-cert --cert certificado.pfx
package main

import "github.com/jhoicas/gre-api/internal/cli"

func main() {
	cli.Execute()
}
