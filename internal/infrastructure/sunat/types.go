// Package sunat implementa el flujo técnico de la GRE ante SUNAT: XML UBL 2.1 DespatchAdvice,
// empaquetado ZIP, cliente REST (OAuth2, envío y consulta de ticket) y lectura del CDR.
package sunat

import (
	"fmt"

	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/pkg/sunat"
)

// BuildContext datos necesarios para construir el XML de la guía.
type BuildContext struct {
	Waybill    *entity.Waybill
	IssuerRUC  string // RUC del emisor (remitente o transportista)
	IssuerName string // razón social del emisor
}

// FileBaseName nombre base exigido por SUNAT: {RUC}-09-{SERIE}-{NUMERO}.
func FileBaseName(ruc, series string, number int) string {
	return fmt.Sprintf("%s-%s-%s-%d", ruc, sunat.DocTypeGRERemitente, series, number)
}

// Filenames devuelve el nombre del XML interno y del ZIP.
func Filenames(ruc, series string, number int) (xmlName, zipName string) {
	base := FileBaseName(ruc, series, number)
	return base + ".xml", base + ".zip"
}
