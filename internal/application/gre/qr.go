package gre

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/pkg/sunat"
)

// QRContent contenido del código QR impreso. Prioridad: URL emitida por SUNAT, luego la URL
// de descarga armada con el DigestValue guardado y, por último, los datos de cabecera con pipes.
func QRContent(w *entity.Waybill, issuerRUC string) string {
	ref := strings.TrimSpace(w.VerificationRef)
	if isURL(ref) {
		return ref
	}
	if ref != "" {
		return sunat.QRDownloadURL + "?hashqr=" + url.QueryEscape(ref)
	}
	return strings.Join([]string{
		issuerRUC,
		sunat.DocTypeGRERemitente,
		w.Series,
		strconv.Itoa(w.Number),
		w.IssueDate.In(limaTZ).Format("2006-01-02"),
		w.Recipient.DocType,
		w.Recipient.DocNumber,
	}, "|")
}
