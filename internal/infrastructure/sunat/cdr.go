package sunat

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

// ParseReceipt abre el CDR (ZIP en Base64), toma la primera entrada .xml y devuelve el texto de
// cbc:DocumentDescription (URL de consulta/QR). Un CDR sin ese nodo devuelve "" sin error.
func ParseReceipt(cdrBase64 string) (string, error) {
	if strings.TrimSpace(cdrBase64) == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cdrBase64))
	if err != nil {
		return "", fmt.Errorf("cdr: base64 inválido: %w", err)
	}
	xmlBytes, err := firstXMLEntry(raw)
	if err != nil {
		return "", err
	}
	if xmlBytes == nil {
		return "", nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return "", fmt.Errorf("cdr: parsear XML: %w", err)
	}
	if el := firstInDocumentOrder(doc.Root(), "DocumentDescription"); el != nil {
		return strings.TrimSpace(el.Text()), nil
	}
	return "", nil
}

func firstXMLEntry(zipBytes []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return nil, fmt.Errorf("cdr: zip inválido: %w", err)
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("cdr: abrir %s: %w", f.Name, err)
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, 10<<20))
	}
	return nil, nil
}

// ExtractDigestValue devuelve el primer ds:DigestValue del XML firmado, sin espacios.
// Se usa como dato de verificación local cuando el CDR no trae URL.
func ExtractDigestValue(signedXML []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(signedXML); err != nil {
		return "", fmt.Errorf("sunat: parsear XML firmado: %w", err)
	}
	el := firstInDocumentOrder(doc.Root(), "DigestValue")
	if el == nil {
		return "", fmt.Errorf("sunat: el XML firmado no contiene DigestValue")
	}
	return strings.TrimSpace(el.Text()), nil
}

// firstInDocumentOrder recorre en profundidad; las rutas "//" de etree van por niveles.
func firstInDocumentOrder(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	if el.Tag == tag {
		return el
	}
	for _, c := range el.ChildElements() {
		if found := firstInDocumentOrder(c, tag); found != nil {
			return found
		}
	}
	return nil
}
