package sunat

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Package resultado del empaquetado listo para el envío.
type Package struct {
	ZipName string
	Zip     []byte
	Base64  string // arcGreZip
	Hash    string // hashZip: SHA-256 hex de los bytes del ZIP
}

// CompressXMLToZip empaqueta el XML firmado en un ZIP en memoria con una única entrada.
func CompressXMLToZip(xmlBytes []byte, xmlFilename string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	fw, err := zw.Create(xmlFilename)
	if err != nil {
		return nil, fmt.Errorf("zip: crear entrada %s: %w", xmlFilename, err)
	}
	if _, err := fw.Write(xmlBytes); err != nil {
		return nil, fmt.Errorf("zip: escribir XML: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildPackage comprime el XML firmado, calcula el hash y lo codifica en Base64.
// El hash se calcula sobre los bytes del ZIP, no sobre el XML.
func BuildPackage(signedXML []byte, xmlName, zipName string) (*Package, error) {
	if len(signedXML) == 0 {
		return nil, fmt.Errorf("zip: XML firmado vacío")
	}
	zipBytes, err := CompressXMLToZip(signedXML, xmlName)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(zipBytes)
	return &Package{
		ZipName: zipName,
		Zip:     zipBytes,
		Base64:  base64.StdEncoding.EncodeToString(zipBytes),
		Hash:    hex.EncodeToString(sum[:]),
	}, nil
}
