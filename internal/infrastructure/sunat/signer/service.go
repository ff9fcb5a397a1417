// Firma XMLDSig enveloped para la GRE (SUNAT). Inyecta <ds:Signature Id="Sign"> en el
// ext:ExtensionContent que deja vacío el constructor del XML.

package signer

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/jhoicas/gre-api/pkg/sunat"
)

// DigitalSignatureService implementa la firma enveloped e inyecta el nodo en el XML.
type DigitalSignatureService struct{}

// NewDigitalSignatureService crea el servicio.
func NewDigitalSignatureService() *DigitalSignatureService {
	return &DigitalSignatureService{}
}

// Sign implementa pkg/sunat.Signer. Reference URI="" cubre todo el documento salvo la firma.
func (s *DigitalSignatureService) Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("sunat: XML vacío")
	}
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("sunat: el certificado debe incluir llave privada RSA")
	}
	if len(cert.Certificate) == 0 {
		return nil, fmt.Errorf("sunat: certificado sin cadena X.509")
	}
	x509Cert, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("sunat: parsear certificado: %w", err)
	}

	// 1) Digest del documento sin firma (transformación enveloped + exc-c14n)
	canonicalDoc, err := Canonicalize(xmlBytes)
	if err != nil {
		return nil, fmt.Errorf("sunat: canonicalizar documento: %w", err)
	}
	docDigest := sha256.Sum256(canonicalDoc)
	docDigestB64 := base64.StdEncoding.EncodeToString(docDigest[:])

	// 2) SignedInfo canonicalizado y firmado con RSA-SHA256
	signedInfoXML := BuildSignedInfo(docDigestB64)
	canonicalSignedInfo, err := Canonicalize([]byte(signedInfoXML))
	if err != nil {
		return nil, fmt.Errorf("sunat: canonicalizar SignedInfo: %w", err)
	}
	signHash := sha256.Sum256(canonicalSignedInfo)
	signatureValue, err := rsa.SignPKCS1v15(nil, priv, crypto.SHA256, signHash[:])
	if err != nil {
		return nil, fmt.Errorf("sunat: firmar SignedInfo: %w", err)
	}

	// 3) ds:Signature completo con KeyInfo
	signatureXML := buildSignature(
		signedInfoXML,
		base64.StdEncoding.EncodeToString(signatureValue),
		base64.StdEncoding.EncodeToString(x509Cert.Raw),
	)

	// 4) Inyectar en ext:ExtensionContent
	return injectSignature(xmlBytes, signatureXML)
}

// Canonicalize quita la declaración XML y aplica c14n. Exportado para verificar firmas en pruebas.
func Canonicalize(data []byte) ([]byte, error) {
	data = stripDeclaration(data)
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func stripDeclaration(data []byte) []byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n\uFEFF")
	if !bytes.HasPrefix(trimmed, []byte("<?xml")) {
		return data
	}
	idx := bytes.Index(trimmed, []byte("?>"))
	if idx < 0 {
		return data
	}
	return bytes.TrimLeft(trimmed[idx+2:], " \t\r\n")
}

// BuildSignedInfo arma ds:SignedInfo con la Reference al documento completo.
func BuildSignedInfo(docDigestB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:SignedInfo xmlns:ds="` + NamespaceDS + `">`)
	sb.WriteString(`<ds:CanonicalizationMethod Algorithm="` + AlgExcC14N + `"></ds:CanonicalizationMethod>`)
	sb.WriteString(`<ds:SignatureMethod Algorithm="` + AlgRSASHA256 + `"></ds:SignatureMethod>`)
	sb.WriteString(`<ds:Reference URI="">`)
	sb.WriteString(`<ds:Transforms>`)
	sb.WriteString(`<ds:Transform Algorithm="` + TransformEnveloped + `"></ds:Transform>`)
	sb.WriteString(`<ds:Transform Algorithm="` + AlgExcC14N + `"></ds:Transform>`)
	sb.WriteString(`</ds:Transforms>`)
	sb.WriteString(`<ds:DigestMethod Algorithm="` + AlgSHA256 + `"></ds:DigestMethod>`)
	sb.WriteString(`<ds:DigestValue>` + docDigestB64 + `</ds:DigestValue>`)
	sb.WriteString(`</ds:Reference>`)
	sb.WriteString(`</ds:SignedInfo>`)
	return sb.String()
}

func buildSignature(signedInfoXML, signatureValueB64, certB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<ds:Signature xmlns:ds="` + NamespaceDS + `" Id="` + SignatureID + `">`)
	sb.WriteString(signedInfoXML)
	sb.WriteString(`<ds:SignatureValue>` + signatureValueB64 + `</ds:SignatureValue>`)
	sb.WriteString(`<ds:KeyInfo><ds:X509Data><ds:X509Certificate>` + certB64 + `</ds:X509Certificate></ds:X509Data></ds:KeyInfo>`)
	sb.WriteString(`</ds:Signature>`)
	return sb.String()
}

func injectSignature(xmlBytes []byte, signatureXML string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("sunat: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("sunat: documento sin raíz")
	}
	slot := root.FindElement("./UBLExtensions/UBLExtension/ExtensionContent")
	if slot == nil {
		return nil, fmt.Errorf("sunat: no se encontró ext:ExtensionContent para inyectar la firma")
	}
	if len(slot.ChildElements()) > 0 {
		return nil, fmt.Errorf("sunat: el documento ya está firmado")
	}
	sigDoc := etree.NewDocument()
	if err := sigDoc.ReadFromString(signatureXML); err != nil {
		return nil, fmt.Errorf("sunat: parsear Signature: %w", err)
	}
	if sigRoot := sigDoc.Root(); sigRoot != nil {
		slot.AddChild(sigRoot)
	}
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("sunat: serializar XML firmado: %w", err)
	}
	return out.Bytes(), nil
}

var _ sunat.Signer = (*DigitalSignatureService)(nil)
