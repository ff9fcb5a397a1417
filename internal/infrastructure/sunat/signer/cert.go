package signer

import (
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/pkcs12"
)

// LoadFromP12 carga certificado y llave privada desde un archivo .p12/.pfx.
func LoadFromP12(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("leer p12: %w", err)
	}
	priv, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decodificar p12: %w", err)
	}
	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	}, nil
}

// LoadFromPEM carga certificado y llave PEM. keyPath vacío = ambos en el mismo archivo.
func LoadFromPEM(certPath, keyPath string) (tls.Certificate, error) {
	if keyPath == "" {
		keyPath = certPath
	}
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("cargar PEM: %w", err)
	}
	return cert, nil
}

// Load elige el cargador por extensión (.p12/.pfx o PEM).
func Load(certPath, keyPath, password string) (tls.Certificate, error) {
	if certPath == "" {
		return tls.Certificate{}, fmt.Errorf("ruta de certificado vacía")
	}
	switch strings.ToLower(filepath.Ext(certPath)) {
	case ".p12", ".pfx":
		return LoadFromP12(certPath, password)
	default:
		return LoadFromPEM(certPath, keyPath)
	}
}

// CertProvider entrega el certificado del emisor. Se carga una sola vez por proceso.
type CertProvider struct {
	certPath, keyPath, password string

	once sync.Once
	cert tls.Certificate
	err  error
}

// NewCertProvider crea el proveedor sin tocar el disco.
func NewCertProvider(certPath, keyPath, password string) *CertProvider {
	return &CertProvider{certPath: certPath, keyPath: keyPath, password: password}
}

// NewStaticCertProvider envuelve un certificado ya cargado.
func NewStaticCertProvider(cert tls.Certificate) *CertProvider {
	p := &CertProvider{cert: cert}
	p.once.Do(func() {})
	return p
}

// Certificate devuelve el certificado cacheado o el error de la primera carga.
func (p *CertProvider) Certificate() (tls.Certificate, error) {
	p.once.Do(func() {
		p.cert, p.err = Load(p.certPath, p.keyPath, p.password)
	})
	return p.cert, p.err
}
