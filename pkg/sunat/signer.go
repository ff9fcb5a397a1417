package sunat

import "crypto/tls"

// Signer firma el XML de una guía y devuelve el XML con ds:Signature dentro de ext:ExtensionContent.
type Signer interface {
	Sign(xmlBytes []byte, cert tls.Certificate) ([]byte, error)
}
