package signer

// Namespaces y algoritmos XMLDSig usados por SUNAT para la GRE.
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	AlgExcC14N         = "http://www.w3.org/2001/10/xml-exc-c14n#"
	AlgRSASHA256       = "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256"
	AlgSHA256          = "http://www.w3.org/2001/04/xmlenc#sha256"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

// SignatureID Id del nodo ds:Signature; cac:Signature del documento lo referencia como "#Sign".
const SignatureID = "Sign"
