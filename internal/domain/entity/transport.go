package entity

// Transport modalidad de traslado. Variante cerrada: PublicTransport o PrivateTransport.
type Transport interface {
	// Mode devuelve el código del catálogo 18 ("01" público, "02" privado).
	Mode() string
	isTransport()
}

// PublicTransport traslado a cargo de una empresa de transportes.
type PublicTransport struct {
	CarrierRUC  string
	CarrierName string
}

// Mode implementa Transport.
func (PublicTransport) Mode() string { return "01" }
func (PublicTransport) isTransport() {}

// PrivateTransport traslado en vehículo propio con conductor identificado.
type PrivateTransport struct {
	Plate  string // normalizada, sin guiones ni espacios
	Brand  string
	Driver Driver
}

// Mode implementa Transport.
func (PrivateTransport) Mode() string { return "02" }
func (PrivateTransport) isTransport() {}

// Driver conductor del vehículo (transporte privado).
type Driver struct {
	DocType   string
	DocNumber string
	FirstName string
	LastName  string
	License   string // opcional
}

// FullName nombre completo del conductor.
func (d Driver) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}
