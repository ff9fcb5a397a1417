package entity

import "time"

// Warehouse almacén propio. Una guía de tipo remitente descuenta stock de la bodega cuya
// dirección coincide con el punto de partida.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string // comparada sin mayúsculas ni espacios extremos
	Ubigeo    string // puede estar vacío en bodegas antiguas
	CreatedAt time.Time
	UpdatedAt time.Time
}
