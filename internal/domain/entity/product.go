package entity

import "time"

// Product producto del catálogo (gestionado fuera de este servicio; aquí solo se consulta por SKU).
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	UnitMeasure string // código SUNAT (NIU, KGM, ...)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
