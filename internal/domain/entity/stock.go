package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock saldo actual de un producto en una bodega. Solo se modifica con la fila bloqueada.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}

// Apply suma delta (negativo para salidas) y devuelve el nuevo saldo.
func (s *Stock) Apply(delta decimal.Decimal, now time.Time) decimal.Decimal {
	s.Quantity = s.Quantity.Add(delta)
	s.UpdatedAt = now
	return s.Quantity
}
