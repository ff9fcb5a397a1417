package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos del kardex escritos por el flujo de guías.
const (
	KardexReasonDispatch = "Dispatch"
	KardexReasonReversal = "Reversal"
)

// InventoryTransaction fila del kardex (solo inserción). QuantityChange es el delta con signo
// y NewQuantity el saldo resultante de (producto, bodega) tras aplicarlo.
type InventoryTransaction struct {
	ID             string
	ProductID      string
	WarehouseID    string
	QuantityChange decimal.Decimal
	NewQuantity    decimal.Decimal
	Reason         string
	UserID         string
	Reference      string // ej. "GRE: T001-45"
	CreatedAt      time.Time
}
