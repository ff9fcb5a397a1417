package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la transferencia de stock asociada a una guía.
const (
	TransferStatusActive = "ACTIVE"
	TransferStatusVoided = "VOIDED"
)

// StockTransfer salida de mercadería respaldada por una guía remitente.
// WaybillID es la llave explícita; GreSeries/GreNumber/Ticket se guardan para conciliación.
type StockTransfer struct {
	ID                     string
	WaybillID              string
	OriginWarehouseID      string
	DestinationWarehouseID string // opcional
	DestinationAddress     string // dirección externa si no hay bodega destino
	CostCenterID           string
	GreSeries              string
	GreNumber              string
	Ticket                 string
	Status                 string
	CreatedBy              string
	TransferDate           time.Time
	VoidedAt               *time.Time
	Items                  []StockTransferItem
}

// StockTransferItem cantidad transferida con foto del nombre y SKU del producto.
type StockTransferItem struct {
	ID          string
	TransferID  string
	ProductID   string
	ProductName string
	ProductSKU  string
	Quantity    decimal.Decimal
}
