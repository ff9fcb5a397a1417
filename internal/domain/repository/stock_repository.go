package repository

import (
	"context"

	"github.com/jhoicas/gre-api/internal/domain/entity"
)

// StockRepository puerto para leer/escribir saldos por (producto, bodega).
// Compartido con otras funciones de inventario; se usa dentro de transacciones.
type StockRepository interface {
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Si no existe la crea con saldo cero y la bloquea.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
}
