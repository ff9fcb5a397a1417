package repository

import (
	"context"

	"github.com/jhoicas/gre-api/internal/domain/entity"
)

// WarehouseRepository consulta de bodegas (la gestión vive en otro módulo).
type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	// GetByAddress busca por coincidencia exacta de dirección. nil si no hay coincidencia.
	GetByAddress(ctx context.Context, address string) (*entity.Warehouse, error)
}
