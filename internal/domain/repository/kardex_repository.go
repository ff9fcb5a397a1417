package repository

import (
	"context"

	"github.com/jhoicas/gre-api/internal/domain/entity"
)

// KardexRepository puerto del kardex (solo inserción y consulta).
type KardexRepository interface {
	Append(ctx context.Context, tx *entity.InventoryTransaction) error
	ListByReference(ctx context.Context, reference string) ([]*entity.InventoryTransaction, error)
}
