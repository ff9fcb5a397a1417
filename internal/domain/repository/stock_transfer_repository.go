package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gre-api/internal/domain/entity"
)

// StockTransferRepository persistencia de transferencias vinculadas a guías.
type StockTransferRepository interface {
	Create(ctx context.Context, t *entity.StockTransfer) error
	// GetByWaybillForUpdate busca por la llave explícita y, si no existe, por (serie, número).
	GetByWaybillForUpdate(ctx context.Context, waybillID, series, number string) (*entity.StockTransfer, error)
	MarkVoided(ctx context.Context, id string, at time.Time) error
}
