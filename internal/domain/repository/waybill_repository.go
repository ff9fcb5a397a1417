package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gre-api/internal/domain/entity"
)

// WaybillRepository persistencia de guías aceptadas y sus líneas.
type WaybillRepository interface {
	// Create inserta cabecera y líneas. Devuelve domain.ErrDuplicate si (serie, número) ya existe.
	Create(ctx context.Context, w *entity.Waybill) error
	GetByID(ctx context.Context, id string) (*entity.Waybill, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Waybill, error)
	ExistsBySeriesNumber(ctx context.Context, series string, number int) (bool, error)
	MaxNumber(ctx context.Context, series string) (int, error)
	MarkVoided(ctx context.Context, id, userID string, at time.Time) error
}
