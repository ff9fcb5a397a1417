package repository

import (
	"context"

	"github.com/jhoicas/gre-api/internal/domain/entity"
)

// UbigeoRepository catálogo INEI de distritos.
type UbigeoRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Ubigeo, error)
	UpsertBatch(ctx context.Context, items []entity.Ubigeo) (int, error)
}

// UnitMeasureRepository unidades de medida con su símbolo de impresión.
type UnitMeasureRepository interface {
	GetBySunatCode(ctx context.Context, code string) (*entity.UnitMeasure, error)
}
