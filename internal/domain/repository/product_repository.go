package repository

import (
	"context"

	"github.com/jhoicas/gre-api/internal/domain/entity"
)

// ProductRepository consulta del catálogo por código.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetBySKU nil si el código no existe.
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
}
