package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo consulta de bodegas sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, company_id, name, address, COALESCE(ubigeo, ''), created_at, updated_at`

// GetByID obtiene una bodega por ID. nil si no existe.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id)
}

// GetByAddress coincidencia exacta de dirección (sin distinguir mayúsculas ni espacios extremos).
func (r *WarehouseRepo) GetByAddress(ctx context.Context, address string) (*entity.Warehouse, error) {
	return r.getOne(ctx, `
		SELECT `+warehouseColumns+` FROM warehouses
		WHERE upper(trim(address)) = upper(trim($1))
		ORDER BY created_at LIMIT 1`, address)
}

func (r *WarehouseRepo) getOne(ctx context.Context, query string, arg any) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&w.ID, &w.CompanyID, &w.Name, &w.Address, &w.Ubigeo, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}
