package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/domain/repository"
)

var _ repository.KardexRepository = (*KardexRepo)(nil)

// KardexRepo filas de inventory_transactions (solo inserción).
type KardexRepo struct {
	q Querier
}

// NewKardexRepository construye el adaptador. Pasar pool o tx (Querier).
func NewKardexRepository(q Querier) *KardexRepo {
	return &KardexRepo{q: q}
}

// Append inserta un movimiento del kardex.
func (r *KardexRepo) Append(ctx context.Context, t *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions
			(id, product_id, warehouse_id, quantity_change, new_quantity, reason, user_id, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ProductID, t.WarehouseID, t.QuantityChange, t.NewQuantity,
		t.Reason, nullIfEmpty(t.UserID), t.Reference, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert kardex: %w", err)
	}
	return nil
}

// ListByReference devuelve los movimientos de una referencia (ej. "GRE: T001-45") en orden de registro.
func (r *KardexRepo) ListByReference(ctx context.Context, reference string) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT id, product_id, warehouse_id, quantity_change, new_quantity, reason,
		       COALESCE(user_id::text, ''), reference, created_at
		FROM inventory_transactions WHERE reference = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, reference)
	if err != nil {
		return nil, fmt.Errorf("list kardex: %w", err)
	}
	defer rows.Close()

	var out []*entity.InventoryTransaction
	for rows.Next() {
		var t entity.InventoryTransaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.WarehouseID, &t.QuantityChange, &t.NewQuantity,
			&t.Reason, &t.UserID, &t.Reference, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan kardex: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
