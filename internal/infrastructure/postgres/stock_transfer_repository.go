package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo transferencias de stock respaldadas por guía.
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

const transferColumns = `
	id, COALESCE(waybill_id::text, ''), origin_warehouse_id, COALESCE(destination_warehouse_id::text, ''),
	destination_address, COALESCE(cost_center_id::text, ''), gre_series, gre_number, gre_ticket,
	status, COALESCE(created_by::text, ''), transfer_date, voided_at`

// Create inserta la transferencia y sus ítems.
func (r *StockTransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transfers (
			id, waybill_id, origin_warehouse_id, destination_warehouse_id, destination_address,
			cost_center_id, gre_series, gre_number, gre_ticket, status, created_by, transfer_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, nullIfEmpty(t.WaybillID), t.OriginWarehouseID, nullIfEmpty(t.DestinationWarehouseID),
		t.DestinationAddress, nullIfEmpty(t.CostCenterID), t.GreSeries, t.GreNumber, t.Ticket,
		t.Status, nullIfEmpty(t.CreatedBy), t.TransferDate,
	)
	if err != nil {
		return fmt.Errorf("insert stock transfer: %w", err)
	}

	itemQuery := `
		INSERT INTO stock_transfer_items (id, transfer_id, product_id, product_name, product_sku, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range t.Items {
		it := &t.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.TransferID = t.ID
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.TransferID, it.ProductID, it.ProductName, it.ProductSKU, it.Quantity,
		); err != nil {
			return fmt.Errorf("insert stock transfer item: %w", err)
		}
	}
	return nil
}

// GetByWaybillForUpdate busca por waybill_id y, para registros sin llave explícita, por (serie, número).
// Bloquea la fila encontrada. nil si la guía no tiene transferencia.
func (r *StockTransferRepo) GetByWaybillForUpdate(ctx context.Context, waybillID, series, number string) (*entity.StockTransfer, error) {
	t, err := r.getOne(ctx,
		`SELECT `+transferColumns+` FROM stock_transfers WHERE waybill_id = $1 FOR UPDATE`, waybillID)
	if err != nil || t != nil || series == "" {
		return t, err
	}
	return r.getOne(ctx, `
		SELECT `+transferColumns+` FROM stock_transfers
		WHERE waybill_id IS NULL AND gre_series = $1 AND gre_number = $2
		ORDER BY transfer_date DESC LIMIT 1
		FOR UPDATE`, series, number)
}

// MarkVoided marca la transferencia como anulada.
func (r *StockTransferRepo) MarkVoided(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_transfers SET status = $2, voided_at = $3 WHERE id = $1 AND status = $4`,
		id, entity.TransferStatusVoided, at, entity.TransferStatusActive)
	if err != nil {
		return fmt.Errorf("void stock transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockTransferRepo) getOne(ctx context.Context, query string, args ...any) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.WaybillID, &t.OriginWarehouseID, &t.DestinationWarehouseID, &t.DestinationAddress,
		&t.CostCenterID, &t.GreSeries, &t.GreNumber, &t.Ticket, &t.Status, &t.CreatedBy,
		&t.TransferDate, &t.VoidedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, transfer_id, product_id, product_name, product_sku, quantity
		FROM stock_transfer_items WHERE transfer_id = $1 ORDER BY product_sku, id`, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list stock transfer items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.StockTransferItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.ProductID, &it.ProductName, &it.ProductSKU, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock transfer item: %w", err)
		}
		t.Items = append(t.Items, it)
	}
	return &t, rows.Err()
}
