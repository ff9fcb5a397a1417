package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/domain/repository"
)

// StockLedger aplica movimientos de stock con la fila bloqueada (SELECT FOR UPDATE) y deja
// la fila correspondiente en el kardex. Siempre usa los repositorios de la transacción del caller.
type StockLedger struct {
	now func() time.Time
}

// NewStockLedger construye el motor de movimientos.
func NewStockLedger() *StockLedger {
	return &StockLedger{now: time.Now}
}

// Movement delta con signo sobre (producto, bodega).
type Movement struct {
	ProductID   string
	WarehouseID string
	UserID      string
	Delta       decimal.Decimal
	Reason      string
	Reference   string
}

// ApplyInTx bloquea la fila, aplica el delta, guarda el saldo y agrega la fila del kardex.
// No impide saldos negativos: la guía ya fue aceptada y el stock debe reflejar la salida real.
func (l *StockLedger) ApplyInTx(
	ctx context.Context,
	stockRepo repository.StockRepository,
	kardexRepo repository.KardexRepository,
	m Movement,
) (*entity.InventoryTransaction, error) {
	if m.ProductID == "" || m.WarehouseID == "" || m.Delta.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := l.now()

	stock, err := stockRepo.GetForUpdate(ctx, m.ProductID, m.WarehouseID)
	if err != nil {
		return nil, err
	}
	newQty := stock.Apply(m.Delta, now)
	if err := stockRepo.Upsert(ctx, stock); err != nil {
		return nil, err
	}

	tx := &entity.InventoryTransaction{
		ID:             uuid.New().String(),
		ProductID:      m.ProductID,
		WarehouseID:    m.WarehouseID,
		QuantityChange: m.Delta,
		NewQuantity:    newQty,
		Reason:         m.Reason,
		UserID:         m.UserID,
		Reference:      m.Reference,
		CreatedAt:      now,
	}
	if err := kardexRepo.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("kardex %s: %w", m.Reference, err)
	}
	return tx, nil
}

// DispatchInTx salida por guía: resta quantity y registra motivo Dispatch.
func (l *StockLedger) DispatchInTx(
	ctx context.Context,
	stockRepo repository.StockRepository,
	kardexRepo repository.KardexRepository,
	productID, warehouseID, userID, reference string,
	quantity decimal.Decimal,
) (*entity.InventoryTransaction, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return l.ApplyInTx(ctx, stockRepo, kardexRepo, Movement{
		ProductID:   productID,
		WarehouseID: warehouseID,
		UserID:      userID,
		Delta:       quantity.Neg(),
		Reason:      entity.KardexReasonDispatch,
		Reference:   reference,
	})
}

// ReverseInTx devolución por anulación: suma quantity y registra motivo Reversal.
func (l *StockLedger) ReverseInTx(
	ctx context.Context,
	stockRepo repository.StockRepository,
	kardexRepo repository.KardexRepository,
	productID, warehouseID, userID, reference string,
	quantity decimal.Decimal,
) (*entity.InventoryTransaction, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return l.ApplyInTx(ctx, stockRepo, kardexRepo, Movement{
		ProductID:   productID,
		WarehouseID: warehouseID,
		UserID:      userID,
		Delta:       quantity,
		Reason:      entity.KardexReasonReversal,
		Reference:   reference,
	})
}
