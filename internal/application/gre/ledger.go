package gre

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gre-api/internal/application/inventory"
	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/pkg/logger"
)

// KardexReference referencia de kardex y transferencias: "GRE: T001-45".
func KardexReference(w *entity.Waybill) string {
	return "GRE: " + w.FullNumber()
}

// LedgerCoordinator registra la guía aceptada y su efecto en inventario en una sola transacción.
type LedgerCoordinator struct {
	tx    TxRunner
	stock *inventory.StockLedger
	log   *logger.Logger
	now   func() time.Time
}

// NewLedgerCoordinator construye el coordinador.
func NewLedgerCoordinator(tx TxRunner, stock *inventory.StockLedger, log *logger.Logger) *LedgerCoordinator {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerCoordinator{tx: tx, stock: stock, log: log.Named("gre.ledger"), now: time.Now}
}

// Commit persiste cabecera y líneas y, para guías remitente con bodega de origen resuelta,
// la transferencia, los saldos y el kardex. Todo o nada.
func (c *LedgerCoordinator) Commit(ctx context.Context, w *entity.Waybill, actor Actor) (*entity.StockTransfer, error) {
	var transfer *entity.StockTransfer
	err := c.tx.RunLedger(ctx, func(r LedgerRepos) error {
		transfer = nil
		products, err := c.resolveProducts(ctx, r, w)
		if err != nil {
			return err
		}
		var warehouse *entity.Warehouse
		if w.Type == entity.GreTypeDispatcher {
			if warehouse, err = c.resolveOriginWarehouse(ctx, r, w); err != nil {
				return err
			}
		}
		// solo se guarda una bodega existente: la FK no debe fallar con SUNAT ya aceptada
		w.OriginWarehouseID = ""
		if warehouse != nil {
			w.OriginWarehouseID = warehouse.ID
		}

		w.Status = entity.WaybillStatusAccepted
		w.CreatedBy = actor.UserID
		if w.CreatedAt.IsZero() {
			w.CreatedAt = c.now()
		}
		if err := r.Waybills.Create(ctx, w); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return &domain.ConflictError{Msg: fmt.Sprintf("la guía %s ya está registrada", w.FullNumber())}
			}
			return fmt.Errorf("registrar guía: %w", err)
		}

		if w.Type != entity.GreTypeDispatcher {
			return nil
		}
		if warehouse == nil {
			wlog := c.log.ForWaybill(w.Series, w.Number)
			wlog.Warn().Str("direccion", w.Origin.Address).
				Msg("punto de partida sin bodega conocida; guía registrada sin movimiento de stock")
			return nil
		}

		transfer, err = c.dispatch(ctx, r, w, warehouse, products, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// resolveProducts asigna ProductID a cada línea cuyo código existe en el catálogo.
func (c *LedgerCoordinator) resolveProducts(ctx context.Context, r LedgerRepos, w *entity.Waybill) (map[int]*entity.Product, error) {
	out := make(map[int]*entity.Product, len(w.Lines))
	for i := range w.Lines {
		l := &w.Lines[i]
		if l.Code == "" {
			continue
		}
		p, err := r.Products.GetBySKU(ctx, l.Code)
		if err != nil {
			return nil, fmt.Errorf("buscar producto %s: %w", l.Code, err)
		}
		if p == nil {
			continue
		}
		l.ProductID = p.ID
		out[i] = p
	}
	return out, nil
}

// resolveOriginWarehouse dirección del punto de partida primero, luego la bodega explícita.
func (c *LedgerCoordinator) resolveOriginWarehouse(ctx context.Context, r LedgerRepos, w *entity.Waybill) (*entity.Warehouse, error) {
	if w.Origin.Address != "" {
		wh, err := r.Warehouses.GetByAddress(ctx, w.Origin.Address)
		if err != nil {
			return nil, fmt.Errorf("buscar bodega por dirección: %w", err)
		}
		if wh != nil {
			return wh, nil
		}
	}
	if w.OriginWarehouseID == "" {
		return nil, nil
	}
	wh, err := r.Warehouses.GetByID(ctx, w.OriginWarehouseID)
	if err != nil {
		return nil, fmt.Errorf("buscar bodega %s: %w", w.OriginWarehouseID, err)
	}
	return wh, nil
}

func (c *LedgerCoordinator) dispatch(
	ctx context.Context,
	r LedgerRepos,
	w *entity.Waybill,
	warehouse *entity.Warehouse,
	products map[int]*entity.Product,
	actor Actor,
) (*entity.StockTransfer, error) {
	ref := KardexReference(w)
	t := &entity.StockTransfer{
		ID:                 uuid.New().String(),
		WaybillID:          w.ID,
		OriginWarehouseID:  warehouse.ID,
		DestinationAddress: w.Destination.Address,
		CostCenterID:       w.CostCenterID,
		GreSeries:          w.Series,
		GreNumber:          strconv.Itoa(w.Number),
		Ticket:             w.Ticket,
		Status:             entity.TransferStatusActive,
		CreatedBy:          actor.UserID,
		TransferDate:       w.TransferStartDate,
	}
	for i, l := range w.Lines {
		p, ok := products[i]
		if !ok || !l.Quantity.IsPositive() {
			continue
		}
		if _, err := c.stock.DispatchInTx(ctx, r.Stock, r.Kardex, p.ID, warehouse.ID, actor.UserID, ref, l.Quantity); err != nil {
			return nil, fmt.Errorf("descontar %s: %w", p.SKU, err)
		}
		t.Items = append(t.Items, entity.StockTransferItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductSKU:  p.SKU,
			Quantity:    l.Quantity,
		})
	}
	if err := r.Transfers.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("registrar transferencia: %w", err)
	}
	return t, nil
}
