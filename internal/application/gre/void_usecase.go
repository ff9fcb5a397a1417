package gre

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/gre-api/internal/application/inventory"
	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/pkg/logger"
)

// VoidResult guía anulada y cantidad de ítems devueltos al stock. StockReverted es false cuando
// la guía no tenía transferencia activa: la anulación no tuvo efecto en inventario.
type VoidResult struct {
	Waybill       *entity.Waybill
	RestoredItems int
	StockReverted bool
}

// VoidUseCase anulación local de una guía aceptada. Solo administradores.
// La anulación ante SUNAT es un trámite aparte; aquí solo se revierte el efecto en inventario.
type VoidUseCase struct {
	tx    TxRunner
	stock *inventory.StockLedger
	log   *logger.Logger
	now   func() time.Time
}

// NewVoidUseCase construye el caso de uso.
func NewVoidUseCase(tx TxRunner, stock *inventory.StockLedger, log *logger.Logger) *VoidUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &VoidUseCase{tx: tx, stock: stock, log: log.Named("gre.void"), now: time.Now}
}

// Void bloquea la guía, devuelve al stock de origen cada ítem de su transferencia activa
// y marca guía y transferencia como anuladas. Una segunda anulación es *domain.ConflictError.
func (uc *VoidUseCase) Void(ctx context.Context, actor Actor, waybillID string) (*VoidResult, error) {
	if !actor.Privileged() {
		return nil, &domain.PermissionError{Msg: "solo un administrador puede anular guías"}
	}

	var result *VoidResult
	err := uc.tx.RunLedger(ctx, func(r LedgerRepos) error {
		w, err := r.Waybills.GetForUpdate(ctx, waybillID)
		if err != nil {
			return fmt.Errorf("obtener guía: %w", err)
		}
		if w == nil {
			return domain.ErrNotFound
		}
		if w.IsVoided() {
			return &domain.ConflictError{Msg: fmt.Sprintf("la guía %s ya está anulada", w.FullNumber())}
		}
		now := uc.now()

		restored, reverted := 0, false
		t, err := r.Transfers.GetByWaybillForUpdate(ctx, w.ID, w.Series, strconv.Itoa(w.Number))
		if err != nil {
			return fmt.Errorf("obtener transferencia: %w", err)
		}
		if t != nil && t.Status == entity.TransferStatusActive {
			ref := KardexReference(w)
			for _, it := range t.Items {
				if _, err := uc.stock.ReverseInTx(ctx, r.Stock, r.Kardex,
					it.ProductID, t.OriginWarehouseID, actor.UserID, ref, it.Quantity); err != nil {
					return fmt.Errorf("restituir %s: %w", it.ProductSKU, err)
				}
				restored++
			}
			if err := r.Transfers.MarkVoided(ctx, t.ID, now); err != nil {
				return fmt.Errorf("anular transferencia: %w", err)
			}
			reverted = true
		}

		if err := r.Waybills.MarkVoided(ctx, w.ID, actor.UserID, now); err != nil {
			return fmt.Errorf("anular guía: %w", err)
		}
		w.Status = entity.WaybillStatusVoided
		w.VoidedAt = &now
		w.VoidedBy = actor.UserID
		result = &VoidResult{Waybill: w, RestoredItems: restored, StockReverted: reverted}
		return nil
	})
	if err != nil {
		return nil, err
	}

	wlog := uc.log.ForWaybill(result.Waybill.Series, result.Waybill.Number)
	wlog.Info().Int("items", result.RestoredItems).Bool("stock_revertido", result.StockReverted).
		Str("usuario", actor.UserID).Msg("guía anulada")
	return result, nil
}
