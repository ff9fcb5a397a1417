package gre

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	dgre "github.com/jhoicas/gre-api/internal/domain/gre"
	"github.com/jhoicas/gre-api/internal/domain/repository"
)

// QueryUseCase lecturas de guías: correlativo siguiente y detalle.
type QueryUseCase struct {
	waybills repository.WaybillRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(waybills repository.WaybillRepository) *QueryUseCase {
	return &QueryUseCase{waybills: waybills}
}

// NextCorrelative mayor número registrado en la serie + 1. Es una sugerencia: no reserva el número;
// la unicidad la garantiza el registro.
func (uc *QueryUseCase) NextCorrelative(ctx context.Context, series string) (int, error) {
	series = strings.ToUpper(strings.TrimSpace(series))
	if !dgre.ValidSeries(series) {
		return 0, &domain.ValidationError{Err: fmt.Errorf("serie %q inválida (formato T###)", series)}
	}
	last, err := uc.waybills.MaxNumber(ctx, series)
	if err != nil {
		return 0, fmt.Errorf("correlativo %s: %w", series, err)
	}
	if last >= dgre.MaxNumber {
		return 0, &domain.ConflictError{Msg: fmt.Sprintf("la serie %s agotó sus correlativos", series)}
	}
	return last + 1, nil
}

// GetWaybill guía con sus líneas. domain.ErrNotFound si no existe.
func (uc *QueryUseCase) GetWaybill(ctx context.Context, id string) (*entity.Waybill, error) {
	w, err := uc.waybills.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener guía: %w", err)
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return w, nil
}
