package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/domain/repository"
)

var (
	_ repository.UbigeoRepository      = (*UbigeoRepo)(nil)
	_ repository.UnitMeasureRepository = (*UnitMeasureRepo)(nil)
)

// BatchQuerier Querier con envío por lotes (pool y tx lo cumplen).
type BatchQuerier interface {
	Querier
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// UbigeoRepo catálogo INEI.
type UbigeoRepo struct {
	q BatchQuerier
}

// NewUbigeoRepository construye el adaptador.
func NewUbigeoRepository(q BatchQuerier) *UbigeoRepo {
	return &UbigeoRepo{q: q}
}

// GetByCode nil si el código no está cargado.
func (r *UbigeoRepo) GetByCode(ctx context.Context, code string) (*entity.Ubigeo, error) {
	var u entity.Ubigeo
	err := r.q.QueryRow(ctx,
		`SELECT code, departamento, provincia, distrito FROM ubigeos WHERE code = $1`, code,
	).Scan(&u.Code, &u.Departamento, &u.Provincia, &u.Distrito)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ubigeo: %w", err)
	}
	return &u, nil
}

// UpsertBatch inserta o actualiza los distritos en un solo lote. Devuelve filas afectadas.
func (r *UbigeoRepo) UpsertBatch(ctx context.Context, items []entity.Ubigeo) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	const query = `
		INSERT INTO ubigeos (code, departamento, provincia, distrito)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET
			departamento = EXCLUDED.departamento,
			provincia = EXCLUDED.provincia,
			distrito = EXCLUDED.distrito`
	batch := &pgx.Batch{}
	for _, u := range items {
		batch.Queue(query, u.Code, u.Departamento, u.Provincia, u.Distrito)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()

	total := 0
	for range items {
		tag, err := br.Exec()
		if err != nil {
			return total, fmt.Errorf("upsert ubigeo: %w", err)
		}
		total += int(tag.RowsAffected())
	}
	return total, nil
}

// UnitMeasureRepo unidades de medida con símbolo de impresión.
type UnitMeasureRepo struct {
	q Querier
}

// NewUnitMeasureRepository construye el adaptador.
func NewUnitMeasureRepository(q Querier) *UnitMeasureRepo {
	return &UnitMeasureRepo{q: q}
}

// GetBySunatCode nil si el código no tiene unidad registrada.
func (r *UnitMeasureRepo) GetBySunatCode(ctx context.Context, code string) (*entity.UnitMeasure, error) {
	var u entity.UnitMeasure
	err := r.q.QueryRow(ctx,
		`SELECT id, name, symbol, sunat_code FROM unit_measures WHERE sunat_code = $1`, code,
	).Scan(&u.ID, &u.Name, &u.Symbol, &u.SunatCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit measure: %w", err)
	}
	return &u, nil
}
