package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	"github.com/jhoicas/gre-api/internal/domain/repository"
)

var _ repository.WaybillRepository = (*WaybillRepo)(nil)

// WaybillRepo guías aceptadas y sus líneas sobre PostgreSQL.
type WaybillRepo struct {
	q Querier
}

// NewWaybillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWaybillRepository(q Querier) *WaybillRepo {
	return &WaybillRepo{q: q}
}

const waybillColumns = `
	id, series, number, gre_type, issue_date, transfer_start_date,
	recipient_doc_type, recipient_doc_number, recipient_name,
	COALESCE(sender_ruc, ''), COALESCE(sender_name, ''),
	reason_code, reason_text, notes, gross_weight, transport_mode,
	carrier_ruc, carrier_name, vehicle_plate, vehicle_brand,
	driver_doc_type, driver_doc_number, driver_first_name, driver_last_name, driver_license,
	origin_ubigeo, origin_address, destination_ubigeo, destination_address,
	COALESCE(origin_warehouse_id::text, ''), COALESCE(cost_center_id::text, ''),
	verification_ref, ticket, status, COALESCE(created_by::text, ''), created_at,
	voided_at, COALESCE(voided_by::text, '')`

// Create inserta cabecera y líneas. (serie, número) repetido devuelve domain.ErrDuplicate.
func (r *WaybillRepo) Create(ctx context.Context, w *entity.Waybill) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}
	var senderRUC, senderName *string
	if w.OriginalSender != nil {
		senderRUC, senderName = &w.OriginalSender.DocNumber, &w.OriginalSender.Name
	}
	t := flattenTransport(w.Transport)

	query := `
		INSERT INTO waybills (
			id, series, number, gre_type, issue_date, transfer_start_date,
			recipient_doc_type, recipient_doc_number, recipient_name, sender_ruc, sender_name,
			reason_code, reason_text, notes, gross_weight, transport_mode,
			carrier_ruc, carrier_name, vehicle_plate, vehicle_brand,
			driver_doc_type, driver_doc_number, driver_first_name, driver_last_name, driver_license,
			origin_ubigeo, origin_address, destination_ubigeo, destination_address,
			origin_warehouse_id, cost_center_id, verification_ref, ticket, status, created_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36
		)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.Series, w.Number, string(w.Type), w.IssueDate, w.TransferStartDate,
		w.Recipient.DocType, w.Recipient.DocNumber, w.Recipient.Name, senderRUC, senderName,
		w.ReasonCode, w.ReasonText, w.Notes, w.GrossWeight, t.mode,
		t.carrierRUC, t.carrierName, t.plate, t.brand,
		t.driver.DocType, t.driver.DocNumber, t.driver.FirstName, t.driver.LastName, t.driver.License,
		w.Origin.Ubigeo, w.Origin.Address, w.Destination.Ubigeo, w.Destination.Address,
		nullIfEmpty(w.OriginWarehouseID), nullIfEmpty(w.CostCenterID), w.VerificationRef, w.Ticket,
		w.Status, nullIfEmpty(w.CreatedBy), w.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("guía %s: %w", w.FullNumber(), domain.ErrDuplicate)
		}
		return fmt.Errorf("insert waybill: %w", err)
	}

	lineQuery := `
		INSERT INTO waybill_lines (id, waybill_id, line_no, unit_code, code, description, quantity, product_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range w.Lines {
		l := &w.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.WaybillID = w.ID
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.WaybillID, l.LineNo, l.UnitCode, l.Code, l.Description, l.Quantity, nullIfEmpty(l.ProductID),
		); err != nil {
			return fmt.Errorf("insert waybill line %d: %w", l.LineNo, err)
		}
	}
	return nil
}

// GetByID obtiene la guía con sus líneas. nil si no existe.
func (r *WaybillRepo) GetByID(ctx context.Context, id string) (*entity.Waybill, error) {
	return r.get(ctx, `SELECT `+waybillColumns+` FROM waybills WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera hasta el fin de la transacción.
func (r *WaybillRepo) GetForUpdate(ctx context.Context, id string) (*entity.Waybill, error) {
	return r.get(ctx, `SELECT `+waybillColumns+` FROM waybills WHERE id = $1 FOR UPDATE`, id)
}

// ExistsBySeriesNumber indica si (serie, número) ya fue registrado.
func (r *WaybillRepo) ExistsBySeriesNumber(ctx context.Context, series string, number int) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM waybills WHERE series = $1 AND number = $2)`, series, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists waybill: %w", err)
	}
	return exists, nil
}

// MaxNumber mayor número registrado en la serie (0 si no hay guías).
func (r *WaybillRepo) MaxNumber(ctx context.Context, series string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM waybills WHERE series = $1`, series,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("max waybill number: %w", err)
	}
	return n, nil
}

// MarkVoided cambia el estado a VOIDED. Solo afecta guías aceptadas.
func (r *WaybillRepo) MarkVoided(ctx context.Context, id, userID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE waybills SET status = $2, voided_at = $3, voided_by = $4
		WHERE id = $1 AND status = $5`,
		id, entity.WaybillStatusVoided, at, nullIfEmpty(userID), entity.WaybillStatusAccepted,
	)
	if err != nil {
		return fmt.Errorf("void waybill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WaybillRepo) get(ctx context.Context, query, id string) (*entity.Waybill, error) {
	w, err := scanWaybill(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get waybill: %w", err)
	}
	lines, err := r.lines(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	w.Lines = lines
	return w, nil
}

func (r *WaybillRepo) lines(ctx context.Context, waybillID string) ([]entity.WaybillLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, waybill_id, line_no, unit_code, code, description, quantity, COALESCE(product_id::text, '')
		FROM waybill_lines WHERE waybill_id = $1 ORDER BY line_no`, waybillID)
	if err != nil {
		return nil, fmt.Errorf("list waybill lines: %w", err)
	}
	defer rows.Close()

	var out []entity.WaybillLine
	for rows.Next() {
		var l entity.WaybillLine
		if err := rows.Scan(&l.ID, &l.WaybillID, &l.LineNo, &l.UnitCode, &l.Code, &l.Description,
			&l.Quantity, &l.ProductID); err != nil {
			return nil, fmt.Errorf("scan waybill line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanWaybill(row pgx.Row) (*entity.Waybill, error) {
	var (
		w                     entity.Waybill
		greType               string
		senderRUC, senderName string
		t                     transportColumns
		startDate             time.Time
		grossWeight           decimal.Decimal
	)
	err := row.Scan(
		&w.ID, &w.Series, &w.Number, &greType, &w.IssueDate, &startDate,
		&w.Recipient.DocType, &w.Recipient.DocNumber, &w.Recipient.Name,
		&senderRUC, &senderName,
		&w.ReasonCode, &w.ReasonText, &w.Notes, &grossWeight, &t.mode,
		&t.carrierRUC, &t.carrierName, &t.plate, &t.brand,
		&t.driver.DocType, &t.driver.DocNumber, &t.driver.FirstName, &t.driver.LastName, &t.driver.License,
		&w.Origin.Ubigeo, &w.Origin.Address, &w.Destination.Ubigeo, &w.Destination.Address,
		&w.OriginWarehouseID, &w.CostCenterID,
		&w.VerificationRef, &w.Ticket, &w.Status, &w.CreatedBy, &w.CreatedAt,
		&w.VoidedAt, &w.VoidedBy,
	)
	if err != nil {
		return nil, err
	}
	w.Type = entity.GreType(greType)
	w.TransferStartDate = startDate
	w.GrossWeight = grossWeight
	if senderRUC != "" {
		w.OriginalSender = &entity.Party{DocType: "6", DocNumber: senderRUC, Name: senderName}
	}
	w.Transport = t.transport()
	return &w, nil
}

// transportColumns forma plana de entity.Transport en la tabla waybills.
type transportColumns struct {
	mode        string
	carrierRUC  string
	carrierName string
	plate       string
	brand       string
	driver      entity.Driver
}

func flattenTransport(t entity.Transport) transportColumns {
	switch v := t.(type) {
	case entity.PublicTransport:
		return transportColumns{mode: v.Mode(), carrierRUC: v.CarrierRUC, carrierName: v.CarrierName}
	case entity.PrivateTransport:
		return transportColumns{mode: v.Mode(), plate: v.Plate, brand: v.Brand, driver: v.Driver}
	}
	return transportColumns{}
}

func (c transportColumns) transport() entity.Transport {
	switch c.mode {
	case entity.PublicTransport{}.Mode():
		return entity.PublicTransport{CarrierRUC: c.carrierRUC, CarrierName: c.carrierName}
	case entity.PrivateTransport{}.Mode():
		return entity.PrivateTransport{Plate: c.plate, Brand: c.brand, Driver: c.driver}
	}
	return nil
}
