package gre_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gre-api/internal/application/gre"
	"github.com/jhoicas/gre-api/internal/domain"
	"github.com/jhoicas/gre-api/internal/domain/entity"
	infrasunat "github.com/jhoicas/gre-api/internal/infrastructure/sunat"
)

// ─────────────────────────────────────────────────────────────────────────────
// memStore: repositorios en memoria con transacción por snapshot/rollback
// ─────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu         sync.Mutex
	waybills   map[string]*entity.Waybill
	transfers  map[string]*entity.StockTransfer
	stock      map[string]decimal.Decimal
	kardex     []*entity.InventoryTransaction
	products   map[string]*entity.Product // por SKU
	warehouses []*entity.Warehouse
	ubigeos    map[string]*entity.Ubigeo
	units      map[string]*entity.UnitMeasure

	failKardexAt int // n-ésimo Append que falla (0 = nunca)
	appends      int
	commits      int
	rollbacks    int
}

func newMemStore() *memStore {
	return &memStore{
		waybills:  map[string]*entity.Waybill{},
		transfers: map[string]*entity.StockTransfer{},
		stock:     map[string]decimal.Decimal{},
		products:  map[string]*entity.Product{},
		ubigeos:   map[string]*entity.Ubigeo{},
		units:     map[string]*entity.UnitMeasure{},
	}
}

func stockKey(productID, warehouseID string) string { return productID + "|" + warehouseID }

func (s *memStore) setStock(productID, warehouseID string, qty int64) {
	s.stock[stockKey(productID, warehouseID)] = decimal.NewFromInt(qty)
}

func (s *memStore) qty(productID, warehouseID string) decimal.Decimal {
	return s.stock[stockKey(productID, warehouseID)]
}

type snapshot struct {
	waybills  map[string]*entity.Waybill
	transfers map[string]*entity.StockTransfer
	stock     map[string]decimal.Decimal
	kardex    []*entity.InventoryTransaction
}

func (s *memStore) snapshot() snapshot {
	snap := snapshot{
		waybills:  make(map[string]*entity.Waybill, len(s.waybills)),
		transfers: make(map[string]*entity.StockTransfer, len(s.transfers)),
		stock:     make(map[string]decimal.Decimal, len(s.stock)),
		kardex:    append([]*entity.InventoryTransaction(nil), s.kardex...),
	}
	for k, v := range s.waybills {
		snap.waybills[k] = copyWaybill(v)
	}
	for k, v := range s.transfers {
		snap.transfers[k] = copyTransfer(v)
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.waybills, s.transfers, s.stock, s.kardex = snap.waybills, snap.transfers, snap.stock, snap.kardex
}

// RunLedger serializa las transacciones y revierte todo si fn falla.
func (s *memStore) RunLedger(ctx context.Context, fn func(gre.LedgerRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	err := fn(s.repos())
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.restore(snap)
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

func (s *memStore) repos() gre.LedgerRepos {
	return gre.LedgerRepos{
		Waybills:   memWaybills{s},
		Transfers:  memTransfers{s},
		Stock:      memStock{s},
		Kardex:     memKardex{s},
		Products:   memProducts{s},
		Warehouses: memWarehouses{s},
	}
}

func copyWaybill(w *entity.Waybill) *entity.Waybill {
	cp := *w
	cp.Lines = append([]entity.WaybillLine(nil), w.Lines...)
	return &cp
}

func copyTransfer(t *entity.StockTransfer) *entity.StockTransfer {
	cp := *t
	cp.Items = append([]entity.StockTransferItem(nil), t.Items...)
	return &cp
}

type memWaybills struct{ s *memStore }

func (r memWaybills) Create(_ context.Context, w *entity.Waybill) error {
	for _, e := range r.s.waybills {
		if e.Series == w.Series && e.Number == w.Number {
			return domain.ErrDuplicate
		}
	}
	if w.ID == "" {
		w.ID = "wb-" + w.FullNumber()
	}
	for i := range w.Lines {
		w.Lines[i].WaybillID = w.ID
	}
	r.s.waybills[w.ID] = copyWaybill(w)
	return nil
}

func (r memWaybills) GetByID(_ context.Context, id string) (*entity.Waybill, error) {
	if w, ok := r.s.waybills[id]; ok {
		return copyWaybill(w), nil
	}
	return nil, nil
}

func (r memWaybills) GetForUpdate(ctx context.Context, id string) (*entity.Waybill, error) {
	return r.GetByID(ctx, id)
}

func (r memWaybills) ExistsBySeriesNumber(_ context.Context, series string, number int) (bool, error) {
	for _, w := range r.s.waybills {
		if w.Series == series && w.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r memWaybills) MaxNumber(_ context.Context, series string) (int, error) {
	last := 0
	for _, w := range r.s.waybills {
		if w.Series == series && w.Number > last {
			last = w.Number
		}
	}
	return last, nil
}

func (r memWaybills) MarkVoided(_ context.Context, id, userID string, at time.Time) error {
	w, ok := r.s.waybills[id]
	if !ok || w.Status != entity.WaybillStatusAccepted {
		return domain.ErrNotFound
	}
	w.Status = entity.WaybillStatusVoided
	w.VoidedAt = &at
	w.VoidedBy = userID
	return nil
}

type memTransfers struct{ s *memStore }

func (r memTransfers) Create(_ context.Context, t *entity.StockTransfer) error {
	if t.ID == "" {
		t.ID = "tr-" + t.GreSeries + "-" + t.GreNumber
	}
	r.s.transfers[t.ID] = copyTransfer(t)
	return nil
}

func (r memTransfers) GetByWaybillForUpdate(_ context.Context, waybillID, series, number string) (*entity.StockTransfer, error) {
	for _, t := range r.s.transfers {
		if t.WaybillID == waybillID {
			return copyTransfer(t), nil
		}
	}
	for _, t := range r.s.transfers {
		if t.WaybillID == "" && t.GreSeries == series && t.GreNumber == number {
			return copyTransfer(t), nil
		}
	}
	return nil, nil
}

func (r memTransfers) MarkVoided(_ context.Context, id string, at time.Time) error {
	t, ok := r.s.transfers[id]
	if !ok || t.Status != entity.TransferStatusActive {
		return domain.ErrNotFound
	}
	t.Status = entity.TransferStatusVoided
	t.VoidedAt = &at
	return nil
}

type memStock struct{ s *memStore }

func (r memStock) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return &entity.Stock{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    r.s.stock[stockKey(productID, warehouseID)],
	}, nil
}

func (r memStock) Upsert(_ context.Context, st *entity.Stock) error {
	r.s.stock[stockKey(st.ProductID, st.WarehouseID)] = st.Quantity
	return nil
}

func (r memStock) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	key := stockKey(productID, warehouseID)
	if _, ok := r.s.stock[key]; !ok {
		r.s.stock[key] = decimal.Zero
	}
	return r.Get(ctx, productID, warehouseID)
}

type memKardex struct{ s *memStore }

var errKardexCaido = errors.New("kardex no disponible")

func (r memKardex) Append(_ context.Context, t *entity.InventoryTransaction) error {
	r.s.appends++
	if r.s.failKardexAt > 0 && r.s.appends == r.s.failKardexAt {
		return errKardexCaido
	}
	r.s.kardex = append(r.s.kardex, t)
	return nil
}

func (r memKardex) ListByReference(_ context.Context, ref string) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for _, t := range r.s.kardex {
		if t.Reference == ref {
			out = append(out, t)
		}
	}
	return out, nil
}

type memProducts struct{ s *memStore }

func (r memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r memProducts) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	return r.s.products[strings.ToUpper(sku)], nil
}

type memWarehouses struct{ s *memStore }

func (r memWarehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	for _, w := range r.s.warehouses {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (r memWarehouses) GetByAddress(_ context.Context, address string) (*entity.Warehouse, error) {
	for _, w := range r.s.warehouses {
		if strings.EqualFold(strings.TrimSpace(w.Address), strings.TrimSpace(address)) {
			return w, nil
		}
	}
	return nil, nil
}

type memUbigeos struct{ s *memStore }

func (r memUbigeos) GetByCode(_ context.Context, code string) (*entity.Ubigeo, error) {
	return r.s.ubigeos[code], nil
}

func (r memUbigeos) UpsertBatch(_ context.Context, items []entity.Ubigeo) (int, error) {
	for i := range items {
		u := items[i]
		r.s.ubigeos[u.Code] = &u
	}
	return len(items), nil
}

type memUnits struct{ s *memStore }

func (r memUnits) GetBySunatCode(_ context.Context, code string) (*entity.UnitMeasure, error) {
	return r.s.units[code], nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Autoridad simulada, archivo y certificado
// ─────────────────────────────────────────────────────────────────────────────

type fakeAuthority struct {
	authErr   error
	submitErr error
	status    *infrasunat.TicketStatus
	pollErr   error

	onPoll func()

	submitted []*infrasunat.Package
	polled    int
}

func (f *fakeAuthority) Authenticate(context.Context) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return "token", nil
}

func (f *fakeAuthority) Submit(_ context.Context, _ string, pkg *infrasunat.Package) (string, error) {
	f.submitted = append(f.submitted, pkg)
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "TICKET-1", nil
}

func (f *fakeAuthority) PollStatus(_ context.Context, _ string, ticket string) (*infrasunat.TicketStatus, error) {
	f.polled++
	if f.onPoll != nil {
		f.onPoll()
	}
	if f.status == nil {
		return &infrasunat.TicketStatus{Ticket: ticket, Code: "0", Attempts: 1}, f.pollErr
	}
	return f.status, f.pollErr
}

type memArchive struct {
	xml map[string][]byte
	cdr map[string][]byte
}

func newMemArchive() *memArchive {
	return &memArchive{xml: map[string][]byte{}, cdr: map[string][]byte{}}
}

func (a *memArchive) SaveSignedXML(_ context.Context, name string, data []byte) error {
	a.xml[name] = data
	return nil
}

func (a *memArchive) SaveCDR(_ context.Context, name string, data []byte) error {
	a.cdr[name] = data
	return nil
}

var (
	certOnce sync.Once
	certVal  tls.Certificate
	certErr  error
)

func certificadoDePrueba(t *testing.T) tls.Certificate {
	t.Helper()
	certOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			certErr = err
			return
		}
		tpl := &x509.Certificate{
			SerialNumber: big.NewInt(1),
			Subject:      pkix.Name{CommonName: "EMISOR PRUEBA SAC"},
			NotBefore:    time.Now().Add(-time.Hour),
			NotAfter:     time.Now().Add(24 * time.Hour),
		}
		der, err := x509.CreateCertificate(rand.Reader, tpl, tpl, &key.PublicKey, key)
		if err != nil {
			certErr = err
			return
		}
		certVal = tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
	})
	require.NoError(t, certErr)
	return certVal
}
