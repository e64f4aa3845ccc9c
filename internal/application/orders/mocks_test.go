package orders_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/chatcommerce-api/internal/application/dto"
	"github.com/tu-usuario/chatcommerce-api/internal/application/orders"
	"github.com/tu-usuario/chatcommerce-api/internal/domain"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/entity"
	"github.com/tu-usuario/chatcommerce-api/internal/domain/repository"
	"github.com/tu-usuario/chatcommerce-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// memStore: base en memoria que implementa todos los puertos de persistencia.
// El memTxRunner toma un snapshot antes de fn y restaura si fn falla, para
// emular el todo-o-nada del rollback real.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	stock        map[entity.StockKey]*entity.StockItem
	movements    []*entity.StockMovement
	reservations map[string]*entity.StockReservation
	orders       map[string]*entity.Order
	items        map[string]*entity.OrderItem
	history      []*entity.OrderStatusHistory
	customers    map[string]*entity.Customer
	products     map[string]*entity.Product

	// forcedNumberConflicts hace fallar Create con ErrOrderNumberConflict
	// las próximas n veces (simula la carrera del consecutivo).
	forcedNumberConflicts int
}

func newMemStore() *memStore {
	return &memStore{
		stock:        map[entity.StockKey]*entity.StockItem{},
		reservations: map[string]*entity.StockReservation{},
		orders:       map[string]*entity.Order{},
		items:        map[string]*entity.OrderItem{},
		customers:    map[string]*entity.Customer{},
		products:     map[string]*entity.Product{},
	}
}

func (s *memStore) clone() *memStore {
	cp := newMemStore()
	for k, v := range s.stock {
		vv := *v
		cp.stock[k] = &vv
	}
	for _, m := range s.movements {
		mm := *m
		cp.movements = append(cp.movements, &mm)
	}
	for k, v := range s.reservations {
		vv := *v
		cp.reservations[k] = &vv
	}
	for k, v := range s.orders {
		vv := *v
		cp.orders[k] = &vv
	}
	for k, v := range s.items {
		vv := *v
		cp.items[k] = &vv
	}
	for _, h := range s.history {
		hh := *h
		cp.history = append(cp.history, &hh)
	}
	for k, v := range s.customers {
		vv := *v
		cp.customers[k] = &vv
	}
	for k, v := range s.products {
		vv := *v
		cp.products[k] = &vv
	}
	cp.forcedNumberConflicts = s.forcedNumberConflicts
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.stock = snap.stock
	s.movements = snap.movements
	s.reservations = snap.reservations
	s.orders = snap.orders
	s.items = snap.items
	s.history = snap.history
	s.customers = snap.customers
	s.products = snap.products
}

// StockRepository

func (s *memStore) Get(key entity.StockKey) (*entity.StockItem, error) {
	if it, ok := s.stock[key]; ok {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (s *memStore) GetForUpdate(key entity.StockKey) (*entity.StockItem, error) {
	return s.Get(key)
}

func (s *memStore) Upsert(item *entity.StockItem) error {
	cp := *item
	s.stock[item.Key()] = &cp
	return nil
}

// StockMovementRepository

func (s *memStore) Create(m *entity.StockMovement) error {
	cp := *m
	s.movements = append(s.movements, &cp)
	return nil
}

func (s *memStore) ListByStockItem(stockItemID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.StockItemID == stockItemID {
			out = append(out, m)
		}
	}
	return out, nil
}

// StockReservationRepository (Create de reservas va con otro nombre por el
// choque con movimientos; el compilador exige métodos distintos por interfaz,
// así que memStore se expone a través de vistas tipadas).

type resRepoView struct{ s *memStore }

func (v resRepoView) Create(r *entity.StockReservation) error {
	cp := *r
	v.s.reservations[r.ID] = &cp
	return nil
}

func (v resRepoView) GetActive(orderID, productID, variantID string) (*entity.StockReservation, error) {
	for _, r := range v.s.reservations {
		if r.OrderID == orderID && r.ProductID == productID && r.VariantID == variantID &&
			r.Status == entity.ReservationStatusActive {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (v resRepoView) ListActiveByOrder(orderID string) ([]*entity.StockReservation, error) {
	var out []*entity.StockReservation
	for _, r := range v.s.reservations {
		if r.OrderID == orderID && r.Status == entity.ReservationStatusActive {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (v resRepoView) UpdateQuantity(id string, quantity int) error {
	r, ok := v.s.reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Quantity = quantity
	return nil
}

func (v resRepoView) MarkReleased(id string) error {
	r, ok := v.s.reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = entity.ReservationStatusReleased
	return nil
}

// OrderRepository

type orderRepoView struct{ s *memStore }

func (v orderRepoView) Create(order *entity.Order) error {
	if v.s.forcedNumberConflicts > 0 {
		v.s.forcedNumberConflicts--
		return domain.ErrOrderNumberConflict
	}
	for _, o := range v.s.orders {
		if o.WorkspaceID == order.WorkspaceID && o.Number == order.Number {
			return domain.ErrOrderNumberConflict
		}
	}
	cp := *order
	v.s.orders[order.ID] = &cp
	return nil
}

func (v orderRepoView) GetByID(id string) (*entity.Order, error) {
	if o, ok := v.s.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (v orderRepoView) LastNumber(workspaceID string) (int64, error) {
	var last int64
	for _, o := range v.s.orders {
		if o.WorkspaceID == workspaceID && o.Number > last {
			last = o.Number
		}
	}
	return last, nil
}

func (v orderRepoView) CountCreatedSince(workspaceID string, since time.Time) (int, error) {
	n := 0
	for _, o := range v.s.orders {
		if o.WorkspaceID == workspaceID && !o.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (v orderRepoView) UpdateStatus(id, status string) error {
	o, ok := v.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	return nil
}

func (v orderRepoView) UpdateTotals(id string, subtotal, total decimal.Decimal) error {
	o, ok := v.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Subtotal, o.Total = subtotal, total
	return nil
}

func (v orderRepoView) CreateItem(item *entity.OrderItem) error {
	cp := *item
	v.s.items[item.ID] = &cp
	return nil
}

func (v orderRepoView) ListItems(orderID string) ([]*entity.OrderItem, error) {
	var out []*entity.OrderItem
	for _, it := range v.s.items {
		if it.OrderID == orderID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (v orderRepoView) UpdateItemQuantity(itemID string, quantity int, total decimal.Decimal) error {
	it, ok := v.s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity, it.Total = quantity, total
	return nil
}

func (v orderRepoView) DeleteItem(itemID string) error {
	delete(v.s.items, itemID)
	return nil
}

func (v orderRepoView) CreateStatusHistory(h *entity.OrderStatusHistory) error {
	cp := *h
	v.s.history = append(v.s.history, &cp)
	return nil
}

func (v orderRepoView) ListStatusHistory(orderID string) ([]*entity.OrderStatusHistory, error) {
	var out []*entity.OrderStatusHistory
	for _, h := range v.s.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

// CustomerRepository

type customerRepoView struct{ s *memStore }

func (v customerRepoView) GetByID(id string) (*entity.Customer, error) {
	if c, ok := v.s.customers[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (v customerRepoView) ApplyOrderStats(id string, ordersDelta int, amount decimal.Decimal, lastOrderAt *time.Time) error {
	c, ok := v.s.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.OrderCount += ordersDelta
	c.TotalSpent = c.TotalSpent.Add(amount)
	if lastOrderAt != nil {
		t := *lastOrderAt
		c.LastOrderAt = &t
	}
	return nil
}

// ProductRepository

type productRepoView struct{ s *memStore }

func (v productRepoView) GetByID(id string) (*entity.Product, error) {
	if p, ok := v.s.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner con snapshot/restore
// ──────────────────────────────────────────────────────────────────────────────

type memTxRunner struct{ s *memStore }

func (r *memTxRunner) RunOrder(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	resRepo repository.StockReservationRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	snap := r.s.clone()
	if err := fn(r.s, r.s, resRepoView{r.s}, orderRepoView{r.s}, customerRepoView{r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Puertos externos
// ──────────────────────────────────────────────────────────────────────────────

type fakeIdemStore struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeIdemStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.values[key], nil
}

func (f *fakeIdemStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

type fakeCartStore struct {
	carts   map[string]*dto.CartSnapshot
	cleared []string
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*dto.CartSnapshot{}}
}

func (f *fakeCartStore) Get(ctx context.Context, workspaceID, sessionID string) (*dto.CartSnapshot, error) {
	return f.carts[workspaceID+"/"+sessionID], nil
}

func (f *fakeCartStore) Clear(ctx context.Context, workspaceID, sessionID string) error {
	delete(f.carts, workspaceID+"/"+sessionID)
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type fakePlanLimits struct{ quota int }

func (f fakePlanLimits) MonthlyOrderQuota(ctx context.Context, workspaceID string) (int, error) {
	return f.quota, nil
}

type fakeNotifier struct {
	events []orders.OrderEvent
	err    error
}

func (f *fakeNotifier) Notify(ctx context.Context, e orders.OrderEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}
