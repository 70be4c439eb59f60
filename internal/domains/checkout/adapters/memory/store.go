package memory

import (
	"context"
	"errors"
	"sync"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

var _ ports.UnitOfWork = (*Store)(nil)
var _ ports.OrderRepository = (*Store)(nil)

// ErrDuplicateOrderNumber signals an order number collision.
var ErrDuplicateOrderNumber = errors.New("order number already exists")

// Store keeps orders and line items in memory. Its unit of work is not atomic: every write is
// visible immediately, so callers must compensate on failure.
type Store struct {
	mu         sync.RWMutex
	catalog    catalogports.Lookup
	orders     map[int64]*domain.Order
	byNumber   map[string]int64
	lineItems  map[int64][]domain.LineItem
	nextOrder  int64
	nextItemID int64
}

// NewStore builds an empty store resolving products through catalog.
func NewStore(catalog catalogports.Lookup) *Store {
	return &Store{
		catalog:   catalog,
		orders:    map[int64]*domain.Order{},
		byNumber:  map[string]int64{},
		lineItems: map[int64][]domain.LineItem{},
	}
}

// Do runs fn against the store directly.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, tx ports.Tx) error) error {
	return fn(ctx, &storeTx{store: s})
}

// GetByOrderNumber returns the order with its line items.
func (s *Store) GetByOrderNumber(_ context.Context, orderNumber string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNumber[orderNumber]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	order := s.orders[id].Clone()
	order.AttachLineItems(s.lineItems[id])
	return order, nil
}

// OrderCount reports the stored orders.
func (s *Store) OrderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// LineItemCount reports the stored line items across all orders.
func (s *Store) LineItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, items := range s.lineItems {
		n += len(items)
	}
	return n
}

type storeTx struct {
	store *Store
}

func (t *storeTx) Product(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	if t.store.catalog == nil {
		return nil, catalogports.ErrNotFound
	}
	return t.store.catalog.Product(ctx, id)
}

func (t *storeTx) CreateOrder(_ context.Context, order *domain.Order) error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byNumber[order.OrderNumber]; exists {
		return ErrDuplicateOrderNumber
	}
	s.nextOrder++
	order.ID = s.nextOrder
	stored := order.Clone()
	stored.LineItems = nil
	s.orders[order.ID] = stored
	s.byNumber[order.OrderNumber] = order.ID
	return nil
}

func (t *storeTx) CreateLineItems(_ context.Context, items []domain.LineItem) error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		if _, ok := s.orders[items[i].OrderID]; !ok {
			return ports.ErrOrderNotFound
		}
	}
	for i := range items {
		s.nextItemID++
		items[i].ID = s.nextItemID
		s.lineItems[items[i].OrderID] = append(s.lineItems[items[i].OrderID], items[i])
	}
	return nil
}

func (t *storeTx) UpdateTotals(_ context.Context, order *domain.Order) error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[order.ID]
	if !ok {
		return ports.ErrOrderNotFound
	}
	stored.OrderTotal = order.OrderTotal
	stored.DeliveryCost = order.DeliveryCost
	stored.GrandTotal = order.GrandTotal
	return nil
}

func (t *storeTx) DeleteOrder(_ context.Context, orderID int64) error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[orderID]
	if !ok {
		return ports.ErrOrderNotFound
	}
	delete(s.byNumber, stored.OrderNumber)
	delete(s.orders, orderID)
	delete(s.lineItems, orderID)
	return nil
}
