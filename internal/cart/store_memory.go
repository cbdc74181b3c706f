package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore guards all carts with one mutex, which makes every store
// operation atomic. No operation spans more than one customer, so
// contention is not a concern at demo scale.
type MemStore struct {
	mu        sync.Mutex
	carts     map[string][]LineItem
	customers CustomerDirectory
	products  ProductSource
}

func NewMemStore(customers CustomerDirectory, products ProductSource) *MemStore {
	return &MemStore{
		carts:     make(map[string][]LineItem),
		customers: customers,
		products:  products,
	}
}

func (s *MemStore) Add(ctx context.Context, customerID string, productID int64, qty int) ([]LineItem, error) {
	known, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, ErrCustomerNotFound
	}

	p, ok, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrProductNotFound
	}
	if p.Stock < qty {
		return nil, ErrInsufficientStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[customerID]
	merged := false
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, LineItem{
			ProductID: productID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  qty,
		})
	}
	s.carts[customerID] = items

	return snapshot(items), nil
}

func (s *MemStore) Get(ctx context.Context, customerID string) (Summary, error) {
	known, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return Summary{}, err
	}
	if !known {
		return Summary{}, ErrCustomerNotFound
	}

	s.mu.Lock()
	items := snapshot(s.carts[customerID])
	s.mu.Unlock()

	return Summary{
		CustomerID: customerID,
		Items:      items,
		Total:      total(items),
		ItemCount:  len(items),
	}, nil
}

func (s *MemStore) Checkout(ctx context.Context, customerID string) (Receipt, error) {
	known, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return Receipt{}, err
	}
	if !known {
		return Receipt{}, ErrCustomerNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[customerID]
	if len(items) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	r := Receipt{
		OrderID:    uuid.NewString(),
		CustomerID: customerID,
		Total:      total(items),
		Status:     "completed",
		Timestamp:  time.Now().UTC(),
	}

	// Emptied, not deleted: the customer keeps an empty cart afterwards.
	s.carts[customerID] = []LineItem{}

	return r, nil
}

// snapshot copies the lines so callers never alias store-owned slices.
func snapshot(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func total(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}
