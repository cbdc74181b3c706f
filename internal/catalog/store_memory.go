package catalog

import (
	"context"
	"strings"
)

// MemStore keeps the catalog as an ordered slice plus an id index. The data
// never changes after construction, so reads need no locking.
type MemStore struct {
	products []Product
	byID     map[int64]Product
}

func NewMemStore(products []Product) *MemStore {
	s := &MemStore{
		products: products,
		byID:     make(map[int64]Product, len(products)),
	}
	for _, p := range products {
		s.byID[p.ID] = p
	}
	return s
}

// SeedProducts is the demo catalog every fresh process starts with.
func SeedProducts() []Product {
	return []Product{
		{ID: 1, Name: "iPhone 15 Pro", Price: 999.99, Category: "Electronics", Stock: 50},
		{ID: 2, Name: "Samsung Galaxy S24", Price: 899.99, Category: "Electronics", Stock: 30},
		{ID: 3, Name: "MacBook Pro M3", Price: 1999.99, Category: "Computers", Stock: 25},
		{ID: 4, Name: "Dell XPS 13", Price: 1299.99, Category: "Computers", Stock: 40},
		{ID: 5, Name: "Sony WH-1000XM5", Price: 399.99, Category: "Audio", Stock: 60},
		{ID: 6, Name: "AirPods Pro", Price: 249.99, Category: "Audio", Stock: 80},
		{ID: 7, Name: "Nike Air Max", Price: 129.99, Category: "Shoes", Stock: 100},
		{ID: 8, Name: "Adidas Ultraboost", Price: 180.99, Category: "Shoes", Stock: 75},
		{ID: 9, Name: "Levi's 501 Jeans", Price: 89.99, Category: "Clothing", Stock: 120},
		{ID: 10, Name: "Uniqlo T-Shirt", Price: 19.99, Category: "Clothing", Stock: 200},
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context, page, limit int, category string) ([]Product, int, error) {
	filtered := s.products
	if category != "" {
		filtered = make([]Product, 0, len(s.products))
		for _, p := range s.products {
			if strings.EqualFold(p.Category, category) {
				filtered = append(filtered, p)
			}
		}
	}

	return window(filtered, page, limit), len(filtered), nil
}

// window slices [(page-1)*limit, +limit) out of items without erroring on
// out-of-range input.
func window(items []Product, page, limit int) []Product {
	start := (page - 1) * limit
	if start < 0 || start >= len(items) || limit <= 0 {
		return []Product{}
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	p, ok := s.byID[id]
	return p, ok, nil
}

func (s *MemStore) Search(ctx context.Context, query, category string) ([]Product, error) {
	q := strings.ToLower(query)

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
