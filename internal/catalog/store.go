package catalog

import "context"

// Product is immutable reference data: seeded once, never mutated. Stock is
// a point-in-time figure that cart checks read but nothing decrements.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
}

type Store interface {
	// List filters by case-insensitive exact category (empty means no
	// filter), then returns the [(page-1)*limit, +limit) window of the
	// filtered sequence. total is the filtered count, not the window size.
	// Out-of-range pages yield an empty or partial window, never an error.
	List(ctx context.Context, page, limit int, category string) (items []Product, total int, err error)

	Get(ctx context.Context, id int64) (Product, bool, error)

	// Search matches a case-insensitive substring of the product name,
	// optionally narrowed by exact category. Catalog order is preserved;
	// an empty query matches everything.
	Search(ctx context.Context, query, category string) ([]Product, error)

	Ping(ctx context.Context) error
}
