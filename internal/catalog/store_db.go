package catalog

import (
	"context"
	"database/sql"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStore reads the catalog from a products table. The rest of the
// service stays in memory; this only swaps the source of the reference data.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context, page, limit int, category string) ([]Product, int, error) {
	offset := (page - 1) * limit
	if offset < 0 || limit <= 0 {
		offset, limit = 0, 0
	}

	var (
		items []Product
		total int
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx, `
			SELECT count(*)
			FROM products
			WHERE ($1 = '' OR lower(category) = lower($1))
		`, category).Scan(&total)
		if err != nil {
			return err
		}

		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, price, category, stock
			FROM products
			WHERE ($1 = '' OR lower(category) = lower($1))
			ORDER BY id ASC
			OFFSET $2 LIMIT $3
		`, category, offset, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		items, err = scanProducts(rows)
		return err
	})

	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (Product, bool, error) {
	var p Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, name, price, category, stock
			FROM products
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Stock)
	})

	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

func (s *PostgresStore) Search(ctx context.Context, query, category string) ([]Product, error) {
	var items []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, price, category, stock
			FROM products
			WHERE name ILIKE '%' || $1 || '%'
			  AND ($2 = '' OR lower(category) = lower($2))
			ORDER BY id ASC
		`, query, category)
		if err != nil {
			return err
		}
		defer rows.Close()

		items, err = scanProducts(rows)
		return err
	})

	if err != nil {
		return nil, err
	}
	return items, nil
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	out := make([]Product, 0, 16)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.Stock); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
