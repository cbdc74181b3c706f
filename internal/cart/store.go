package cart

import (
	"context"
	"errors"
	"time"

	"MiniShop/internal/catalog"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
)

// LineItem is one product entry in a customer's cart. Name and price are
// snapshots taken when the product was first added.
type LineItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Summary is the cart as returned to the customer.
type Summary struct {
	CustomerID string     `json:"customer_id"`
	Items      []LineItem `json:"items"`
	Total      float64    `json:"total"`
	ItemCount  int        `json:"item_count"`
}

// Receipt is the ephemeral checkout result. It is returned once and not
// retrievable afterwards.
type Receipt struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Total      float64   `json:"total"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// CustomerDirectory is the slice of the customer registry the cart store
// needs: a cart for an unknown customer must be an error, never empty.
type CustomerDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ProductSource resolves products for stock checks and price snapshots.
type ProductSource interface {
	Get(ctx context.Context, id int64) (catalog.Product, bool, error)
}

type Store interface {
	// Add merges qty into an existing line for the product or appends a
	// new snapshot line, and returns the full updated cart. The stock
	// check is a point read; nothing is reserved or decremented.
	Add(ctx context.Context, customerID string, productID int64, qty int) ([]LineItem, error)

	Get(ctx context.Context, customerID string) (Summary, error)

	// Checkout totals the current lines, stamps a fresh order id, and
	// empties (not removes) the cart.
	Checkout(ctx context.Context, customerID string) (Receipt, error)
}
