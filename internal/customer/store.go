package customer

import (
	"context"
	"time"
)

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry holds customer records for the process lifetime. Records are
// created and read, never updated or deleted.
type Registry interface {
	Create(ctx context.Context, name, email string) (Customer, error)
	Get(ctx context.Context, id string) (Customer, bool, error)
	Exists(ctx context.Context, id string) (bool, error)
}
