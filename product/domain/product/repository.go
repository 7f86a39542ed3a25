package product

import "context"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter selects products in natural store order. Nil bounds are open.
type Filter struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	Seller   string
	Skip     int
	Limit    int
}

// Update holds the mutable fields; nil leaves a field untouched.
type Update struct {
	Title       *string
	Description *string
	Amount      *float64
	Currency    *string
}

func (u Update) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Amount == nil && u.Currency == nil
}

type Repository interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	// FindById returns nil, nil when no product has the id.
	FindById(ctx context.Context, id string) (*Product, error)
	Find(ctx context.Context, filter Filter) ([]Product, error)
	// Update returns nil, nil when no product has the id.
	Update(ctx context.Context, id string, update Update) (*Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	// Reserve takes quantity units from tracked stock. It returns ErrNotFound
	// or ErrInsufficientStock, and succeeds without change for untracked stock.
	Reserve(ctx context.Context, id string, quantity int) (*Product, error)
	Ping(ctx context.Context) error
}
