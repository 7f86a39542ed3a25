package protocols

import (
	"context"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
)

type Unlock func()

type CartStore interface {
	// Lock blocks until the caller holds the cart exclusively or ctx is done.
	Lock(ctx context.Context, cartId string) (Unlock, error)
	// Load returns an empty cart when none is stored.
	Load(ctx context.Context, cartId string) (*cart.Cart, error)
	// Save replaces the stored cart; an empty cart is deleted.
	Save(ctx context.Context, c *cart.Cart) error
	Ping(ctx context.Context) error
}
