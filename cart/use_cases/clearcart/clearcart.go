package clearcart

import (
	"context"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/protocols"
	"github.com/giovaniif/fusion-store/cart/use_cases/pricing"
)

type ClearCart struct {
	cartStore protocols.CartStore
	pricing   *pricing.Pricing
}

func NewClearCart(cartStore protocols.CartStore, productDirectory protocols.ProductDirectory) *ClearCart {
	return &ClearCart{
		cartStore: cartStore,
		pricing:   pricing.NewPricing(productDirectory, cartStore),
	}
}

// ClearCart empties the cart. Reserved stock is not handed back.
func (c *ClearCart) ClearCart(ctx context.Context, cartId string) (cart.View, error) {
	unlock, err := c.cartStore.Lock(ctx, cartId)
	if err != nil {
		return cart.View{}, err
	}
	defer unlock()

	cleared := cart.New(cartId)
	if err := c.cartStore.Save(ctx, cleared); err != nil {
		return cart.View{}, err
	}
	return c.pricing.Price(ctx, cleared)
}
