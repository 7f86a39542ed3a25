package viewcart

import (
	"context"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/protocols"
	"github.com/giovaniif/fusion-store/cart/use_cases/pricing"
)

type ViewCart struct {
	cartStore protocols.CartStore
	pricing   *pricing.Pricing
}

func NewViewCart(cartStore protocols.CartStore, productDirectory protocols.ProductDirectory) *ViewCart {
	return &ViewCart{
		cartStore: cartStore,
		pricing:   pricing.NewPricing(productDirectory, cartStore),
	}
}

// ViewCart takes the cart lock because pricing may prune stale items.
func (v *ViewCart) ViewCart(ctx context.Context, cartId string) (cart.View, error) {
	unlock, err := v.cartStore.Lock(ctx, cartId)
	if err != nil {
		return cart.View{}, err
	}
	defer unlock()

	c, err := v.cartStore.Load(ctx, cartId)
	if err != nil {
		return cart.View{}, err
	}
	return v.pricing.Price(ctx, c)
}
