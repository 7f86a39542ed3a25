package removeitem

import (
	"context"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/protocols"
	"github.com/giovaniif/fusion-store/cart/use_cases/pricing"
	"github.com/giovaniif/fusion-store/cart/use_cases/validation"
	"github.com/giovaniif/fusion-store/infra"
)

type RemoveItem struct {
	cartStore protocols.CartStore
	pricing   *pricing.Pricing
}

func NewRemoveItem(cartStore protocols.CartStore, productDirectory protocols.ProductDirectory) *RemoveItem {
	return &RemoveItem{
		cartStore: cartStore,
		pricing:   pricing.NewPricing(productDirectory, cartStore),
	}
}

func (r *RemoveItem) RemoveItem(ctx context.Context, input Input) (cart.View, error) {
	productId, err := validation.ProductId(input.ProductId)
	if err != nil {
		return cart.View{}, err
	}

	unlock, err := r.cartStore.Lock(ctx, input.CartId)
	if err != nil {
		return cart.View{}, err
	}
	defer unlock()

	c, err := r.cartStore.Load(ctx, input.CartId)
	if err != nil {
		return cart.View{}, err
	}
	if !c.Remove(productId) {
		return cart.View{}, infra.NewNotFoundError("Product not found in cart")
	}
	if err := r.cartStore.Save(ctx, c); err != nil {
		return cart.View{}, err
	}
	return r.pricing.Price(ctx, c)
}

type Input struct {
	CartId    string
	ProductId any
}
