package updateitem

import (
	"context"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/protocols"
	"github.com/giovaniif/fusion-store/cart/use_cases/pricing"
	"github.com/giovaniif/fusion-store/cart/use_cases/reservation"
	"github.com/giovaniif/fusion-store/cart/use_cases/validation"
	"github.com/giovaniif/fusion-store/infra"
)

type UpdateItem struct {
	cartStore        protocols.CartStore
	productDirectory protocols.ProductDirectory
	reservation      *reservation.Reservation
	pricing          *pricing.Pricing
}

func NewUpdateItem(cartStore protocols.CartStore, productDirectory protocols.ProductDirectory) *UpdateItem {
	return &UpdateItem{
		cartStore:        cartStore,
		productDirectory: productDirectory,
		reservation:      reservation.NewReservation(productDirectory),
		pricing:          pricing.NewPricing(productDirectory, cartStore),
	}
}

// UpdateItem sets an absolute quantity. Zero removes the item without touching
// the product service; decreases never reserve.
func (u *UpdateItem) UpdateItem(ctx context.Context, input Input) (cart.View, error) {
	productId, err := validation.ProductId(input.ProductId)
	if err != nil {
		return cart.View{}, err
	}

	unlock, err := u.cartStore.Lock(ctx, input.CartId)
	if err != nil {
		return cart.View{}, err
	}
	defer unlock()

	c, err := u.cartStore.Load(ctx, input.CartId)
	if err != nil {
		return cart.View{}, err
	}
	existing, ok := c.FindItem(productId)
	if !ok {
		return cart.View{}, infra.NewNotFoundError("Product not found in cart")
	}

	quantity, err := validation.Quantity(input.Quantity, true)
	if err != nil {
		return cart.View{}, err
	}

	if quantity == 0 {
		c.Remove(productId)
		if err := u.cartStore.Save(ctx, c); err != nil {
			return cart.View{}, err
		}
		return u.pricing.Price(ctx, c)
	}

	product, err := u.productDirectory.GetProduct(ctx, productId)
	if err != nil {
		return cart.View{}, err
	}
	if product == nil {
		return cart.View{}, infra.NewNotFoundError("Product not found")
	}

	delta := quantity - existing.Quantity
	if err := u.reservation.Reserve(ctx, productId, product, quantity, delta); err != nil {
		return cart.View{}, err
	}

	c.Upsert(productId, quantity)
	if err := u.cartStore.Save(ctx, c); err != nil {
		return cart.View{}, err
	}
	return u.pricing.Price(ctx, c)
}

type Input struct {
	CartId    string
	ProductId any
	Quantity  any
}
