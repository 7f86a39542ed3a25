package additem

import (
	"context"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/protocols"
	"github.com/giovaniif/fusion-store/cart/use_cases/pricing"
	"github.com/giovaniif/fusion-store/cart/use_cases/reservation"
	"github.com/giovaniif/fusion-store/cart/use_cases/validation"
	"github.com/giovaniif/fusion-store/infra"
)

type AddItem struct {
	cartStore        protocols.CartStore
	productDirectory protocols.ProductDirectory
	reservation      *reservation.Reservation
	pricing          *pricing.Pricing
}

func NewAddItem(cartStore protocols.CartStore, productDirectory protocols.ProductDirectory) *AddItem {
	return &AddItem{
		cartStore:        cartStore,
		productDirectory: productDirectory,
		reservation:      reservation.NewReservation(productDirectory),
		pricing:          pricing.NewPricing(productDirectory, cartStore),
	}
}

// AddItem grows the item's quantity by the requested amount. The availability
// check uses the resulting total while only the added units are reserved.
func (a *AddItem) AddItem(ctx context.Context, input Input) (cart.View, error) {
	productId, err := validation.ProductId(input.ProductId)
	if err != nil {
		return cart.View{}, err
	}
	quantity, err := validation.Quantity(input.Quantity, false)
	if err != nil {
		return cart.View{}, err
	}

	unlock, err := a.cartStore.Lock(ctx, input.CartId)
	if err != nil {
		return cart.View{}, err
	}
	defer unlock()

	c, err := a.cartStore.Load(ctx, input.CartId)
	if err != nil {
		return cart.View{}, err
	}

	product, err := a.productDirectory.GetProduct(ctx, productId)
	if err != nil {
		return cart.View{}, err
	}
	if product == nil {
		return cart.View{}, infra.NewNotFoundError("Product not found")
	}

	existing, _ := c.FindItem(productId)
	target := existing.Quantity + quantity
	if err := a.reservation.Reserve(ctx, productId, product, target, quantity); err != nil {
		return cart.View{}, err
	}

	c.Upsert(productId, target)
	if err := a.cartStore.Save(ctx, c); err != nil {
		return cart.View{}, err
	}
	return a.pricing.Price(ctx, c)
}

type Input struct {
	CartId    string
	ProductId any
	Quantity  any
}
