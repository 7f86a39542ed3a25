package pricing

import (
	"context"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/protocols"
	"github.com/giovaniif/fusion-store/infra"
)

// Pricing builds the cart view from live product data. Stored prices are
// never used. Callers must hold the cart lock.
type Pricing struct {
	productDirectory protocols.ProductDirectory
	cartStore        protocols.CartStore
}

func NewPricing(productDirectory protocols.ProductDirectory, cartStore protocols.CartStore) *Pricing {
	return &Pricing{
		productDirectory: productDirectory,
		cartStore:        cartStore,
	}
}

// Price fetches every product in insertion order. Items whose product no
// longer exists are dropped from the stored cart and left out of the view.
func (p *Pricing) Price(ctx context.Context, c *cart.Cart) (cart.View, error) {
	view := cart.EmptyView()
	stale := []string{}

	for _, item := range c.Items {
		prod, err := p.productDirectory.GetProduct(ctx, item.ProductId)
		if err != nil {
			return cart.View{}, err
		}
		if prod == nil {
			stale = append(stale, item.ProductId)
			continue
		}

		unitPrice, ok := prod.UnitPrice()
		if !ok {
			return cart.View{}, infra.NewValidationError("Product price is unavailable")
		}
		lineTotal := unitPrice * float64(item.Quantity)
		view.Items = append(view.Items, cart.PricedItem{
			ProductId: item.ProductId,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
			Name:      prod.Name,
			Currency:  prod.Currency,
		})
		view.Subtotal += lineTotal
	}

	if len(stale) > 0 {
		for _, productId := range stale {
			c.Remove(productId)
		}
		if err := p.cartStore.Save(ctx, c); err != nil {
			return cart.View{}, err
		}
	}
	return view, nil
}
