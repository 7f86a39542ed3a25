package protocols

import (
	"context"

	"github.com/giovaniif/fusion-store/cart/domain/product"
)

type ProductDirectory interface {
	// GetProduct returns nil, nil when the product does not exist.
	GetProduct(ctx context.Context, productId string) (*product.Product, error)
	ReserveProduct(ctx context.Context, productId string, quantity int) (*product.ReservationResult, error)
}
