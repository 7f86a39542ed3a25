package protocols

import (
	"context"
	"time"

	"github.com/giovaniif/fusion-store/product/domain/product"
)

const (
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventProductReserved = "product.reserved"
)

type Event struct {
	Type       string           `json:"type"`
	ProductId  string           `json:"productId"`
	Product    *product.Product `json:"product,omitempty"`
	Quantity   int              `json:"quantity,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
