package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/protocols"
)

// Notifier publishes product events after a change is stored. A failed
// publish is logged and never fails the request that caused it.
type Notifier struct {
	publisher protocols.EventPublisher
	logger    *zap.Logger
}

func NewNotifier(publisher protocols.EventPublisher, logger *zap.Logger) *Notifier {
	return &Notifier{publisher: publisher, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, eventType string, p *product.Product, quantity int) {
	event := protocols.Event{
		Type:       eventType,
		ProductId:  p.Id,
		Quantity:   quantity,
		OccurredAt: time.Now().UTC(),
	}
	if eventType != protocols.EventProductDeleted {
		event.Product = p
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn("Failed to publish product event",
			zap.String("type", eventType),
			zap.String("product_id", p.Id),
			zap.Error(err),
		)
	}
}
