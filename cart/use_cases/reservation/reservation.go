package reservation

import (
	"context"

	"github.com/giovaniif/fusion-store/cart/domain/product"
	"github.com/giovaniif/fusion-store/cart/protocols"
	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/infra/metrics"
)

type Reservation struct {
	productDirectory protocols.ProductDirectory
}

func NewReservation(productDirectory protocols.ProductDirectory) *Reservation {
	return &Reservation{productDirectory: productDirectory}
}

// Reserve checks target against the product's available stock, then asks the
// directory to hold only delta more units. Non-positive deltas reserve nothing.
func (r *Reservation) Reserve(ctx context.Context, productId string, p *product.Product, target, delta int) error {
	if !p.CanSupply(target) {
		return infra.NewValidationError("Requested quantity exceeds available stock")
	}
	if delta <= 0 {
		return nil
	}

	result, err := r.productDirectory.ReserveProduct(ctx, productId, delta)
	if err != nil {
		metrics.CartReservations.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}
	if result != nil && !result.Success {
		metrics.CartReservations.WithLabelValues(metrics.OutcomeRejected).Inc()
		return infra.NewValidationError("Unable to reserve stock for product")
	}
	metrics.CartReservations.WithLabelValues(metrics.OutcomeReserved).Inc()
	return nil
}
