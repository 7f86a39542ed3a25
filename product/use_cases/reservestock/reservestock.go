package reservestock

import (
	"context"
	"errors"
	"math"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/infra/metrics"
	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/protocols"
	"github.com/giovaniif/fusion-store/product/use_cases/notify"
)

const insufficientMessage = "Insufficient stock"

type ReserveStock struct {
	repository product.Repository
	notifier   *notify.Notifier
}

func NewReserveStock(repository product.Repository, notifier *notify.Notifier) *ReserveStock {
	return &ReserveStock{repository: repository, notifier: notifier}
}

// ReserveStock takes quantity units out of the product's stock in one atomic
// step. Insufficient stock is a conflict; untracked stock always succeeds.
func (r *ReserveStock) ReserveStock(ctx context.Context, input Input) (*product.Product, error) {
	if !product.IsValidId(input.Id) {
		return nil, infra.NewValidationError("Invalid product id")
	}
	quantity, ok := positiveInt(input.Quantity)
	if !ok {
		return nil, infra.NewValidationError("Quantity must be a positive integer")
	}

	reserved, err := r.repository.Reserve(ctx, input.Id, quantity)
	switch {
	case errors.Is(err, product.ErrNotFound):
		metrics.ProductReservations.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, infra.NewNotFoundError("Product not found")
	case errors.Is(err, product.ErrInsufficientStock):
		metrics.ProductReservations.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, infra.NewConflictError(insufficientMessage)
	case err != nil:
		metrics.ProductReservations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	metrics.ProductReservations.WithLabelValues(metrics.OutcomeReserved).Inc()
	r.notifier.Notify(ctx, protocols.EventProductReserved, reserved, quantity)
	return reserved, nil
}

func positiveInt(raw any) (int, bool) {
	f, ok := raw.(float64)
	if !ok {
		if n, isInt := raw.(int); isInt {
			f = float64(n)
		} else {
			return 0, false
		}
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

type Input struct {
	Id       string
	Quantity any
}
