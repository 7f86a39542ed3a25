package deleteproduct

import (
	"context"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/protocols"
	"github.com/giovaniif/fusion-store/product/use_cases/getproduct"
	"github.com/giovaniif/fusion-store/product/use_cases/notify"
)

type DeleteProduct struct {
	repository product.Repository
	notifier   *notify.Notifier
}

func NewDeleteProduct(repository product.Repository, notifier *notify.Notifier) *DeleteProduct {
	return &DeleteProduct{repository: repository, notifier: notifier}
}

func (d *DeleteProduct) DeleteProduct(ctx context.Context, input Input) error {
	existing, err := getproduct.Find(ctx, d.repository, input.Id)
	if err != nil {
		return err
	}
	if !existing.ManageableBy(input.CallerId, input.CallerIsAdmin) {
		return infra.NewForbiddenError("Forbidden: not the owner of this product")
	}

	deleted, err := d.repository.Delete(ctx, input.Id)
	if err != nil {
		return err
	}
	if !deleted {
		return infra.NewNotFoundError("Product not found")
	}
	d.notifier.Notify(ctx, protocols.EventProductDeleted, existing, 0)
	return nil
}

type Input struct {
	Id            string
	CallerId      string
	CallerIsAdmin bool
}
