package getproduct

import (
	"context"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/product/domain/product"
)

type GetProduct struct {
	repository product.Repository
}

func NewGetProduct(repository product.Repository) *GetProduct {
	return &GetProduct{repository: repository}
}

func (g *GetProduct) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	return Find(ctx, g.repository, id)
}

// Find checks the id format before querying, so a malformed id is a 400 and
// an unknown one a 404.
func Find(ctx context.Context, repository product.Repository, id string) (*product.Product, error) {
	if !product.IsValidId(id) {
		return nil, infra.NewValidationError("Invalid product id")
	}
	p, err := repository.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, infra.NewNotFoundError("Product not found")
	}
	return p, nil
}
