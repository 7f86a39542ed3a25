package sellerproducts

import (
	"context"
	"strings"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/use_cases/paging"
)

type SellerProducts struct {
	repository product.Repository
}

func NewSellerProducts(repository product.Repository) *SellerProducts {
	return &SellerProducts{repository: repository}
}

// SellerProducts lists one seller's products. The seller comes from the
// query and falls back to the authenticated caller.
func (s *SellerProducts) SellerProducts(ctx context.Context, input Input) ([]product.Product, error) {
	seller := strings.TrimSpace(input.Seller)
	if seller == "" {
		seller = input.CallerId
	}
	if !product.IsValidId(seller) {
		return nil, infra.NewValidationError("Invalid seller id")
	}
	skip, limit, err := paging.Page(input.Skip, input.Limit)
	if err != nil {
		return nil, err
	}

	products, err := s.repository.Find(ctx, product.Filter{Seller: seller, Skip: skip, Limit: limit})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

type Input struct {
	Seller   string
	CallerId string
	Skip     string
	Limit    string
}
