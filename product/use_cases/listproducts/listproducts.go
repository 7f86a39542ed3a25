package listproducts

import (
	"context"
	"strings"

	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/use_cases/paging"
)

type ListProducts struct {
	repository product.Repository
}

func NewListProducts(repository product.Repository) *ListProducts {
	return &ListProducts{repository: repository}
}

func (l *ListProducts) ListProducts(ctx context.Context, input Input) ([]product.Product, error) {
	skip, limit, err := paging.Page(input.Skip, input.Limit)
	if err != nil {
		return nil, err
	}
	minPrice, err := paging.Bound("minprice", input.MinPrice)
	if err != nil {
		return nil, err
	}
	maxPrice, err := paging.Bound("maxprice", input.MaxPrice)
	if err != nil {
		return nil, err
	}

	products, err := l.repository.Find(ctx, product.Filter{
		Query:    strings.TrimSpace(input.Query),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Skip:     skip,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

// Input carries the raw query string values.
type Input struct {
	Query    string
	MinPrice string
	MaxPrice string
	Skip     string
	Limit    string
}
