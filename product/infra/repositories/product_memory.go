package repositories

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/giovaniif/fusion-store/product/domain/product"
)

// ProductRepositoryMemory keeps products in insertion order. It backs local
// runs and tests; text search matches any query word case-insensitively.
type ProductRepositoryMemory struct {
	mutex    sync.RWMutex
	order    []string
	products map[string]*product.Product
}

func NewProductRepositoryMemory() *ProductRepositoryMemory {
	return &ProductRepositoryMemory{products: make(map[string]*product.Product)}
}

func (r *ProductRepositoryMemory) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored := clone(p)
	stored.Id = bson.NewObjectID().Hex()
	r.products[stored.Id] = stored
	r.order = append(r.order, stored.Id)
	return clone(stored), nil
}

func (r *ProductRepositoryMemory) FindById(ctx context.Context, id string) (*product.Product, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return clone(p), nil
}

func (r *ProductRepositoryMemory) Find(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	words := strings.Fields(strings.ToLower(filter.Query))
	out := []product.Product{}
	skipped := 0
	for _, id := range r.order {
		p := r.products[id]
		if !matches(p, filter, words) {
			continue
		}
		if skipped < filter.Skip {
			skipped++
			continue
		}
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
		out = append(out, *clone(p))
	}
	return out, nil
}

func matches(p *product.Product, filter product.Filter, words []string) bool {
	if filter.Seller != "" && p.Seller != filter.Seller {
		return false
	}
	if filter.MinPrice != nil && p.Price.Amount < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && p.Price.Amount > *filter.MaxPrice {
		return false
	}
	if len(words) == 0 {
		return true
	}
	text := strings.Fields(strings.ToLower(p.Title + " " + p.Description))
	for _, w := range words {
		for _, t := range text {
			if w == t {
				return true
			}
		}
	}
	return false
}

func (r *ProductRepositoryMemory) Update(ctx context.Context, id string, update product.Update) (*product.Product, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Amount != nil {
		p.Price.Amount = *update.Amount
	}
	if update.Currency != nil {
		p.Price.Currency = *update.Currency
	}
	return clone(p), nil
}

func (r *ProductRepositoryMemory) Delete(ctx context.Context, id string) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.products[id]; !ok {
		return false, nil
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *ProductRepositoryMemory) Reserve(ctx context.Context, id string, quantity int) (*product.Product, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	if p.Stock != nil {
		if *p.Stock < quantity {
			return nil, product.ErrInsufficientStock
		}
		remaining := *p.Stock - quantity
		p.Stock = &remaining
	}
	return clone(p), nil
}

func (r *ProductRepositoryMemory) Ping(context.Context) error {
	return nil
}

func clone(p *product.Product) *product.Product {
	c := *p
	c.Images = append([]product.Image{}, p.Images...)
	if p.Stock != nil {
		stock := *p.Stock
		c.Stock = &stock
	}
	return &c
}
