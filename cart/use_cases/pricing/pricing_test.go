package pricing

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/domain/product"
	"github.com/giovaniif/fusion-store/cart/infra/repositories"
	"github.com/giovaniif/fusion-store/infra"
)

type mockProductDirectory struct {
	products map[string]*product.Product
	getErr   error
	getCalls []string
}

func (m *mockProductDirectory) GetProduct(_ context.Context, productId string) (*product.Product, error) {
	m.getCalls = append(m.getCalls, productId)
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.products[productId], nil
}

func (m *mockProductDirectory) ReserveProduct(context.Context, string, int) (*product.ReservationResult, error) {
	return &product.ReservationResult{Success: true}, nil
}

func priced(id, name string, price float64) *product.Product {
	return &product.Product{Id: id, Name: name, Price: &price, Currency: "USD"}
}

func TestPriceUsesCurrentPrices(t *testing.T) {
	store := repositories.NewCartRepositoryMemory()
	directory := &mockProductDirectory{products: map[string]*product.Product{
		"p1": priced("p1", "Lamp", 50),
	}}
	uc := NewPricing(directory, store)
	c := cart.New("c1")
	c.Upsert("p1", 2)

	view, err := uc.Price(context.Background(), c)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if view.Subtotal != 100 {
		t.Fatalf("expected subtotal 100, got %v", view.Subtotal)
	}

	directory.products["p1"] = priced("p1", "Lamp", 75)
	view, err = uc.Price(context.Background(), c)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if view.Subtotal != 150 {
		t.Fatalf("expected subtotal 150, got %v", view.Subtotal)
	}
	line := view.Items[0]
	if line.ProductId != "p1" || line.Quantity != 2 || line.UnitPrice != 75 || line.LineTotal != 150 || line.Name != "Lamp" || line.Currency != "USD" {
		t.Fatalf("unexpected line %+v", line)
	}
}

func TestPriceKeepsInsertionOrder(t *testing.T) {
	directory := &mockProductDirectory{products: map[string]*product.Product{
		"a": priced("a", "A", 1),
		"b": priced("b", "B", 2),
		"c": priced("c", "C", 3),
	}}
	uc := NewPricing(directory, repositories.NewCartRepositoryMemory())
	c := cart.New("c1")
	c.Upsert("c", 1)
	c.Upsert("a", 1)
	c.Upsert("b", 1)

	view, err := uc.Price(context.Background(), c)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(view.Items) != 3 || view.Items[0].ProductId != "c" || view.Items[1].ProductId != "a" || view.Items[2].ProductId != "b" {
		t.Fatalf("unexpected order %+v", view.Items)
	}
	if view.Subtotal != 6 {
		t.Fatalf("expected subtotal 6, got %v", view.Subtotal)
	}
}

func TestPricePrunesMissingProducts(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewCartRepositoryMemory()
	directory := &mockProductDirectory{products: map[string]*product.Product{
		"p1": priced("p1", "Lamp", 10),
	}}
	c := cart.New("c1")
	c.Upsert("gone", 1)
	c.Upsert("p1", 1)
	_ = store.Save(ctx, c)

	view, err := NewPricing(directory, store).Price(ctx, c)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].ProductId != "p1" {
		t.Fatalf("expected only p1, got %+v", view.Items)
	}

	stored, _ := store.Load(ctx, "c1")
	if _, ok := stored.FindItem("gone"); ok {
		t.Fatalf("expected stale item to be removed from the store")
	}
	if _, ok := stored.FindItem("p1"); !ok {
		t.Fatalf("expected p1 to stay in the store")
	}
}

func TestPriceUnavailable(t *testing.T) {
	for _, p := range []*product.Product{
		{Id: "p1", Name: "Lamp"},
		priced("p1", "Lamp", math.NaN()),
		priced("p1", "Lamp", math.Inf(-1)),
	} {
		directory := &mockProductDirectory{products: map[string]*product.Product{"p1": p}}
		c := cart.New("c1")
		c.Upsert("p1", 1)

		_, err := NewPricing(directory, repositories.NewCartRepositoryMemory()).Price(context.Background(), c)
		if !infra.IsKind(err, infra.KindValidation) || err.Error() != "Product price is unavailable" {
			t.Fatalf("expected price unavailable, got %v", err)
		}
	}
}

func TestPriceEmptyCart(t *testing.T) {
	view, err := NewPricing(&mockProductDirectory{}, repositories.NewCartRepositoryMemory()).Price(context.Background(), cart.New("c1"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if view.Items == nil || len(view.Items) != 0 || view.Subtotal != 0 {
		t.Fatalf("expected empty view, got %#v", view)
	}
}

func TestPricePropagatesDirectoryErrors(t *testing.T) {
	directory := &mockProductDirectory{getErr: infra.NewTimeoutError("product service")}
	c := cart.New("c1")
	c.Upsert("p1", 1)
	_, err := NewPricing(directory, repositories.NewCartRepositoryMemory()).Price(context.Background(), c)
	if !errors.Is(err, infra.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}
