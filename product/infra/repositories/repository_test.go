package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/giovaniif/fusion-store/product/domain/product"
)

const sellerA = "64b7f0c2a1b2c3d4e5f60001"
const sellerB = "64b7f0c2a1b2c3d4e5f60002"

func seed(t *testing.T, repo product.Repository, title string, amount float64, seller string) *product.Product {
	t.Helper()
	created, err := repo.Create(context.Background(), &product.Product{
		Title:  title,
		Price:  product.Price{Amount: amount, Currency: "INR"},
		Seller: seller,
		Images: []product.Image{},
	})
	if err != nil {
		t.Fatalf("create %s: %v", title, err)
	}
	return created
}

func titles(products []product.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Title)
	}
	return out
}

func sameTitles(got []product.Product, expected ...string) bool {
	return fmt.Sprint(titles(got)) == fmt.Sprint(expected)
}

func exerciseRepository(t *testing.T, repo product.Repository) {
	t.Helper()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		seed(t, repo, fmt.Sprintf("Item %d", i), float64(i*50), sellerA)
	}
	blue := seed(t, repo, "Blue Shirt", 500, sellerB)

	page, err := repo.Find(ctx, product.Filter{Skip: 2, Limit: 2})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !sameTitles(page, "Item 3", "Item 4") {
		t.Fatalf("expected Item 3 and Item 4, got %v", titles(page))
	}

	lo, hi := 100.0, 200.0
	ranged, err := repo.Find(ctx, product.Filter{MinPrice: &lo, MaxPrice: &hi, Limit: 20})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !sameTitles(ranged, "Item 2", "Item 3", "Item 4") {
		t.Fatalf("expected inclusive price range, got %v", titles(ranged))
	}

	searched, err := repo.Find(ctx, product.Filter{Query: "Blue", Limit: 20})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !sameTitles(searched, "Blue Shirt") {
		t.Fatalf("expected Blue Shirt, got %v", titles(searched))
	}

	bySeller, err := repo.Find(ctx, product.Filter{Seller: sellerB, Limit: 20})
	if err != nil || !sameTitles(bySeller, "Blue Shirt") {
		t.Fatalf("expected seller filter, got %v (%v)", titles(bySeller), err)
	}

	found, err := repo.FindById(ctx, blue.Id)
	if err != nil || found == nil || found.Title != "Blue Shirt" || found.Seller != sellerB {
		t.Fatalf("expected Blue Shirt by id, got %+v (%v)", found, err)
	}
	missing, err := repo.FindById(ctx, "64b7f0c2a1b2c3d4e5f6ffff")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing id, got %+v (%v)", missing, err)
	}

	title, amount, currency := "Red Shirt", 150.0, "USD"
	updated, err := repo.Update(ctx, blue.Id, product.Update{Title: &title, Amount: &amount, Currency: &currency})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if updated.Title != "Red Shirt" || updated.Price != (product.Price{Amount: 150, Currency: "USD"}) {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if none, err := repo.Update(ctx, "64b7f0c2a1b2c3d4e5f6ffff", product.Update{Title: &title}); err != nil || none != nil {
		t.Fatalf("expected nil, nil updating a missing product, got %+v (%v)", none, err)
	}

	deleted, err := repo.Delete(ctx, blue.Id)
	if err != nil || !deleted {
		t.Fatalf("expected delete to succeed, got %v (%v)", deleted, err)
	}
	deleted, err = repo.Delete(ctx, blue.Id)
	if err != nil || deleted {
		t.Fatalf("expected second delete to report false, got %v (%v)", deleted, err)
	}
	if gone, _ := repo.FindById(ctx, blue.Id); gone != nil {
		t.Fatalf("expected product to be gone")
	}
}

func exerciseReserve(t *testing.T, repo product.Repository) {
	t.Helper()
	ctx := context.Background()

	stock := 3
	tracked, err := repo.Create(ctx, &product.Product{
		Title: "Tracked", Price: product.Price{Amount: 1, Currency: "INR"}, Seller: sellerA, Stock: &stock,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	untracked := seed(t, repo, "Untracked", 1, sellerA)

	reserved, err := repo.Reserve(ctx, tracked.Id, 2)
	if err != nil || reserved.Stock == nil || *reserved.Stock != 1 {
		t.Fatalf("expected stock 1 after reserving 2, got %+v (%v)", reserved, err)
	}
	if _, err := repo.Reserve(ctx, tracked.Id, 2); !errors.Is(err, product.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if _, err := repo.Reserve(ctx, untracked.Id, 1000); err != nil {
		t.Fatalf("expected untracked stock to always reserve, got %v", err)
	}
	if _, err := repo.Reserve(ctx, "64b7f0c2a1b2c3d4e5f6ffff", 1); !errors.Is(err, product.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
