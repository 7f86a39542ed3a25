package getproduct

import (
	"context"
	"testing"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/infra/repositories"
)

func TestGetProduct(t *testing.T) {
	repo := repositories.NewProductRepositoryMemory()
	created, _ := repo.Create(context.Background(), &product.Product{Title: "Lamp", Seller: "64b7f0c2a1b2c3d4e5f60001"})
	uc := NewGetProduct(repo)

	found, err := uc.GetProduct(context.Background(), created.Id)
	if err != nil || found.Title != "Lamp" {
		t.Fatalf("expected Lamp, got %+v (%v)", found, err)
	}

	_, err = uc.GetProduct(context.Background(), "not-a-valid-id")
	if !infra.IsKind(err, infra.KindValidation) || err.Error() != "Invalid product id" {
		t.Fatalf("expected invalid id error, got %v", err)
	}

	_, err = uc.GetProduct(context.Background(), "64b7f0c2a1b2c3d4e5f6ffff")
	if !infra.IsKind(err, infra.KindNotFound) || err.Error() != "Product not found" {
		t.Fatalf("expected not found error, got %v", err)
	}
}
