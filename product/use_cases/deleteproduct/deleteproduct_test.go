package deleteproduct

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/product/domain/product"
	"github.com/giovaniif/fusion-store/product/infra/repositories"
	"github.com/giovaniif/fusion-store/product/protocols"
	"github.com/giovaniif/fusion-store/product/use_cases/notify"
)

const (
	sellerId = "64b7f0c2a1b2c3d4e5f60001"
	otherId  = "64b7f0c2a1b2c3d4e5f60002"
)

type mockPublisher struct {
	events []protocols.Event
}

func (m *mockPublisher) Publish(_ context.Context, event protocols.Event) error {
	m.events = append(m.events, event)
	return nil
}

func setup(t *testing.T) (*DeleteProduct, *repositories.ProductRepositoryMemory, *mockPublisher, string) {
	t.Helper()
	repo := repositories.NewProductRepositoryMemory()
	created, err := repo.Create(context.Background(), &product.Product{Title: "Lamp", Seller: sellerId})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	publisher := &mockPublisher{}
	return NewDeleteProduct(repo, notify.NewNotifier(publisher, zap.NewNop())), repo, publisher, created.Id
}

func TestDeleteProductByOwner(t *testing.T) {
	uc, repo, publisher, id := setup(t)

	if err := uc.DeleteProduct(context.Background(), Input{Id: id, CallerId: sellerId}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if p, _ := repo.FindById(context.Background(), id); p != nil {
		t.Fatalf("expected product to be removed")
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != protocols.EventProductDeleted || publisher.events[0].ProductId != id {
		t.Fatalf("expected one deleted event, got %+v", publisher.events)
	}
}

func TestDeleteProductAnonymousWhenAuthDisabled(t *testing.T) {
	uc, _, _, id := setup(t)
	if err := uc.DeleteProduct(context.Background(), Input{Id: id}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestDeleteProductErrors(t *testing.T) {
	uc, repo, publisher, id := setup(t)

	err := uc.DeleteProduct(context.Background(), Input{Id: "not-a-valid-id"})
	if !infra.IsKind(err, infra.KindValidation) || err.Error() != "Invalid product id" {
		t.Fatalf("expected invalid id, got %v", err)
	}
	err = uc.DeleteProduct(context.Background(), Input{Id: "64b7f0c2a1b2c3d4e5f6ffff"})
	if !infra.IsKind(err, infra.KindNotFound) || err.Error() != "Product not found" {
		t.Fatalf("expected not found, got %v", err)
	}
	err = uc.DeleteProduct(context.Background(), Input{Id: id, CallerId: otherId})
	if !infra.IsKind(err, infra.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if p, _ := repo.FindById(context.Background(), id); p == nil {
		t.Fatalf("expected product to survive a refused delete")
	}
	if len(publisher.events) != 0 {
		t.Fatalf("expected no events")
	}
}
