package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/protocols"
)

// exerciseStore runs the behaviour every cart store must share.
func exerciseStore(t *testing.T, store protocols.CartStore) {
	t.Helper()
	ctx := context.Background()

	empty, err := store.Load(ctx, "missing")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if empty.Id != "missing" || !empty.IsEmpty() || empty.Items == nil {
		t.Fatalf("expected empty cart, got %#v", empty)
	}

	c := cart.New("c1")
	c.Upsert("p2", 1)
	c.Upsert("p1", 3)
	c.Upsert("p3", 2)
	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	loaded, err := store.Load(ctx, "c1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	expected := []cart.Item{{ProductId: "p2", Quantity: 1}, {ProductId: "p1", Quantity: 3}, {ProductId: "p3", Quantity: 2}}
	if len(loaded.Items) != len(expected) {
		t.Fatalf("expected %d items, got %+v", len(expected), loaded.Items)
	}
	for i := range expected {
		if loaded.Items[i] != expected[i] {
			t.Fatalf("item %d: expected %+v, got %+v", i, expected[i], loaded.Items[i])
		}
	}

	other, err := store.Load(ctx, "c2")
	if err != nil || !other.IsEmpty() {
		t.Fatalf("expected carts to be isolated, got %+v (%v)", other, err)
	}

	loaded.Clear()
	if err := store.Save(ctx, loaded); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	cleared, err := store.Load(ctx, "c1")
	if err != nil || !cleared.IsEmpty() {
		t.Fatalf("expected cleared cart, got %+v (%v)", cleared, err)
	}

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("expected ping to succeed, got %v", err)
	}
}

// exerciseLock checks that concurrent read-modify-write cycles on one cart do not lose updates.
func exerciseLock(t *testing.T, store protocols.CartStore) {
	t.Helper()
	ctx := context.Background()
	const workers = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := store.Lock(ctx, "shared")
			if err != nil {
				errs <- err
				return
			}
			defer unlock()
			c, err := store.Load(ctx, "shared")
			if err != nil {
				errs <- err
				return
			}
			existing, _ := c.FindItem("p1")
			time.Sleep(time.Millisecond)
			c.Upsert("p1", existing.Quantity+1)
			errs <- store.Save(ctx, c)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	}

	c, err := store.Load(ctx, "shared")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	item, _ := c.FindItem("p1")
	if item.Quantity != workers {
		t.Fatalf("expected quantity %d, got %d", workers, item.Quantity)
	}

	unlock, err := store.Lock(ctx, "held")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	defer unlock()
	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	if _, err := store.Lock(waitCtx, "held"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded while lock is held, got %v", err)
	}
}
