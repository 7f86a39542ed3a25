package repositories

import (
	"context"
	"sync"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/protocols"
)

type cartLock struct {
	sem  chan struct{}
	refs int
}

// CartRepositoryMemory keeps carts in process memory. Locks are created on
// demand per cart id and dropped once nobody holds or waits for them.
type CartRepositoryMemory struct {
	mutex sync.Mutex
	carts map[string][]cart.Item
	locks map[string]*cartLock
}

func NewCartRepositoryMemory() *CartRepositoryMemory {
	return &CartRepositoryMemory{
		carts: make(map[string][]cart.Item),
		locks: make(map[string]*cartLock),
	}
}

func (r *CartRepositoryMemory) Lock(ctx context.Context, cartId string) (protocols.Unlock, error) {
	r.mutex.Lock()
	l, ok := r.locks[cartId]
	if !ok {
		l = &cartLock{sem: make(chan struct{}, 1)}
		r.locks[cartId] = l
	}
	l.refs++
	r.mutex.Unlock()

	select {
	case l.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-l.sem
				r.release(cartId, l)
			})
		}, nil
	case <-ctx.Done():
		r.release(cartId, l)
		return nil, ctx.Err()
	}
}

func (r *CartRepositoryMemory) release(cartId string, l *cartLock) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(r.locks, cartId)
	}
}

func (r *CartRepositoryMemory) Load(ctx context.Context, cartId string) (*cart.Cart, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	c := cart.New(cartId)
	c.Items = append(c.Items, r.carts[cartId]...)
	return c, nil
}

func (r *CartRepositoryMemory) Save(ctx context.Context, c *cart.Cart) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if c.IsEmpty() {
		delete(r.carts, c.Id)
		return nil
	}
	items := make([]cart.Item, len(c.Items))
	copy(items, c.Items)
	r.carts[c.Id] = items
	return nil
}

func (r *CartRepositoryMemory) Ping(context.Context) error {
	return nil
}
