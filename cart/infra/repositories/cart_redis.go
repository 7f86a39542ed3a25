package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/protocols"
)

const (
	cartKeyPrefix     = "cart:"
	cartLockKeyPrefix = "cart:lock:"
	lockRetryEvery    = 25 * time.Millisecond
	unlockTimeout     = 2 * time.Second
)

// Deletes the lock only if it still holds our token, so an expired lock
// taken over by another request is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

type cartRedisState struct {
	Items []cart.Item `json:"items"`
}

type CartRepositoryRedis struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

func NewCartRepositoryRedis(client *redis.Client, ttl, lockTTL time.Duration) *CartRepositoryRedis {
	return &CartRepositoryRedis{client: client, ttl: ttl, lockTTL: lockTTL}
}

func (r *CartRepositoryRedis) key(cartId string) string {
	return cartKeyPrefix + cartId
}

func (r *CartRepositoryRedis) lockKey(cartId string) string {
	return cartLockKeyPrefix + cartId
}

func (r *CartRepositoryRedis) Lock(ctx context.Context, cartId string) (protocols.Unlock, error) {
	k := r.lockKey(cartId)
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, k, token, r.lockTTL).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("redis lock: %w", err)
		}
		if ok {
			stop := make(chan struct{})
			done := make(chan struct{})
			go r.keepAlive(k, token, stop, done)

			var once sync.Once
			return func() {
				once.Do(func() {
					close(stop)
					<-done
					unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
					defer cancel()
					_ = unlockScript.Run(unlockCtx, r.client, []string{k}, token).Err()
				})
			}, nil
		}

		timer := time.NewTimer(lockRetryEvery)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// keepAlive pushes the lock's expiry forward every third of its TTL until
// stop is closed or the lock is no longer ours. The TTL only frees carts
// whose holder died.
func (r *CartRepositoryRedis) keepAlive(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(max(r.lockTTL/3, time.Millisecond))
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		renewed, err := renewScript.Run(ctx, r.client, []string{key}, token, r.lockTTL.Milliseconds()).Int()
		cancel()
		if err == nil && renewed == 0 {
			return
		}
	}
}

func (r *CartRepositoryRedis) Load(ctx context.Context, cartId string) (*cart.Cart, error) {
	data, err := r.client.Get(ctx, r.key(cartId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.New(cartId), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var state cartRedisState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("redis unmarshal: %w", err)
	}
	c := cart.New(cartId)
	c.Items = append(c.Items, state.Items...)
	return c, nil
}

func (r *CartRepositoryRedis) Save(ctx context.Context, c *cart.Cart) error {
	if c.IsEmpty() {
		if err := r.client.Del(ctx, r.key(c.Id)).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(cartRedisState{Items: c.Items})
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(c.Id), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *CartRepositoryRedis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
