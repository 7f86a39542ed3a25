package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"github.com/giovaniif/fusion-store/cart/domain/cart"
	"github.com/giovaniif/fusion-store/cart/protocols"
)

const postgresMaxOpenConns = 20

const cartSchema = `
CREATE TABLE IF NOT EXISTS cart_items (
	cart_id    TEXT        NOT NULL,
	product_id TEXT        NOT NULL,
	quantity   INTEGER     NOT NULL CHECK (quantity > 0),
	position   INTEGER     NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (cart_id, product_id)
)`

// CartRepositoryPostgres stores one row per cart line. Cart locks are
// session-level advisory locks held on a dedicated connection, and Load and
// Save for a locked cart run on that same connection.
type CartRepositoryPostgres struct {
	db *sql.DB

	mu   sync.Mutex
	held map[string]*sql.Conn
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(postgresMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

func NewCartRepositoryPostgres(db *sql.DB) *CartRepositoryPostgres {
	return &CartRepositoryPostgres{db: db, held: map[string]*sql.Conn{}}
}

func (r *CartRepositoryPostgres) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, cartSchema)
	return err
}

// Lock only keeps a connection while the lock is held. Waiting callers hand
// their connection back to the pool between attempts.
func (r *CartRepositoryPostgres) Lock(ctx context.Context, cartId string) (protocols.Unlock, error) {
	for {
		conn, acquired, err := r.tryLock(ctx, cartId)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		if acquired {
			r.mu.Lock()
			r.held[cartId] = conn
			r.mu.Unlock()
			return r.unlocker(cartId, conn), nil
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

func (r *CartRepositoryPostgres) tryLock(ctx context.Context, cartId string) (*sql.Conn, bool, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("postgres conn: %w", err)
	}
	var acquired bool
	err = conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock(hashtext($1))", cartId).Scan(&acquired)
	if err != nil {
		_ = conn.Close()
		return nil, false, fmt.Errorf("postgres lock: %w", err)
	}
	if !acquired {
		_ = conn.Close()
		return nil, false, nil
	}
	return conn, true, nil
}

func (r *CartRepositoryPostgres) unlocker(cartId string, conn *sql.Conn) protocols.Unlock {
	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			if r.held[cartId] == conn {
				delete(r.held, cartId)
			}
			r.mu.Unlock()

			unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
			defer cancel()
			_, _ = conn.ExecContext(unlockCtx, "SELECT pg_advisory_unlock(hashtext($1))", cartId)
			_ = conn.Close()
		})
	}
}

// querier returns the connection holding the cart's lock, or the pool.
func (r *CartRepositoryPostgres) querier(cartId string) querier {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conn, ok := r.held[cartId]; ok {
		return conn
	}
	return r.db
}

func (r *CartRepositoryPostgres) Load(ctx context.Context, cartId string) (*cart.Cart, error) {
	rows, err := r.querier(cartId).QueryContext(ctx,
		"SELECT product_id, quantity FROM cart_items WHERE cart_id = $1 ORDER BY position",
		cartId,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres select: %w", err)
	}
	defer rows.Close()

	c := cart.New(cartId)
	for rows.Next() {
		var it cart.Item
		if err := rows.Scan(&it.ProductId, &it.Quantity); err != nil {
			return nil, fmt.Errorf("postgres scan: %w", err)
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres rows: %w", err)
	}
	return c, nil
}

func (r *CartRepositoryPostgres) Save(ctx context.Context, c *cart.Cart) error {
	tx, err := r.querier(c.Id).BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = $1", c.Id); err != nil {
		return fmt.Errorf("postgres delete: %w", err)
	}
	for i, it := range c.Items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO cart_items (cart_id, product_id, quantity, position) VALUES ($1, $2, $3, $4)",
			c.Id, it.ProductId, it.Quantity, i,
		)
		if err != nil {
			return fmt.Errorf("postgres insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres commit: %w", err)
	}
	return nil
}

func (r *CartRepositoryPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
