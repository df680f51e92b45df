//go:build integration

package orders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/metrics"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres/postgrestest"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedShopper creates a user whose cart holds the given product quantities in order.
func seedShopper(t *testing.T, pool *pgxpool.Pool, n int, lines ...[2]int64) auth.Identity {
	t.Helper()
	ctx := context.Background()
	userID := postgrestest.SeedUser(t, pool, fmt.Sprintf("shopper%d", n))
	var cartID int64
	err := pool.QueryRow(ctx, `INSERT INTO carts (user_id) VALUES ($1) RETURNING id`, userID).Scan(&cartID)
	require.NoError(t, err)
	for _, l := range lines {
		_, err = pool.Exec(ctx, `INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)`,
			cartID, l[0], int(l[1]))
		require.NoError(t, err)
	}
	return auth.Identity{UserID: userID, Roles: []string{auth.RoleUser}}
}

func stockOf(t *testing.T, pool *pgxpool.Pool, productID int64) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT amount_in_stock FROM products WHERE id = $1`, productID).Scan(&n))
	return n
}

func TestConcurrentPlacementNeverOversells(t *testing.T) {
	pool := postgrestest.Start(t)
	conf, err := NewConf(pool, nil, metrics.New())
	require.NoError(t, err)

	const shoppers, stock = 10, 3
	mug := postgrestest.SeedProduct(t, pool, "mug", "12.75", stock)
	var users []auth.Identity
	for i := 0; i < shoppers; i++ {
		users = append(users, seedShopper(t, pool, i, [2]int64{mug, 1}))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		placed  int
		refused int
		others  []error
	)
	for _, u := range users {
		wg.Add(1)
		go func(u auth.Identity) {
			defer wg.Done()
			_, err := conf.PlaceOrder(context.Background(), u, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case errors.Is(err, apperr.ErrInsufficientStock):
				refused++
			default:
				others = append(others, err)
			}
		}(u)
	}
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, stock, placed)
	assert.Equal(t, shoppers-stock, refused)
	assert.Equal(t, 0, stockOf(t, pool, mug))

	var orderItems int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM order_items`).Scan(&orderItems))
	assert.Equal(t, stock, orderItems)
}

func TestOppositeCartOrderDoesNotDeadlock(t *testing.T) {
	pool := postgrestest.Start(t)
	conf, err := NewConf(pool, nil, metrics.New())
	require.NoError(t, err)

	const rounds = 20
	a := postgrestest.SeedProduct(t, pool, "plate", "4.00", rounds*2)
	b := postgrestest.SeedProduct(t, pool, "bowl", "6.50", rounds*2)

	var wg sync.WaitGroup
	errs := make(chan error, rounds*2)
	for i := 0; i < rounds; i++ {
		left := seedShopper(t, pool, 2*i, [2]int64{a, 1}, [2]int64{b, 1})
		right := seedShopper(t, pool, 2*i+1, [2]int64{b, 1}, [2]int64{a, 1})
		for _, u := range []auth.Identity{left, right} {
			wg.Add(1)
			go func(u auth.Identity) {
				defer wg.Done()
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				o, err := conf.PlaceOrder(ctx, u, StatusPending)
				if err == nil && !o.Total.Equal(decimal.RequireFromString("10.50")) {
					err = fmt.Errorf("order %d total %s", o.ID, o.Total)
				}
				errs <- err
			}(u)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 0, stockOf(t, pool, a))
	assert.Equal(t, 0, stockOf(t, pool, b))

	var leftover int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM cart_items`).Scan(&leftover))
	assert.Zero(t, leftover)
}

func TestStockCheckConstraint(t *testing.T) {
	pool := postgrestest.Start(t)
	mug := postgrestest.SeedProduct(t, pool, "mug", "1.00", 1)

	_, err := pool.Exec(context.Background(), `UPDATE products SET amount_in_stock = -1 WHERE id = $1`, mug)
	require.Error(t, err)
	assert.True(t, postgres.IsCheckViolation(err))
}
