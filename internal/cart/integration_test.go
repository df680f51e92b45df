//go:build integration

package cart

import (
	"context"
	"testing"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres/postgrestest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemTwiceMergesIntoOneLine(t *testing.T) {
	pool := postgrestest.Start(t)
	c, err := NewConf(pool)
	require.NoError(t, err)

	mug := postgrestest.SeedProduct(t, pool, "mug", "12.75", 10)
	user := auth.Identity{UserID: postgrestest.SeedUser(t, pool, "alice"), Roles: []string{auth.RoleUser}}
	ctx := context.Background()

	_, err = c.GetCart(ctx, user)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	first, err := c.AddItem(ctx, user, mug, 2)
	require.NoError(t, err)
	second, err := c.AddItem(ctx, user, mug, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	var rows, quantity int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*), MAX(quantity) FROM cart_items WHERE product_id = $1`, mug).Scan(&rows, &quantity))
	assert.Equal(t, 1, rows)
	assert.Equal(t, 5, quantity)

	got, err := c.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, first.CartID, got.ID)
}
