//go:build integration

// Package postgrestest starts a throwaway Postgres with the schema applied.
package postgrestest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Start runs postgres:16 in a container, applies the migrations and returns a
// pool. Both are released when the test ends.
func Start(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "shop",
				"POSTGRES_PASSWORD": "shop",
				"POSTGRES_DB":       "shop",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := postgres.OpenDB(ctx, fmt.Sprintf("postgres://shop:shop@%s:%s/shop?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.RunMigrations(pool))
	return pool
}

// SeedUser inserts a user and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, username string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO users (email, username, password_hash) VALUES ($1, $2, 'x') RETURNING id`,
		username+"@example.com", username).Scan(&id)
	require.NoError(t, err)
	return id
}

// SeedProduct inserts a product in the "kitchen" category and returns its id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name, price string, stock int) int64 {
	t.Helper()
	ctx := context.Background()
	var catID int64
	err := pool.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, "kitchen").Scan(&catID)
	require.NoError(t, err)

	var id int64
	err = pool.QueryRow(ctx, `
		INSERT INTO products (name, category_id, price, amount_in_stock)
		VALUES ($1, $2, $3::numeric, $4) RETURNING id`,
		name, catID, price, stock).Scan(&id)
	require.NoError(t, err)
	return id
}
