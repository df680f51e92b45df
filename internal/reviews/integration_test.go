//go:build integration

package reviews

import (
	"context"
	"testing"

	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres/postgrestest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarRangeCheckConstraint(t *testing.T) {
	pool := postgrestest.Start(t)
	mug := postgrestest.SeedProduct(t, pool, "mug", "1.00", 1)
	user := postgrestest.SeedUser(t, pool, "alice")

	for _, stars := range []int{0, 6} {
		_, err := pool.Exec(context.Background(),
			`INSERT INTO ratings (product_id, rating_from, stars) VALUES ($1, $2, $3)`, mug, user, stars)
		require.Error(t, err, "stars=%d", stars)
		assert.True(t, postgres.IsCheckViolation(err), "stars=%d", stars)
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO ratings (product_id, rating_from, stars) VALUES ($1, $2, $3)`, mug, user, 5)
	require.NoError(t, err)
}
