package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersExposed(t *testing.T) {
	m := New()
	m.OrdersPlaced.Inc()
	m.OrderPlacementFailures.WithLabelValues("EMPTY_CART").Inc()
	m.OrderPlacementFailures.WithLabelValues("EMPTY_CART").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersPlaced))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrderPlacementFailures.WithLabelValues("EMPTY_CART")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "ecommerce_orders_placed_total 1")
	assert.Contains(t, string(body), `ecommerce_orders_placement_failures_total{reason="EMPTY_CART"} 2`)
}
