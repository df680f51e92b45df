package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripeProcessorCreateIntent(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","client_secret":"pi_123_secret_x","amount":1999,"currency":"usd"}`))
	}))
	defer srv.Close()

	p, err := NewStripeProcessor("sk_test_123", time.Second, srv.URL)
	require.NoError(t, err)

	intent, err := p.CreateIntent(context.Background(), IntentRequest{
		AmountMinor: 1999, Currency: "usd", Metadata: map[string]string{"order_id": "500"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret_x", intent.ClientSecret)
	assert.Equal(t, []string{"1999"}, form["amount"])
	assert.Equal(t, []string{"500"}, form["metadata[order_id]"])
}

func TestStripeProcessorSurfacesProcessorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	p, err := NewStripeProcessor("sk_test_123", time.Second, srv.URL)
	require.NoError(t, err)

	_, err = p.CreateIntent(context.Background(), IntentRequest{AmountMinor: 100, Currency: "usd"})
	require.ErrorIs(t, err, apperr.ErrPaymentProcessor)
	assert.Contains(t, err.Error(), "Your card was declined.")
}

func TestNewStripeProcessorRequiresKey(t *testing.T) {
	_, err := NewStripeProcessor("", time.Second, "")
	assert.Error(t, err)
}
