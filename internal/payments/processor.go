package payments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
)

// IntentRequest carries the amount in minor units (cents for usd).
type IntentRequest struct {
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

type Intent struct {
	ID           string
	ClientSecret string
}

// Processor creates charge intents with the external payment processor.
type Processor interface {
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
}

type StripeProcessor struct {
	client paymentintent.Client
}

// NewStripeProcessor builds a processor whose calls never retry and never
// outlive timeout. baseURL is empty in production.
func NewStripeProcessor(secretKey string, timeout time.Duration, baseURL string) (*StripeProcessor, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is empty")
	}
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}
	return &StripeProcessor{
		client: paymentintent.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
			Key: secretKey,
		},
	}, nil
}

func (s *StripeProcessor) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.client.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return Intent{}, apperr.PaymentProcessor(stripeErr.Msg, err)
		}
		return Intent{}, apperr.PaymentProcessor(err.Error(), err)
	}
	if pi.ID == "" {
		return Intent{}, apperr.PaymentProcessor("empty payment intent id", fmt.Errorf("unexpected response"))
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
