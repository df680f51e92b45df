// Package payments bridges placed orders to the external payment processor.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/metrics"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/kafka"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres"
	"github.com/GodwinCyber/alx-project-nexus/pkg/ctxmanage"
	"github.com/GodwinCyber/alx-project-nexus/pkg/logkey"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// largest value that fits payments.amount NUMERIC(10,2)
var maxAmount = decimal.RequireFromString("99999999.99")

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts a major-unit amount such as 19.99 into 1999.
// Amounts must be positive with at most two decimal places.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, apperr.Validation("amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return 0, apperr.Validation("amount %s has more than two decimal places", amount.String())
	}
	if amount.GreaterThan(maxAmount) {
		return 0, apperr.Validation("amount %s is too large", amount.String())
	}
	return amount.Mul(hundred).RoundBank(0).IntPart(), nil
}

type Conf struct {
	db              postgres.DBPool
	processor       Processor
	pub             kafka.Publisher
	m               *metrics.Metrics
	timeout         time.Duration
	defaultCurrency string
}

func NewConf(db postgres.DBPool, processor Processor, pub kafka.Publisher, m *metrics.Metrics,
	timeout time.Duration, defaultCurrency string) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if processor == nil {
		return nil, fmt.Errorf("payment processor is nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics is nil")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("payment timeout must be positive")
	}
	if pub == nil {
		pub = kafka.Noop{}
	}
	if defaultCurrency == "" {
		defaultCurrency = "usd"
	}
	return &Conf{
		db:              db,
		processor:       processor,
		pub:             pub,
		m:               m,
		timeout:         timeout,
		defaultCurrency: strings.ToLower(defaultCurrency),
	}, nil
}

// CreatePayment opens a payment intent for an order and records it locally.
// The processor call runs outside of any transaction; nothing is written
// unless it succeeds.
func (c *Conf) CreatePayment(ctx context.Context, user auth.Identity, np NewPayment) (Created, error) {
	traceId := ctxmanage.TraceID(ctx)
	created, err := c.createPayment(ctx, user, np)
	if err != nil {
		c.m.PaymentFailures.WithLabelValues(string(apperr.KindOf(err))).Inc()
		slog.Error("payment creation failed", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, user.UserID), slog.Int64(logkey.OrderID, np.OrderID),
			slog.String(logkey.ERROR, err.Error()))
		return Created{}, err
	}

	c.m.PaymentsCreated.Inc()
	slog.Info("payment created", slog.String(logkey.TraceID, traceId),
		slog.Int64(logkey.OrderID, np.OrderID), slog.String(logkey.PaymentIntent, created.Payment.PaymentIntent))
	c.publishCreated(ctx, created.Payment)
	return created, nil
}

func (c *Conf) createPayment(ctx context.Context, user auth.Identity, np NewPayment) (Created, error) {
	if user.Anonymous() {
		return Created{}, apperr.ErrAuthenticationRequired
	}
	if np.UserID != user.UserID {
		return Created{}, apperr.NotAuthorized("cannot create a payment for another user")
	}
	if err := apperr.ValidateStruct(np); err != nil {
		return Created{}, err
	}
	minor, err := ToMinorUnits(np.Amount)
	if err != nil {
		return Created{}, err
	}
	currency := strings.ToLower(np.Currency)
	if currency == "" {
		currency = c.defaultCurrency
	}

	var owner int64
	err = c.db.QueryRow(ctx, `SELECT user_id FROM orders WHERE id = $1`, np.OrderID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Created{}, apperr.NotFound("order", np.OrderID)
		}
		return Created{}, fmt.Errorf("failed to query order: %w", err)
	}
	if owner != user.UserID {
		return Created{}, apperr.NotAuthorized("order %d does not belong to user %d", np.OrderID, user.UserID)
	}

	intent, err := c.openIntent(ctx, IntentRequest{
		AmountMinor: minor,
		Currency:    currency,
		Metadata: map[string]string{
			"order_id": strconv.FormatInt(np.OrderID, 10),
			"user_id":  strconv.FormatInt(user.UserID, 10),
		},
	})
	if err != nil {
		return Created{}, err
	}

	p := Payment{
		UserID:        user.UserID,
		OrderID:       np.OrderID,
		PaymentIntent: intent.ID,
		Amount:        np.Amount,
		Currency:      currency,
		Status:        StatusProcessing,
	}
	err = c.db.QueryRow(ctx, `
		INSERT INTO payments (user_id, order_id, stripe_payment_intent, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, p.UserID, p.OrderID, p.PaymentIntent, p.Amount, p.Currency, string(p.Status)).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return Created{}, apperr.DuplicateIntent(intent.ID, err)
		}
		if postgres.IsForeignKeyViolation(err) {
			return Created{}, apperr.NotFound("order", np.OrderID)
		}
		return Created{}, fmt.Errorf("failed to record payment %s: %w", intent.ID, err)
	}
	return Created{Payment: p, ClientSecret: intent.ClientSecret}, nil
}

func (c *Conf) openIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	intent, err := c.processor.CreateIntent(ctx, req)
	c.m.ProcessorLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, apperr.ErrPaymentProcessor) {
			return Intent{}, err
		}
		return Intent{}, apperr.PaymentProcessor(err.Error(), err)
	}
	return intent, nil
}

func (c *Conf) publishCreated(ctx context.Context, p Payment) {
	jsonData, err := json.Marshal(kafka.PaymentCreatedEvent{
		PaymentId:     p.ID,
		OrderId:       p.OrderID,
		UserId:        p.UserID,
		PaymentIntent: p.PaymentIntent,
		Amount:        p.Amount,
		Currency:      p.Currency,
		CreatedAt:     p.CreatedAt,
	})
	if err != nil {
		slog.Error("failed to marshal PaymentCreatedEvent", slog.String(logkey.ERROR, err.Error()))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = c.pub.ProduceMessage(ctx, kafka.TopicPaymentCreated, []byte(strconv.FormatInt(p.OrderID, 10)), jsonData)
	if err != nil {
		slog.Error("failed to produce message", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)),
			slog.String(logkey.PaymentIntent, p.PaymentIntent), slog.String(logkey.ERROR, err.Error()))
	}
}

// ListPayments returns the user's own payments, newest first.
func (c *Conf) ListPayments(ctx context.Context, user auth.Identity, f Filter) ([]Payment, error) {
	if user.Anonymous() {
		return nil, apperr.ErrAuthenticationRequired
	}
	w := postgres.NewWhere(user.UserID)
	w.Raw("user_id = $1")
	if f.OrderID != nil {
		w.Add("order_id = $%d", *f.OrderID)
	}
	if f.Status != nil {
		w.Add("LOWER(status) = LOWER($%d)", string(*f.Status))
	}
	if f.AmountGte != nil {
		w.Add("amount >= $%d", *f.AmountGte)
	}
	if f.AmountLte != nil {
		w.Add("amount <= $%d", *f.AmountLte)
	}
	if f.CreatedAfter != nil {
		w.Add("created_at >= $%d", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		w.Add("created_at <= $%d", *f.CreatedBefore)
	}

	rows, err := c.db.Query(ctx, `
		SELECT id, user_id, order_id, stripe_payment_intent, amount, currency, status, created_at
		FROM payments`+w.SQL()+`
		ORDER BY created_at DESC, id DESC`, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var (
			p      Payment
			status string
		)
		err := rows.Scan(&p.ID, &p.UserID, &p.OrderID, &p.PaymentIntent, &p.Amount, &p.Currency, &status, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Status = Status(status)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return out, nil
}
