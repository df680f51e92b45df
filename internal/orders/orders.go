package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
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

const publishTimeout = 5 * time.Second

type Conf struct {
	db  postgres.DBPool
	pub kafka.Publisher
	m   *metrics.Metrics
}

func NewConf(db postgres.DBPool, pub kafka.Publisher, m *metrics.Metrics) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics is nil")
	}
	if pub == nil {
		pub = kafka.Noop{}
	}
	return &Conf{db: db, pub: pub, m: m}, nil
}

// PlaceOrder converts the user's cart into an order. Stock checks, stock
// decrements, order rows and cart clearing happen in one transaction; on any
// error nothing is written and the cart is left untouched.
func (c *Conf) PlaceOrder(ctx context.Context, user auth.Identity, status Status) (Order, error) {
	traceId := ctxmanage.TraceID(ctx)
	if user.Anonymous() {
		return Order{}, apperr.ErrAuthenticationRequired
	}
	status, err := ParseStatus(string(status))
	if err != nil {
		return Order{}, err
	}

	order, err := c.placeOrder(ctx, user.UserID, status)
	if err != nil {
		c.m.OrderPlacementFailures.WithLabelValues(string(apperr.KindOf(err))).Inc()
		slog.Error("order placement failed", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, user.UserID), slog.String(logkey.ERROR, err.Error()))
		return Order{}, err
	}

	c.m.OrdersPlaced.Inc()
	c.m.OrderValue.Observe(order.Total.InexactFloat64())
	slog.Info("order placed", slog.String(logkey.TraceID, traceId), slog.Int64(logkey.UserID, user.UserID),
		slog.Int64(logkey.OrderID, order.ID), slog.String(logkey.Total, order.Total.StringFixed(2)))

	c.publishPlaced(ctx, order)
	return order, nil
}

func (c *Conf) placeOrder(ctx context.Context, userID int64, status Status) (Order, error) {
	cartID, count, err := c.cartSummary(ctx, userID)
	if err != nil {
		return Order{}, err
	}
	if count == 0 {
		return Order{}, apperr.ErrEmptyCart
	}

	var order Order
	err = postgres.WithTx(ctx, c.db, func(tx pgx.Tx) error {
		// concurrent placements from the same cart queue up here
		if _, err := tx.Exec(ctx, `SELECT id FROM carts WHERE id = $1 FOR UPDATE`, cartID); err != nil {
			return fmt.Errorf("failed to lock cart: %w", err)
		}

		lines, err := lockCartLines(ctx, tx, cartID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.ErrEmptyCart
		}

		for _, l := range lines {
			if l.stock < l.quantity {
				return apperr.InsufficientStock(apperr.StockShortage{
					ProductID: l.productID, ProductName: l.productName, Requested: l.quantity, Available: l.stock,
				})
			}
		}

		// rows were locked in product order; mutations follow cart order
		sort.Slice(lines, func(i, j int) bool { return lines[i].cartItemID < lines[j].cartItemID })

		order = Order{UserID: userID, Status: status, Total: decimal.Zero}
		err = tx.QueryRow(ctx, `
			INSERT INTO orders (user_id, status, total)
			VALUES ($1, $2, 0)
			RETURNING id, created_at
		`, userID, string(status)).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		total := decimal.Zero
		for _, l := range lines {
			tag, err := tx.Exec(ctx, `
				UPDATE products
				SET amount_in_stock = amount_in_stock - $2, updated_at = NOW()
				WHERE id = $1 AND amount_in_stock >= $2
			`, l.productID, l.quantity)
			if err != nil {
				return fmt.Errorf("failed to decrement stock of product %d: %w", l.productID, err)
			}
			if tag.RowsAffected() != 1 {
				return apperr.InsufficientStock(apperr.StockShortage{
					ProductID: l.productID, ProductName: l.productName, Requested: l.quantity, Available: l.stock,
				})
			}

			item := OrderItem{OrderID: order.ID, ProductID: l.productID, Quantity: l.quantity, Price: l.price}
			err = tx.QueryRow(ctx, `
				INSERT INTO order_items (order_id, product_id, quantity, price)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, order.ID, l.productID, l.quantity, l.price).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			order.Items = append(order.Items, item)
			total = total.Add(l.price.Mul(decimal.NewFromInt(int64(l.quantity))))
		}

		if _, err := tx.Exec(ctx, `UPDATE orders SET total = $2 WHERE id = $1`, order.ID, total); err != nil {
			return fmt.Errorf("failed to write order total: %w", err)
		}
		order.Total = total

		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// cartSummary is the fail-fast check that runs before any transaction.
func (c *Conf) cartSummary(ctx context.Context, userID int64) (cartID int64, count int64, err error) {
	err = c.db.QueryRow(ctx, `
		SELECT c.id, COUNT(ci.id)
		FROM carts c
		LEFT JOIN cart_items ci ON ci.cart_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
	`, userID).Scan(&cartID, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to query cart: %w", err)
	}
	return cartID, count, nil
}

// lockCartLines loads the cart lines and row-locks their products in id
// order, so placements touching overlapping products cannot deadlock.
func lockCartLines(ctx context.Context, tx pgx.Tx, cartID int64) ([]cartLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT ci.id, ci.product_id, ci.quantity, p.name, p.price, p.amount_in_stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY p.id
		FOR UPDATE OF p
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart lines: %w", err)
	}
	defer rows.Close()

	var lines []cartLine
	for rows.Next() {
		var l cartLine
		if err := rows.Scan(&l.cartItemID, &l.productID, &l.quantity, &l.productName, &l.price, &l.stock); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}
	return lines, nil
}

func (c *Conf) publishPlaced(ctx context.Context, o Order) {
	ev := kafka.OrderPlacedEvent{
		OrderId:   o.ID,
		UserId:    o.UserID,
		Status:    string(o.Status),
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
	}
	for _, it := range o.Items {
		ev.Lines = append(ev.Lines, kafka.OrderLine{ProductId: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	jsonData, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to marshal OrderPlacedEvent", slog.String(logkey.ERROR, err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := c.pub.ProduceMessage(ctx, kafka.TopicOrderPlaced, []byte(strconv.FormatInt(o.ID, 10)), jsonData); err != nil {
		slog.Error("failed to produce message", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)),
			slog.Int64(logkey.OrderID, o.ID), slog.String(logkey.ERROR, err.Error()))
	}
}

// GetOrder returns one of the user's own orders.
func (c *Conf) GetOrder(ctx context.Context, user auth.Identity, id int64) (Order, error) {
	if user.Anonymous() {
		return Order{}, apperr.ErrAuthenticationRequired
	}
	var (
		o      Order
		status string
	)
	err := c.db.QueryRow(ctx, `
		SELECT id, user_id, status, total, created_at
		FROM orders
		WHERE id = $1 AND user_id = $2
	`, id, user.UserID).Scan(&o.ID, &o.UserID, &status, &o.Total, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, apperr.NotFound("order", id)
		}
		return Order{}, fmt.Errorf("failed to query order: %w", err)
	}
	o.Status = Status(status)
	return o, nil
}

// ListOrders returns the user's orders, newest first.
func (c *Conf) ListOrders(ctx context.Context, user auth.Identity, f Filter) ([]Order, error) {
	if user.Anonymous() {
		return nil, apperr.ErrAuthenticationRequired
	}
	w := postgres.NewWhere(user.UserID)
	w.Raw("user_id = $1")
	if f.Status != nil {
		w.Add("LOWER(status) = LOWER($%d)", string(*f.Status))
	}
	if f.CreatedAfter != nil {
		w.Add("created_at >= $%d", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		w.Add("created_at <= $%d", *f.CreatedBefore)
	}

	rows, err := c.db.Query(ctx, `
		SELECT id, user_id, status, total, created_at
		FROM orders`+w.SQL()+`
		ORDER BY created_at DESC, id DESC`, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var (
			o      Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &status, &o.Total, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Status = Status(status)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return out, nil
}

func (c *Conf) ListItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := c.db.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return out, nil
}
