package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres"
	"github.com/GodwinCyber/alx-project-nexus/pkg/ctxmanage"
	"github.com/GodwinCyber/alx-project-nexus/pkg/logkey"
	"github.com/jackc/pgx/v5"
)

const itemColumns = `ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at`

type Conf struct {
	db postgres.DBPool
}

func NewConf(db postgres.DBPool) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

// GetCart returns the user's cart without creating one.
func (c *Conf) GetCart(ctx context.Context, user auth.Identity) (Cart, error) {
	if user.Anonymous() {
		return Cart{}, apperr.ErrAuthenticationRequired
	}
	var cart Cart
	err := c.db.QueryRow(ctx, `
		SELECT id, user_id, created_at
		FROM carts
		WHERE user_id = $1
	`, user.UserID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cart{}, &apperr.Error{Kind: apperr.KindNotFound, Msg: "no cart found for user"}
		}
		return Cart{}, fmt.Errorf("failed to query cart: %w", err)
	}
	return cart, nil
}

// AddItem puts quantity units of a product into the user's cart, creating the
// cart on first use. Adding a product that is already present merges the
// quantities into the existing line.
func (c *Conf) AddItem(ctx context.Context, user auth.Identity, productID int64, quantity int) (CartItem, error) {
	if user.Anonymous() {
		return CartItem{}, apperr.ErrAuthenticationRequired
	}
	if err := apperr.ValidateStruct(addItemRequest{ProductID: productID, Quantity: quantity}); err != nil {
		return CartItem{}, err
	}

	var item CartItem
	err := postgres.WithTx(ctx, c.db, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to query product: %w", err)
		}
		if !exists {
			return apperr.NotFound("product", productID)
		}

		cart, err := getOrCreateCart(ctx, tx, user.UserID)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO cart_items AS ci (cart_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (cart_id, product_id)
			DO UPDATE SET quantity = ci.quantity + EXCLUDED.quantity, updated_at = NOW()
			RETURNING `+itemColumns,
			cart.ID, productID, quantity,
		).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to add product to cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return CartItem{}, err
	}

	slog.Info("product added to cart", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)),
		slog.Int64(logkey.UserID, user.UserID), slog.Int64(logkey.ProductID, productID), slog.Int(logkey.Quantity, item.Quantity))
	return item, nil
}

// UpdateItem sets the quantity of a line in the user's own cart.
func (c *Conf) UpdateItem(ctx context.Context, user auth.Identity, itemID int64, quantity int) (CartItem, error) {
	if user.Anonymous() {
		return CartItem{}, apperr.ErrAuthenticationRequired
	}
	if quantity < 1 {
		return CartItem{}, apperr.Validation("quantity must be at least 1")
	}

	var item CartItem
	err := c.db.QueryRow(ctx, `
		UPDATE cart_items AS ci
		SET quantity = $3, updated_at = NOW()
		FROM carts c
		WHERE ci.id = $1 AND ci.cart_id = c.id AND c.user_id = $2
		RETURNING `+itemColumns,
		itemID, user.UserID, quantity,
	).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CartItem{}, apperr.NotFound("cart item", itemID)
		}
		return CartItem{}, fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	return item, nil
}

func (c *Conf) RemoveItem(ctx context.Context, user auth.Identity, itemID int64) error {
	if user.Anonymous() {
		return apperr.ErrAuthenticationRequired
	}
	tag, err := c.db.Exec(ctx, `
		DELETE FROM cart_items AS ci
		USING carts c
		WHERE ci.id = $1 AND ci.cart_id = c.id AND c.user_id = $2
	`, itemID, user.UserID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("cart item", itemID)
	}
	return nil
}

// Items lists the lines of the user's cart in insertion order.
func (c *Conf) Items(ctx context.Context, user auth.Identity, f ItemFilter) ([]CartItem, error) {
	if user.Anonymous() {
		return nil, apperr.ErrAuthenticationRequired
	}

	w := postgres.NewWhere(user.UserID)
	w.Raw("c.user_id = $1")
	if f.ProductID != nil {
		w.Add("ci.product_id = $%d", *f.ProductID)
	}
	if f.MinQuantity != nil {
		w.Add("ci.quantity >= $%d", *f.MinQuantity)
	}
	if f.MaxQuantity != nil {
		w.Add("ci.quantity <= $%d", *f.MaxQuantity)
	}

	rows, err := c.db.Query(ctx, `
		SELECT `+itemColumns+`
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id`+w.SQL()+`
		ORDER BY ci.id`, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}
	return items, nil
}

// getOrCreateCart relies on the unique user_id so concurrent first adds
// converge on one cart row.
func getOrCreateCart(ctx context.Context, q postgres.Querier, userID int64) (Cart, error) {
	var cart Cart
	err := q.QueryRow(ctx, `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at
	`, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		return Cart{}, fmt.Errorf("failed to get or create cart: %w", err)
	}
	return cart, nil
}
