// Package reviews stores product ratings and comments. A review is always
// attributed to the identity that writes it.
package reviews

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/stores/postgres"
	"github.com/GodwinCyber/alx-project-nexus/pkg/ctxmanage"
	"github.com/GodwinCyber/alx-project-nexus/pkg/logkey"
)

type Conf struct {
	db postgres.DBPool
}

func NewConf(db postgres.DBPool) (*Conf, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Conf{db: db}, nil
}

func (c *Conf) CreateRating(ctx context.Context, user auth.Identity, nr NewRating) (Rating, error) {
	if user.Anonymous() {
		return Rating{}, apperr.ErrAuthenticationRequired
	}
	if nr.RatingFrom != user.UserID {
		return Rating{}, apperr.NotAuthorized("cannot rate on behalf of another user")
	}
	if err := apperr.ValidateStruct(nr); err != nil {
		return Rating{}, err
	}

	r := Rating{ProductID: nr.ProductID, RatingFrom: nr.RatingFrom, Stars: nr.Stars, Comment: nr.Comment}
	err := c.db.QueryRow(ctx, `
		INSERT INTO ratings (product_id, rating_from, stars, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.ProductID, r.RatingFrom, r.Stars, r.Comment).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return Rating{}, writeError(err, nr.ProductID)
	}

	slog.Info("rating created", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)),
		slog.Int64(logkey.ProductID, r.ProductID), slog.Int(logkey.Stars, r.Stars))
	return r, nil
}

func (c *Conf) CreateComment(ctx context.Context, user auth.Identity, nc NewComment) (Comment, error) {
	if user.Anonymous() {
		return Comment{}, apperr.ErrAuthenticationRequired
	}
	if nc.CommentFrom != user.UserID {
		return Comment{}, apperr.NotAuthorized("cannot comment on behalf of another user")
	}
	if err := apperr.ValidateStruct(nc); err != nil {
		return Comment{}, err
	}

	cm := Comment{ProductID: nc.ProductID, CommentFrom: nc.CommentFrom, Body: nc.Body}
	err := c.db.QueryRow(ctx, `
		INSERT INTO comments (product_id, comment_from, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, cm.ProductID, cm.CommentFrom, cm.Body).Scan(&cm.ID, &cm.CreatedAt)
	if err != nil {
		return Comment{}, writeError(err, nc.ProductID)
	}
	return cm, nil
}

func writeError(err error, productID int64) error {
	switch {
	case postgres.IsForeignKeyViolation(err):
		return apperr.NotFound("product", productID)
	case postgres.IsCheckViolation(err):
		return apperr.Validation("stars must be between 1 and 5")
	}
	return fmt.Errorf("failed to insert review: %w", err)
}

func (c *Conf) ListRatings(ctx context.Context, f RatingFilter) ([]Rating, error) {
	w := postgres.NewWhere()
	if f.ProductID != nil {
		w.Add("product_id = $%d", *f.ProductID)
	}
	if f.RatingFrom != nil {
		w.Add("rating_from = $%d", *f.RatingFrom)
	}
	if f.MinStars != nil {
		w.Add("stars >= $%d", *f.MinStars)
	}
	if f.MaxStars != nil {
		w.Add("stars <= $%d", *f.MaxStars)
	}

	rows, err := c.db.Query(ctx, `
		SELECT id, product_id, rating_from, stars, comment, created_at
		FROM ratings`+w.SQL()+`
		ORDER BY id`, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var out []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.ProductID, &r.RatingFrom, &r.Stars, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return out, nil
}

func (c *Conf) ListComments(ctx context.Context, f CommentFilter) ([]Comment, error) {
	w := postgres.NewWhere()
	if f.ProductID != nil {
		w.Add("product_id = $%d", *f.ProductID)
	}
	if f.CommentFrom != nil {
		w.Add("comment_from = $%d", *f.CommentFrom)
	}
	if f.CreatedAfter != nil {
		w.Add("created_at >= $%d", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		w.Add("created_at <= $%d", *f.CreatedBefore)
	}

	rows, err := c.db.Query(ctx, `
		SELECT id, product_id, comment_from, body, created_at
		FROM comments`+w.SQL()+`
		ORDER BY created_at DESC, id DESC`, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.ProductID, &cm.CommentFrom, &cm.Body, &cm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		out = append(out, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return out, nil
}

// ProductSummary returns the mean star rating of a product; zero when unrated.
func (c *Conf) ProductSummary(ctx context.Context, productID int64) (Summary, error) {
	var s Summary
	err := c.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(stars), 0)::float8, COUNT(*)
		FROM ratings
		WHERE product_id = $1
	`, productID).Scan(&s.Average, &s.Count)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize ratings: %w", err)
	}
	return s, nil
}
