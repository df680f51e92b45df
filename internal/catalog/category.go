package catalog

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

func (c *Conf) CreateCategory(ctx context.Context, user auth.Identity, nc NewCategory) (Category, error) {
	if err := requireAdmin(user); err != nil {
		return Category{}, err
	}
	if err := apperr.ValidateStruct(nc); err != nil {
		return Category{}, err
	}

	cat := Category{Name: nc.Name}
	err := c.db.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, nc.Name).Scan(&cat.ID)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return Category{}, apperr.Validation("category %q already exists", nc.Name)
		}
		return Category{}, fmt.Errorf("failed to insert category: %w", err)
	}
	slog.Info("category created", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)), slog.Int64(logkey.CategoryID, cat.ID))
	return cat, nil
}

func (c *Conf) UpdateCategory(ctx context.Context, user auth.Identity, id int64, name string) (Category, error) {
	if err := requireAdmin(user); err != nil {
		return Category{}, err
	}
	if err := apperr.ValidateStruct(NewCategory{Name: name}); err != nil {
		return Category{}, err
	}

	cat := Category{ID: id, Name: name}
	tag, err := c.db.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return Category{}, apperr.Validation("category %q already exists", name)
		}
		return Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Category{}, apperr.NotFound("category", id)
	}
	return cat, nil
}

// DeleteCategory also removes its sub-categories and products.
func (c *Conf) DeleteCategory(ctx context.Context, user auth.Identity, id int64) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	return c.deleteByID(ctx, "categories", "category", id)
}

func (c *Conf) GetCategory(ctx context.Context, id int64) (Category, error) {
	var cat Category
	err := c.db.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&cat.ID, &cat.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound("category", id)
		}
		return Category{}, fmt.Errorf("failed to query category: %w", err)
	}
	return cat, nil
}

func (c *Conf) ListCategories(ctx context.Context, f CategoryFilter) ([]Category, error) {
	w := postgres.NewWhere()
	if f.Name != nil {
		w.Add("name ILIKE $%d", postgres.Contains(*f.Name))
	}
	rows, err := c.db.Query(ctx, `SELECT id, name FROM categories`+w.SQL()+` ORDER BY id`, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (c *Conf) CreateSubCategory(ctx context.Context, user auth.Identity, ns NewSubCategory) (SubCategory, error) {
	if err := requireAdmin(user); err != nil {
		return SubCategory{}, err
	}
	if err := apperr.ValidateStruct(ns); err != nil {
		return SubCategory{}, err
	}

	sc := SubCategory{Name: ns.Name, CategoryID: ns.CategoryID}
	err := c.db.QueryRow(ctx, `
		INSERT INTO sub_categories (name, category_id)
		VALUES ($1, $2)
		RETURNING id
	`, ns.Name, ns.CategoryID).Scan(&sc.ID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return SubCategory{}, apperr.NotFound("category", ns.CategoryID)
		}
		return SubCategory{}, fmt.Errorf("failed to insert sub category: %w", err)
	}
	return sc, nil
}

func (c *Conf) UpdateSubCategory(ctx context.Context, user auth.Identity, id int64, u SubCategoryUpdate) (SubCategory, error) {
	if err := requireAdmin(user); err != nil {
		return SubCategory{}, err
	}
	sc, err := c.GetSubCategory(ctx, id)
	if err != nil {
		return SubCategory{}, err
	}
	if u.Name != nil {
		sc.Name = *u.Name
	}
	if u.CategoryID != nil {
		sc.CategoryID = *u.CategoryID
	}
	if err := apperr.ValidateStruct(NewSubCategory{Name: sc.Name, CategoryID: sc.CategoryID}); err != nil {
		return SubCategory{}, err
	}

	tag, err := c.db.Exec(ctx, `UPDATE sub_categories SET name = $2, category_id = $3 WHERE id = $1`,
		id, sc.Name, sc.CategoryID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return SubCategory{}, apperr.NotFound("category", sc.CategoryID)
		}
		return SubCategory{}, fmt.Errorf("failed to update sub category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return SubCategory{}, apperr.NotFound("sub category", id)
	}
	return sc, nil
}

func (c *Conf) DeleteSubCategory(ctx context.Context, user auth.Identity, id int64) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	return c.deleteByID(ctx, "sub_categories", "sub category", id)
}

func (c *Conf) GetSubCategory(ctx context.Context, id int64) (SubCategory, error) {
	var sc SubCategory
	err := c.db.QueryRow(ctx, `SELECT id, name, category_id FROM sub_categories WHERE id = $1`, id).
		Scan(&sc.ID, &sc.Name, &sc.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SubCategory{}, apperr.NotFound("sub category", id)
		}
		return SubCategory{}, fmt.Errorf("failed to query sub category: %w", err)
	}
	return sc, nil
}

func (c *Conf) ListSubCategories(ctx context.Context, f SubCategoryFilter) ([]SubCategory, error) {
	w := postgres.NewWhere()
	if f.Name != nil {
		w.Add("name ILIKE $%d", postgres.Contains(*f.Name))
	}
	if f.CategoryID != nil {
		w.Add("category_id = $%d", *f.CategoryID)
	}
	rows, err := c.db.Query(ctx, `SELECT id, name, category_id FROM sub_categories`+w.SQL()+` ORDER BY id`, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub categories: %w", err)
	}
	defer rows.Close()

	var out []SubCategory
	for rows.Next() {
		var sc SubCategory
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.CategoryID); err != nil {
			return nil, fmt.Errorf("failed to scan sub category: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// deleteByID removes one row. table and entity are never user input.
func (c *Conf) deleteByID(ctx context.Context, table, entity string, id int64) error {
	tag, err := c.db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperr.Validation("%s %d is referenced by existing orders", entity, id)
		}
		return fmt.Errorf("failed to delete %s: %w", entity, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity, id)
	}
	slog.Info(entity+" deleted", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)), slog.Int64(logkey.EntityID, id))
	return nil
}
