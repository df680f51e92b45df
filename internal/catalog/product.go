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
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, category_id, sub_category_id, COALESCE(description, ''), price, amount_in_stock, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.SubCategoryID, &p.Description,
		&p.Price, &p.AmountInStock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperr.Validation("Price value is less than 0")
	}
	if !price.Equal(price.Round(2)) {
		return apperr.Validation("Price %s has more than two decimal places", price.String())
	}
	return nil
}

// checkRefs verifies the category exists and that the sub-category, when
// given, belongs to it.
func (c *Conf) checkRefs(ctx context.Context, categoryID int64, subCategoryID *int64) error {
	var exists bool
	err := c.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, categoryID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return apperr.NotFound("category", categoryID)
	}
	if subCategoryID == nil {
		return nil
	}

	sc, err := c.GetSubCategory(ctx, *subCategoryID)
	if err != nil {
		return err
	}
	if sc.CategoryID != categoryID {
		return apperr.Validation("sub category %d does not belong to category %d", sc.ID, categoryID)
	}
	return nil
}

func (c *Conf) CreateProduct(ctx context.Context, user auth.Identity, np NewProduct) (Product, error) {
	if err := requireAdmin(user); err != nil {
		return Product{}, err
	}
	if err := apperr.ValidateStruct(np); err != nil {
		return Product{}, err
	}
	if err := validatePrice(np.Price); err != nil {
		return Product{}, err
	}
	if err := c.checkRefs(ctx, np.CategoryID, np.SubCategoryID); err != nil {
		return Product{}, err
	}

	p, err := scanProduct(c.db.QueryRow(ctx, `
		INSERT INTO products (name, category_id, sub_category_id, description, price, amount_in_stock)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		np.Name, np.CategoryID, np.SubCategoryID, np.Description, np.Price, np.AmountInStock))
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return Product{}, apperr.NotFound("category", np.CategoryID)
		}
		return Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	slog.Info("product created", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)), slog.Int64(logkey.ProductID, p.ID))
	return p, nil
}

func (c *Conf) UpdateProduct(ctx context.Context, user auth.Identity, id int64, u ProductUpdate) (Product, error) {
	if err := requireAdmin(user); err != nil {
		return Product{}, err
	}
	cur, err := c.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}

	np := NewProduct{
		Name:          cur.Name,
		CategoryID:    cur.CategoryID,
		SubCategoryID: cur.SubCategoryID,
		Description:   cur.Description,
		Price:         cur.Price,
		AmountInStock: cur.AmountInStock,
	}
	if u.Name != nil {
		np.Name = *u.Name
	}
	if u.CategoryID != nil {
		np.CategoryID = *u.CategoryID
	}
	if u.SubCategoryID != nil {
		np.SubCategoryID = u.SubCategoryID
	}
	if u.Description != nil {
		np.Description = *u.Description
	}
	if u.Price != nil {
		np.Price = *u.Price
	}
	if u.AmountInStock != nil {
		np.AmountInStock = *u.AmountInStock
	}

	if err := apperr.ValidateStruct(np); err != nil {
		return Product{}, err
	}
	if err := validatePrice(np.Price); err != nil {
		return Product{}, err
	}
	if u.CategoryID != nil || u.SubCategoryID != nil {
		if err := c.checkRefs(ctx, np.CategoryID, np.SubCategoryID); err != nil {
			return Product{}, err
		}
	}

	p, err := scanProduct(c.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, category_id = $3, sub_category_id = $4, description = $5,
			price = $6, amount_in_stock = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns,
		id, np.Name, np.CategoryID, np.SubCategoryID, np.Description, np.Price, np.AmountInStock))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound("product", id)
		}
		if postgres.IsCheckViolation(err) {
			return Product{}, apperr.Validation("product %d: stock and price must not be negative", id)
		}
		return Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	slog.Info("product updated successfully", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)), slog.Int64(logkey.ProductID, id))
	return p, nil
}

func (c *Conf) DeleteProduct(ctx context.Context, user auth.Identity, id int64) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	return c.deleteByID(ctx, "products", "product", id)
}

func (c *Conf) GetProduct(ctx context.Context, id int64) (Product, error) {
	p, err := scanProduct(c.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound("product", id)
		}
		return Product{}, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

// productWhere turns a filter into predicates over the products table.
func productWhere(f ProductFilter) *postgres.Where {
	w := postgres.NewWhere()
	if f.Name != nil {
		w.Add("name ILIKE $%d", postgres.Contains(*f.Name))
	}
	if f.CategoryID != nil {
		w.Add("category_id = $%d", *f.CategoryID)
	}
	if f.SubCategoryID != nil {
		w.Add("sub_category_id = $%d", *f.SubCategoryID)
	}
	if f.PriceGte != nil {
		w.Add("price >= $%d", *f.PriceGte)
	}
	if f.PriceLte != nil {
		w.Add("price <= $%d", *f.PriceLte)
	}
	if f.StockGte != nil {
		w.Add("amount_in_stock >= $%d", *f.StockGte)
	}
	if f.StockLte != nil {
		w.Add("amount_in_stock <= $%d", *f.StockLte)
	}
	if f.LowStock != nil {
		if *f.LowStock {
			w.Add("amount_in_stock < $%d", LowStockThreshold)
		} else {
			w.Add("amount_in_stock >= $%d", LowStockThreshold)
		}
	}
	return w
}

func (c *Conf) ListProducts(ctx context.Context, f ProductFilter) ([]Product, error) {
	w := productWhere(f)
	rows, err := c.db.Query(ctx, `SELECT `+productColumns+` FROM products`+w.SQL()+` ORDER BY id`, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (c *Conf) CreateProductImage(ctx context.Context, user auth.Identity, ni NewProductImage) (ProductImage, error) {
	if err := requireAdmin(user); err != nil {
		return ProductImage{}, err
	}
	if err := apperr.ValidateStruct(ni); err != nil {
		return ProductImage{}, err
	}

	img := ProductImage{ProductID: ni.ProductID, Image: ni.Image}
	err := c.db.QueryRow(ctx, `
		INSERT INTO product_images (product_id, image)
		VALUES ($1, $2)
		RETURNING id
	`, ni.ProductID, ni.Image).Scan(&img.ID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ProductImage{}, apperr.NotFound("product", ni.ProductID)
		}
		return ProductImage{}, fmt.Errorf("failed to insert product image: %w", err)
	}
	return img, nil
}

func (c *Conf) DeleteProductImage(ctx context.Context, user auth.Identity, id int64) error {
	if err := requireAdmin(user); err != nil {
		return err
	}
	return c.deleteByID(ctx, "product_images", "product image", id)
}

func (c *Conf) ListProductImages(ctx context.Context, f ImageFilter) ([]ProductImage, error) {
	w := postgres.NewWhere()
	if f.ProductID != nil {
		w.Add("product_id = $%d", *f.ProductID)
	}
	rows, err := c.db.Query(ctx, `SELECT id, product_id, image FROM product_images`+w.SQL()+` ORDER BY id`, w.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	var out []ProductImage
	for rows.Next() {
		var img ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image); err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
