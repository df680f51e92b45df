package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin       = auth.Identity{UserID: 1, Roles: []string{auth.RoleUser, auth.RoleAdmin}}
	shopper     = auth.Identity{UserID: 2, Roles: []string{auth.RoleUser}}
	productCols = []string{"id", "name", "category_id", "sub_category_id", "description", "price", "amount_in_stock", "created_at", "updated_at"}
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Conf) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	c, err := NewConf(mock)
	require.NoError(t, err)
	return mock, c
}

func TestMutationsRequireAdmin(t *testing.T) {
	mock, c := newMock(t)
	ctx := context.Background()

	_, err := c.CreateCategory(ctx, auth.Identity{}, NewCategory{Name: "Kitchen"})
	assert.ErrorIs(t, err, apperr.ErrAuthenticationRequired)

	_, err = c.CreateCategory(ctx, shopper, NewCategory{Name: "Kitchen"})
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)

	assert.ErrorIs(t, c.DeleteProduct(ctx, shopper, 1), apperr.ErrNotAuthorized)
	_, err = c.CreateProductImage(ctx, shopper, NewProductImage{ProductID: 1, Image: "a.png"})
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	mock, c := newMock(t)

	mock.ExpectQuery("INSERT INTO categories").WithArgs("Kitchen").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO categories").WithArgs("Kitchen").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key"})

	cat, err := c.CreateCategory(context.Background(), admin, NewCategory{Name: "Kitchen"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cat.ID)

	_, err = c.CreateCategory(context.Background(), admin, NewCategory{Name: "Kitchen"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCategoryMissing(t *testing.T) {
	mock, c := newMock(t)
	mock.ExpectExec("UPDATE categories").WithArgs(int64(9), "Garden").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := c.UpdateCategory(context.Background(), admin, 9, "Garden")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateProductSubCategoryMustMatchCategory(t *testing.T) {
	mock, c := newMock(t)
	sub := int64(4)

	mock.ExpectQuery("FROM categories").WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("FROM sub_categories").WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category_id"}).AddRow(int64(4), "Cups", int64(2)))

	_, err := c.CreateProduct(context.Background(), admin, NewProduct{
		Name: "Mug", CategoryID: 1, SubCategoryID: &sub, Price: decimal.RequireFromString("10.00"), AmountInStock: 5,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductUnknownCategory(t *testing.T) {
	mock, c := newMock(t)
	mock.ExpectQuery("FROM categories").WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := c.CreateProduct(context.Background(), admin, NewProduct{
		Name: "Mug", CategoryID: 7, Price: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProduct(t *testing.T) {
	mock, c := newMock(t)
	now := time.Now()
	sub := int64(4)

	mock.ExpectQuery("FROM categories").WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("FROM sub_categories").WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category_id"}).AddRow(int64(4), "Cups", int64(1)))
	mock.ExpectQuery("INSERT INTO products").
		WithArgs("Mug", int64(1), &sub, "", pgxmock.AnyArg(), 5).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(int64(10), "Mug", int64(1), &sub, "", decimal.RequireFromString("10.00"), 5, now, now))

	p, err := c.CreateProduct(context.Background(), admin, NewProduct{
		Name: "Mug", CategoryID: 1, SubCategoryID: &sub, Price: decimal.RequireFromString("10.00"), AmountInStock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.ID)
	require.NotNil(t, p.SubCategoryID)
	assert.Equal(t, int64(4), *p.SubCategoryID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	_, c := newMock(t)

	_, err := c.CreateProduct(context.Background(), admin, NewProduct{Name: "Mug", CategoryID: 1, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = c.CreateProduct(context.Background(), admin, NewProduct{Name: "Mug", CategoryID: 1, Price: decimal.RequireFromString("1.001")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = c.CreateProduct(context.Background(), admin, NewProduct{Name: "Mug", CategoryID: 1, AmountInStock: -1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateProductNotFound(t *testing.T) {
	mock, c := newMock(t)
	mock.ExpectQuery("FROM products").WithArgs(int64(10)).WillReturnRows(pgxmock.NewRows(productCols))

	name := "Cup"
	_, err := c.UpdateProduct(context.Background(), admin, 10, ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProductStock(t *testing.T) {
	mock, c := newMock(t)
	now := time.Now()
	sub := int64(4)

	mock.ExpectQuery("FROM products").WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(int64(10), "Mug", int64(1), &sub, "", decimal.RequireFromString("10.00"), 5, now, now))
	mock.ExpectQuery("UPDATE products").
		WithArgs(int64(10), "Mug", int64(1), &sub, "", pgxmock.AnyArg(), 42).
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow(int64(10), "Mug", int64(1), &sub, "", decimal.RequireFromString("10.00"), 42, now, now))

	stock := 42
	p, err := c.UpdateProduct(context.Background(), admin, 10, ProductUpdate{AmountInStock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 42, p.AmountInStock)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductReferencedByOrders(t *testing.T) {
	mock, c := newMock(t)
	mock.ExpectExec("DELETE FROM products").WithArgs(int64(10)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "order_items_product_id_fkey"})
	mock.ExpectExec("DELETE FROM products").WithArgs(int64(11)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, c.DeleteProduct(context.Background(), admin, 10), apperr.ErrValidation)
	assert.ErrorIs(t, c.DeleteProduct(context.Background(), admin, 11), apperr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductWhere(t *testing.T) {
	name := "mug"
	low := true
	gte := decimal.RequireFromString("5")
	cat := int64(3)

	w := productWhere(ProductFilter{Name: &name, CategoryID: &cat, PriceGte: &gte, LowStock: &low})
	assert.Equal(t, " WHERE name ILIKE $1 AND category_id = $2 AND price >= $3 AND amount_in_stock < $4", w.SQL())
	assert.Equal(t, []any{"%mug%", int64(3), gte, LowStockThreshold}, w.Args())

	assert.Empty(t, productWhere(ProductFilter{}).SQL())
}

func TestListCategoriesByName(t *testing.T) {
	mock, c := newMock(t)
	name := "kit"
	mock.ExpectQuery("FROM categories").WithArgs("%kit%").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Kitchen"))

	out, err := c.ListCategories(context.Background(), CategoryFilter{Name: &name})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Kitchen", out[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
