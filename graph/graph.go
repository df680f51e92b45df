// Package graph exposes the store over GraphQL.
package graph

import (
	"context"
	_ "embed"
	"log/slog"
	"strconv"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/cart"
	"github.com/GodwinCyber/alx-project-nexus/internal/catalog"
	"github.com/GodwinCyber/alx-project-nexus/internal/orders"
	"github.com/GodwinCyber/alx-project-nexus/internal/payments"
	"github.com/GodwinCyber/alx-project-nexus/internal/reviews"
	"github.com/GodwinCyber/alx-project-nexus/internal/users"
	"github.com/GodwinCyber/alx-project-nexus/pkg/ctxmanage"
	"github.com/GodwinCyber/alx-project-nexus/pkg/logkey"
	graphql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

const (
	maxDepth       = 10
	maxParallelism = 10
)

type Users interface {
	Register(ctx context.Context, nu users.NewUser) (users.User, error)
	Login(ctx context.Context, email, password string) (users.Session, error)
	GetUser(ctx context.Context, viewer auth.Identity, id int64) (users.User, error)
	UserByID(ctx context.Context, id int64) (users.User, error)
}

type Catalog interface {
	CreateCategory(ctx context.Context, user auth.Identity, nc catalog.NewCategory) (catalog.Category, error)
	UpdateCategory(ctx context.Context, user auth.Identity, id int64, name string) (catalog.Category, error)
	DeleteCategory(ctx context.Context, user auth.Identity, id int64) error
	GetCategory(ctx context.Context, id int64) (catalog.Category, error)
	ListCategories(ctx context.Context, f catalog.CategoryFilter) ([]catalog.Category, error)

	CreateSubCategory(ctx context.Context, user auth.Identity, ns catalog.NewSubCategory) (catalog.SubCategory, error)
	UpdateSubCategory(ctx context.Context, user auth.Identity, id int64, u catalog.SubCategoryUpdate) (catalog.SubCategory, error)
	DeleteSubCategory(ctx context.Context, user auth.Identity, id int64) error
	GetSubCategory(ctx context.Context, id int64) (catalog.SubCategory, error)
	ListSubCategories(ctx context.Context, f catalog.SubCategoryFilter) ([]catalog.SubCategory, error)

	CreateProduct(ctx context.Context, user auth.Identity, np catalog.NewProduct) (catalog.Product, error)
	UpdateProduct(ctx context.Context, user auth.Identity, id int64, u catalog.ProductUpdate) (catalog.Product, error)
	DeleteProduct(ctx context.Context, user auth.Identity, id int64) error
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
	ListProducts(ctx context.Context, f catalog.ProductFilter) ([]catalog.Product, error)

	CreateProductImage(ctx context.Context, user auth.Identity, ni catalog.NewProductImage) (catalog.ProductImage, error)
	DeleteProductImage(ctx context.Context, user auth.Identity, id int64) error
	ListProductImages(ctx context.Context, f catalog.ImageFilter) ([]catalog.ProductImage, error)
}

type Carts interface {
	GetCart(ctx context.Context, user auth.Identity) (cart.Cart, error)
	AddItem(ctx context.Context, user auth.Identity, productID int64, quantity int) (cart.CartItem, error)
	UpdateItem(ctx context.Context, user auth.Identity, itemID int64, quantity int) (cart.CartItem, error)
	RemoveItem(ctx context.Context, user auth.Identity, itemID int64) error
	Items(ctx context.Context, user auth.Identity, f cart.ItemFilter) ([]cart.CartItem, error)
}

type Orders interface {
	PlaceOrder(ctx context.Context, user auth.Identity, status orders.Status) (orders.Order, error)
	GetOrder(ctx context.Context, user auth.Identity, id int64) (orders.Order, error)
	ListOrders(ctx context.Context, user auth.Identity, f orders.Filter) ([]orders.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]orders.OrderItem, error)
}

type Payments interface {
	CreatePayment(ctx context.Context, user auth.Identity, np payments.NewPayment) (payments.Created, error)
	ListPayments(ctx context.Context, user auth.Identity, f payments.Filter) ([]payments.Payment, error)
}

type Reviews interface {
	CreateRating(ctx context.Context, user auth.Identity, nr reviews.NewRating) (reviews.Rating, error)
	CreateComment(ctx context.Context, user auth.Identity, nc reviews.NewComment) (reviews.Comment, error)
	ListRatings(ctx context.Context, f reviews.RatingFilter) ([]reviews.Rating, error)
	ListComments(ctx context.Context, f reviews.CommentFilter) ([]reviews.Comment, error)
	ProductSummary(ctx context.Context, productID int64) (reviews.Summary, error)
}

// Services are the domain components behind the resolvers.
type Services struct {
	Users    Users
	Catalog  Catalog
	Carts    Carts
	Orders   Orders
	Payments Payments
	Reviews  Reviews
}

// Resolver is the root of both Query and Mutation.
type Resolver struct {
	s Services
}

func NewSchema(s Services) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaSDL, &Resolver{s: s},
		graphql.MaxDepth(maxDepth),
		graphql.MaxParallelism(maxParallelism),
	)
}

func toID(n int64) graphql.ID {
	return graphql.ID(strconv.FormatInt(n, 10))
}

func parseID(id graphql.ID) (int64, error) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, apperr.Validation("invalid id %q", string(id))
	}
	return n, nil
}

func parseOptID(id *graphql.ID) (*int64, error) {
	if id == nil {
		return nil, nil
	}
	n, err := parseID(*id)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optInt(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// present hides internal failures from API callers. Typed errors pass through
// and carry their code in the response extensions.
func present(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	slog.Error("internal error", slog.String(logkey.TraceID, ctxmanage.TraceID(ctx)), slog.String(logkey.ERROR, err.Error()))
	return &apperr.Error{Kind: apperr.KindInternal, Msg: "internal server error"}
}
