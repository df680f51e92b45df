package graph

import (
	"context"
	"errors"
	"strings"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/cart"
	"github.com/GodwinCyber/alx-project-nexus/internal/catalog"
	"github.com/GodwinCyber/alx-project-nexus/internal/orders"
	"github.com/GodwinCyber/alx-project-nexus/internal/payments"
	"github.com/GodwinCyber/alx-project-nexus/internal/reviews"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/shopspring/decimal"
)

type productFilterInput struct {
	Name          *string
	CategoryId    *graphql.ID
	SubCategoryId *graphql.ID
	PriceGte      *Decimal
	PriceLte      *Decimal
	StockGte      *int32
	StockLte      *int32
	LowStock      *bool
}

type cartItemFilterInput struct {
	ProductId   *graphql.ID
	MinQuantity *int32
	MaxQuantity *int32
}

type orderFilterInput struct {
	Status        *string
	CreatedAfter  *graphql.Time
	CreatedBefore *graphql.Time
}

type paymentFilterInput struct {
	OrderId       *graphql.ID
	Status        *string
	AmountGte     *Decimal
	AmountLte     *Decimal
	CreatedAfter  *graphql.Time
	CreatedBefore *graphql.Time
}

type ratingFilterInput struct {
	ProductId  *graphql.ID
	RatingFrom *graphql.ID
	MinStars   *int32
	MaxStars   *int32
}

type commentFilterInput struct {
	ProductId     *graphql.ID
	CommentFrom   *graphql.ID
	CreatedAfter  *graphql.Time
	CreatedBefore *graphql.Time
}

func optDecimal(d *Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	return &d.Decimal
}

func (f *productFilterInput) toFilter() (catalog.ProductFilter, error) {
	if f == nil {
		return catalog.ProductFilter{}, nil
	}
	cat, err := parseOptID(f.CategoryId)
	if err != nil {
		return catalog.ProductFilter{}, err
	}
	sub, err := parseOptID(f.SubCategoryId)
	if err != nil {
		return catalog.ProductFilter{}, err
	}
	return catalog.ProductFilter{
		Name:          f.Name,
		CategoryID:    cat,
		SubCategoryID: sub,
		PriceGte:      optDecimal(f.PriceGte),
		PriceLte:      optDecimal(f.PriceLte),
		StockGte:      optInt(f.StockGte),
		StockLte:      optInt(f.StockLte),
		LowStock:      f.LowStock,
	}, nil
}

func (r *Resolver) User(ctx context.Context, args struct{ ID graphql.ID }) (*userResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	u, err := r.s.Users.GetUser(ctx, auth.FromContext(ctx), id)
	if err != nil {
		return nil, present(ctx, err)
	}
	return &userResolver{u: u}, nil
}

func (r *Resolver) AllCategories(ctx context.Context, args struct {
	Name  *string
	First *int32
	After *string
}) (*connection[*categoryResolver], error) {
	list, err := r.s.Catalog.ListCategories(ctx, catalog.CategoryFilter{Name: args.Name})
	if err != nil {
		return nil, present(ctx, err)
	}
	return paginate(list, args.First, args.After, r.category)
}

func (r *Resolver) CategoryById(ctx context.Context, args struct{ ID graphql.ID }) (*categoryResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	c, err := r.s.Catalog.GetCategory(ctx, id)
	if err != nil {
		return nil, present(ctx, err)
	}
	return r.category(c), nil
}

func (r *Resolver) AllSubCategories(ctx context.Context, args struct {
	Name       *string
	CategoryId *graphql.ID
	First      *int32
	After      *string
}) (*connection[*subCategoryResolver], error) {
	cat, err := parseOptID(args.CategoryId)
	if err != nil {
		return nil, err
	}
	list, err := r.s.Catalog.ListSubCategories(ctx, catalog.SubCategoryFilter{Name: args.Name, CategoryID: cat})
	if err != nil {
		return nil, present(ctx, err)
	}
	return paginate(list, args.First, args.After, r.subCategory)
}

func (r *Resolver) AllProducts(ctx context.Context, args struct {
	Filter *productFilterInput
	First  *int32
	After  *string
}) (*connection[*productResolver], error) {
	f, err := args.Filter.toFilter()
	if err != nil {
		return nil, err
	}
	list, err := r.s.Catalog.ListProducts(ctx, f)
	if err != nil {
		return nil, present(ctx, err)
	}
	return paginate(list, args.First, args.After, r.product)
}

func (r *Resolver) Products(ctx context.Context, args struct{ Filter *productFilterInput }) ([]*productResolver, error) {
	f, err := args.Filter.toFilter()
	if err != nil {
		return nil, err
	}
	list, err := r.s.Catalog.ListProducts(ctx, f)
	if err != nil {
		return nil, present(ctx, err)
	}
	out := make([]*productResolver, 0, len(list))
	for _, p := range list {
		out = append(out, r.product(p))
	}
	return out, nil
}

func (r *Resolver) ProductById(ctx context.Context, args struct{ ID graphql.ID }) (*productResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	return r.productByID(ctx, id)
}

// Cart is null until the user adds a first item.
func (r *Resolver) Cart(ctx context.Context) (*cartResolver, error) {
	c, err := r.s.Carts.GetCart(ctx, auth.FromContext(ctx))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, present(ctx, err)
	}
	return &cartResolver{root: r, c: c}, nil
}

func (r *Resolver) CartItems(ctx context.Context, args struct{ Filter *cartItemFilterInput }) ([]*cartItemResolver, error) {
	var f cart.ItemFilter
	if args.Filter != nil {
		pid, err := parseOptID(args.Filter.ProductId)
		if err != nil {
			return nil, err
		}
		f = cart.ItemFilter{
			ProductID:   pid,
			MinQuantity: optInt(args.Filter.MinQuantity),
			MaxQuantity: optInt(args.Filter.MaxQuantity),
		}
	}
	items, err := r.s.Carts.Items(ctx, auth.FromContext(ctx), f)
	if err != nil {
		return nil, present(ctx, err)
	}
	return r.wrapCartItems(items), nil
}

func (r *Resolver) Orders(ctx context.Context, args struct {
	Filter *orderFilterInput
	First  *int32
	After  *string
}) (*connection[*orderResolver], error) {
	var f orders.Filter
	if args.Filter != nil {
		if args.Filter.Status != nil {
			st := orders.Status(strings.ToLower(*args.Filter.Status))
			f.Status = &st
		}
		if t := args.Filter.CreatedAfter; t != nil {
			f.CreatedAfter = &t.Time
		}
		if t := args.Filter.CreatedBefore; t != nil {
			f.CreatedBefore = &t.Time
		}
	}
	list, err := r.s.Orders.ListOrders(ctx, auth.FromContext(ctx), f)
	if err != nil {
		return nil, present(ctx, err)
	}
	return paginate(list, args.First, args.After, r.order)
}

func (r *Resolver) OrderById(ctx context.Context, args struct{ ID graphql.ID }) (*orderResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	o, err := r.s.Orders.GetOrder(ctx, auth.FromContext(ctx), id)
	if err != nil {
		return nil, present(ctx, err)
	}
	return r.order(o), nil
}

func (r *Resolver) AllPayments(ctx context.Context, args struct {
	Filter *paymentFilterInput
	First  *int32
	After  *string
}) (*connection[*paymentResolver], error) {
	var f payments.Filter
	if args.Filter != nil {
		oid, err := parseOptID(args.Filter.OrderId)
		if err != nil {
			return nil, err
		}
		f.OrderID = oid
		if args.Filter.Status != nil {
			st := payments.Status(strings.ToLower(*args.Filter.Status))
			f.Status = &st
		}
		f.AmountGte = optDecimal(args.Filter.AmountGte)
		f.AmountLte = optDecimal(args.Filter.AmountLte)
		if t := args.Filter.CreatedAfter; t != nil {
			f.CreatedAfter = &t.Time
		}
		if t := args.Filter.CreatedBefore; t != nil {
			f.CreatedBefore = &t.Time
		}
	}
	list, err := r.s.Payments.ListPayments(ctx, auth.FromContext(ctx), f)
	if err != nil {
		return nil, present(ctx, err)
	}
	return paginate(list, args.First, args.After, r.payment)
}

func (r *Resolver) AllRatings(ctx context.Context, args struct {
	Filter *ratingFilterInput
	First  *int32
	After  *string
}) (*connection[*ratingResolver], error) {
	var f reviews.RatingFilter
	if args.Filter != nil {
		pid, err := parseOptID(args.Filter.ProductId)
		if err != nil {
			return nil, err
		}
		from, err := parseOptID(args.Filter.RatingFrom)
		if err != nil {
			return nil, err
		}
		f = reviews.RatingFilter{
			ProductID:  pid,
			RatingFrom: from,
			MinStars:   optInt(args.Filter.MinStars),
			MaxStars:   optInt(args.Filter.MaxStars),
		}
	}
	list, err := r.s.Reviews.ListRatings(ctx, f)
	if err != nil {
		return nil, present(ctx, err)
	}
	return paginate(list, args.First, args.After, r.rating)
}

func (r *Resolver) AllComments(ctx context.Context, args struct {
	Filter *commentFilterInput
	First  *int32
	After  *string
}) (*connection[*commentResolver], error) {
	var f reviews.CommentFilter
	if args.Filter != nil {
		pid, err := parseOptID(args.Filter.ProductId)
		if err != nil {
			return nil, err
		}
		from, err := parseOptID(args.Filter.CommentFrom)
		if err != nil {
			return nil, err
		}
		f = reviews.CommentFilter{ProductID: pid, CommentFrom: from}
		if t := args.Filter.CreatedAfter; t != nil {
			f.CreatedAfter = &t.Time
		}
		if t := args.Filter.CreatedBefore; t != nil {
			f.CreatedBefore = &t.Time
		}
	}
	list, err := r.s.Reviews.ListComments(ctx, f)
	if err != nil {
		return nil, present(ctx, err)
	}
	return paginate(list, args.First, args.After, r.comment)
}
