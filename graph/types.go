package graph

import (
	"context"
	"strings"

	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/cart"
	"github.com/GodwinCyber/alx-project-nexus/internal/catalog"
	"github.com/GodwinCyber/alx-project-nexus/internal/orders"
	"github.com/GodwinCyber/alx-project-nexus/internal/payments"
	"github.com/GodwinCyber/alx-project-nexus/internal/reviews"
	"github.com/GodwinCyber/alx-project-nexus/internal/users"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/shopspring/decimal"
)

type userResolver struct {
	u users.User
}

func (r *userResolver) ID() graphql.ID          { return toID(r.u.ID) }
func (r *userResolver) Email() string           { return r.u.Email }
func (r *userResolver) Username() string        { return r.u.Username }
func (r *userResolver) IsStaff() bool           { return r.u.IsStaff }
func (r *userResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.u.CreatedAt} }

func (r *Resolver) userByID(ctx context.Context, id int64) (*userResolver, error) {
	u, err := r.s.Users.UserByID(ctx, id)
	if err != nil {
		return nil, present(ctx, err)
	}
	return &userResolver{u: u}, nil
}

type categoryResolver struct {
	root *Resolver
	c    catalog.Category
}

func (r *Resolver) category(c catalog.Category) *categoryResolver {
	return &categoryResolver{root: r, c: c}
}

func (r *categoryResolver) ID() graphql.ID { return toID(r.c.ID) }
func (r *categoryResolver) Name() string   { return r.c.Name }

func (r *categoryResolver) SubCategories(ctx context.Context) ([]*subCategoryResolver, error) {
	list, err := r.root.s.Catalog.ListSubCategories(ctx, catalog.SubCategoryFilter{CategoryID: &r.c.ID})
	if err != nil {
		return nil, present(ctx, err)
	}
	out := make([]*subCategoryResolver, 0, len(list))
	for _, sc := range list {
		out = append(out, r.root.subCategory(sc))
	}
	return out, nil
}

func (r *categoryResolver) Products(ctx context.Context, args struct {
	First *int32
	After *string
}) (*connection[*productResolver], error) {
	list, err := r.root.s.Catalog.ListProducts(ctx, catalog.ProductFilter{CategoryID: &r.c.ID})
	if err != nil {
		return nil, present(ctx, err)
	}
	return paginate(list, args.First, args.After, r.root.product)
}

type subCategoryResolver struct {
	root *Resolver
	sc   catalog.SubCategory
}

func (r *Resolver) subCategory(sc catalog.SubCategory) *subCategoryResolver {
	return &subCategoryResolver{root: r, sc: sc}
}

func (r *subCategoryResolver) ID() graphql.ID { return toID(r.sc.ID) }
func (r *subCategoryResolver) Name() string   { return r.sc.Name }

func (r *subCategoryResolver) Category(ctx context.Context) (*categoryResolver, error) {
	c, err := r.root.s.Catalog.GetCategory(ctx, r.sc.CategoryID)
	if err != nil {
		return nil, present(ctx, err)
	}
	return r.root.category(c), nil
}

type productResolver struct {
	root *Resolver
	p    catalog.Product
}

func (r *Resolver) product(p catalog.Product) *productResolver {
	return &productResolver{root: r, p: p}
}

func (r *Resolver) productByID(ctx context.Context, id int64) (*productResolver, error) {
	p, err := r.s.Catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, present(ctx, err)
	}
	return r.product(p), nil
}

func (r *productResolver) ID() graphql.ID          { return toID(r.p.ID) }
func (r *productResolver) Name() string            { return r.p.Name }
func (r *productResolver) Description() string     { return r.p.Description }
func (r *productResolver) Price() Decimal          { return newDecimal(r.p.Price) }
func (r *productResolver) AmountInStock() int32    { return int32(r.p.AmountInStock) }
func (r *productResolver) LowStock() bool          { return r.p.AmountInStock < catalog.LowStockThreshold }
func (r *productResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.p.CreatedAt} }
func (r *productResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: r.p.UpdatedAt} }

func (r *productResolver) Category(ctx context.Context) (*categoryResolver, error) {
	c, err := r.root.s.Catalog.GetCategory(ctx, r.p.CategoryID)
	if err != nil {
		return nil, present(ctx, err)
	}
	return r.root.category(c), nil
}

func (r *productResolver) SubCategory(ctx context.Context) (*subCategoryResolver, error) {
	if r.p.SubCategoryID == nil {
		return nil, nil
	}
	sc, err := r.root.s.Catalog.GetSubCategory(ctx, *r.p.SubCategoryID)
	if err != nil {
		return nil, present(ctx, err)
	}
	return r.root.subCategory(sc), nil
}

func (r *productResolver) Images(ctx context.Context) ([]*productImageResolver, error) {
	list, err := r.root.s.Catalog.ListProductImages(ctx, catalog.ImageFilter{ProductID: &r.p.ID})
	if err != nil {
		return nil, present(ctx, err)
	}
	out := make([]*productImageResolver, 0, len(list))
	for _, img := range list {
		out = append(out, r.root.productImage(img))
	}
	return out, nil
}

func (r *productResolver) AverageRating(ctx context.Context) (float64, error) {
	s, err := r.root.s.Reviews.ProductSummary(ctx, r.p.ID)
	if err != nil {
		return 0, present(ctx, err)
	}
	return s.Average, nil
}

func (r *productResolver) RatingCount(ctx context.Context) (int32, error) {
	s, err := r.root.s.Reviews.ProductSummary(ctx, r.p.ID)
	if err != nil {
		return 0, present(ctx, err)
	}
	return int32(s.Count), nil
}

type productImageResolver struct {
	root *Resolver
	img  catalog.ProductImage
}

func (r *Resolver) productImage(img catalog.ProductImage) *productImageResolver {
	return &productImageResolver{root: r, img: img}
}

func (r *productImageResolver) ID() graphql.ID { return toID(r.img.ID) }
func (r *productImageResolver) Image() string  { return r.img.Image }

func (r *productImageResolver) Product(ctx context.Context) (*productResolver, error) {
	return r.root.productByID(ctx, r.img.ProductID)
}

type cartResolver struct {
	root *Resolver
	c    cart.Cart
}

func (r *cartResolver) ID() graphql.ID          { return toID(r.c.ID) }
func (r *cartResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.c.CreatedAt} }

func (r *cartResolver) User(ctx context.Context) (*userResolver, error) {
	return r.root.userByID(ctx, r.c.UserID)
}

func (r *cartResolver) Items(ctx context.Context) ([]*cartItemResolver, error) {
	items, err := r.root.s.Carts.Items(ctx, auth.FromContext(ctx), cart.ItemFilter{})
	if err != nil {
		return nil, present(ctx, err)
	}
	return r.root.wrapCartItems(items), nil
}

type cartItemResolver struct {
	root *Resolver
	it   cart.CartItem
}

func (r *Resolver) wrapCartItems(items []cart.CartItem) []*cartItemResolver {
	out := make([]*cartItemResolver, 0, len(items))
	for _, it := range items {
		out = append(out, &cartItemResolver{root: r, it: it})
	}
	return out
}

func (r *cartItemResolver) ID() graphql.ID          { return toID(r.it.ID) }
func (r *cartItemResolver) Quantity() int32         { return int32(r.it.Quantity) }
func (r *cartItemResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.it.CreatedAt} }
func (r *cartItemResolver) UpdatedAt() graphql.Time { return graphql.Time{Time: r.it.UpdatedAt} }

func (r *cartItemResolver) Product(ctx context.Context) (*productResolver, error) {
	return r.root.productByID(ctx, r.it.ProductID)
}

// Subtotal uses the current product price; the price is only frozen once the
// cart becomes an order.
func (r *cartItemResolver) Subtotal(ctx context.Context) (Decimal, error) {
	p, err := r.root.s.Catalog.GetProduct(ctx, r.it.ProductID)
	if err != nil {
		return Decimal{}, present(ctx, err)
	}
	return newDecimal(p.Price.Mul(decimal.NewFromInt(int64(r.it.Quantity)))), nil
}

type orderResolver struct {
	root *Resolver
	o    orders.Order
}

func (r *Resolver) order(o orders.Order) *orderResolver {
	return &orderResolver{root: r, o: o}
}

func (r *orderResolver) ID() graphql.ID          { return toID(r.o.ID) }
func (r *orderResolver) Status() string          { return strings.ToUpper(string(r.o.Status)) }
func (r *orderResolver) Total() Decimal          { return newDecimal(r.o.Total) }
func (r *orderResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.o.CreatedAt} }

func (r *orderResolver) User(ctx context.Context) (*userResolver, error) {
	return r.root.userByID(ctx, r.o.UserID)
}

func (r *orderResolver) Items(ctx context.Context) ([]*orderItemResolver, error) {
	items := r.o.Items
	if items == nil {
		var err error
		items, err = r.root.s.Orders.ListItems(ctx, r.o.ID)
		if err != nil {
			return nil, present(ctx, err)
		}
	}
	out := make([]*orderItemResolver, 0, len(items))
	for _, it := range items {
		out = append(out, &orderItemResolver{root: r.root, it: it})
	}
	return out, nil
}

type orderItemResolver struct {
	root *Resolver
	it   orders.OrderItem
}

func (r *orderItemResolver) ID() graphql.ID  { return toID(r.it.ID) }
func (r *orderItemResolver) Quantity() int32 { return int32(r.it.Quantity) }
func (r *orderItemResolver) Price() Decimal  { return newDecimal(r.it.Price) }

func (r *orderItemResolver) Product(ctx context.Context) (*productResolver, error) {
	return r.root.productByID(ctx, r.it.ProductID)
}

type paymentResolver struct {
	root *Resolver
	p    payments.Payment
}

func (r *Resolver) payment(p payments.Payment) *paymentResolver {
	return &paymentResolver{root: r, p: p}
}

func (r *paymentResolver) ID() graphql.ID              { return toID(r.p.ID) }
func (r *paymentResolver) StripePaymentIntent() string { return r.p.PaymentIntent }
func (r *paymentResolver) Amount() Decimal             { return newDecimal(r.p.Amount) }
func (r *paymentResolver) Currency() string            { return r.p.Currency }
func (r *paymentResolver) Status() string              { return strings.ToUpper(string(r.p.Status)) }
func (r *paymentResolver) CreatedAt() graphql.Time     { return graphql.Time{Time: r.p.CreatedAt} }

func (r *paymentResolver) User(ctx context.Context) (*userResolver, error) {
	return r.root.userByID(ctx, r.p.UserID)
}

func (r *paymentResolver) Order(ctx context.Context) (*orderResolver, error) {
	o, err := r.root.s.Orders.GetOrder(ctx, auth.FromContext(ctx), r.p.OrderID)
	if err != nil {
		return nil, present(ctx, err)
	}
	return r.root.order(o), nil
}

type ratingResolver struct {
	root *Resolver
	rt   reviews.Rating
}

func (r *Resolver) rating(rt reviews.Rating) *ratingResolver {
	return &ratingResolver{root: r, rt: rt}
}

func (r *ratingResolver) ID() graphql.ID          { return toID(r.rt.ID) }
func (r *ratingResolver) RatingFrom() graphql.ID  { return toID(r.rt.RatingFrom) }
func (r *ratingResolver) Stars() int32            { return int32(r.rt.Stars) }
func (r *ratingResolver) Comment() string         { return r.rt.Comment }
func (r *ratingResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.rt.CreatedAt} }

func (r *ratingResolver) Product(ctx context.Context) (*productResolver, error) {
	return r.root.productByID(ctx, r.rt.ProductID)
}

type commentResolver struct {
	root *Resolver
	cm   reviews.Comment
}

func (r *Resolver) comment(cm reviews.Comment) *commentResolver {
	return &commentResolver{root: r, cm: cm}
}

func (r *commentResolver) ID() graphql.ID          { return toID(r.cm.ID) }
func (r *commentResolver) CommentFrom() graphql.ID { return toID(r.cm.CommentFrom) }
func (r *commentResolver) Body() string            { return r.cm.Body }
func (r *commentResolver) CreatedAt() graphql.Time { return graphql.Time{Time: r.cm.CreatedAt} }

func (r *commentResolver) Product(ctx context.Context) (*productResolver, error) {
	return r.root.productByID(ctx, r.cm.ProductID)
}
