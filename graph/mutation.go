package graph

import (
	"context"
	"strings"

	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/internal/catalog"
	"github.com/GodwinCyber/alx-project-nexus/internal/orders"
	"github.com/GodwinCyber/alx-project-nexus/internal/payments"
	"github.com/GodwinCyber/alx-project-nexus/internal/reviews"
	"github.com/GodwinCyber/alx-project-nexus/internal/users"
	graphql "github.com/graph-gophers/graphql-go"
)

type createUserInput struct {
	Email    string
	Username string
	Password string
}

type createSubCategoryInput struct {
	Name       string
	CategoryId graphql.ID
}

type updateSubCategoryInput struct {
	Name       *string
	CategoryId *graphql.ID
}

type createProductInput struct {
	Name          string
	CategoryId    graphql.ID
	SubCategoryId *graphql.ID
	Description   *string
	Price         Decimal
	AmountInStock int32
}

type updateProductInput struct {
	Name          *string
	CategoryId    *graphql.ID
	SubCategoryId *graphql.ID
	Description   *string
	Price         *Decimal
	AmountInStock *int32
}

type createPaymentInput struct {
	UserId   graphql.ID
	OrderId  graphql.ID
	Amount   Decimal
	Currency *string
}

type createRatingInput struct {
	ProductId  graphql.ID
	RatingFrom graphql.ID
	Stars      int32
	Comment    *string
}

type createCommentInput struct {
	ProductId   graphql.ID
	CommentFrom graphql.ID
	Body        string
}

type userPayload struct{ u *userResolver }

func (p *userPayload) Ok() bool            { return true }
func (p *userPayload) User() *userResolver { return p.u }

type loginPayload struct{ s users.Session }

func (p *loginPayload) Ok() bool             { return true }
func (p *loginPayload) AccessToken() string  { return p.s.AccessToken }
func (p *loginPayload) RefreshToken() string { return p.s.RefreshToken }
func (p *loginPayload) User() *userResolver  { return &userResolver{u: p.s.User} }

type deletePayload struct{}

func (*deletePayload) Ok() bool { return true }

type categoryPayload struct{ c *categoryResolver }

func (p *categoryPayload) Ok() bool                    { return true }
func (p *categoryPayload) Category() *categoryResolver { return p.c }

type subCategoryPayload struct{ sc *subCategoryResolver }

func (p *subCategoryPayload) Ok() bool                          { return true }
func (p *subCategoryPayload) SubCategory() *subCategoryResolver { return p.sc }

type productPayload struct{ p *productResolver }

func (p *productPayload) Ok() bool                  { return true }
func (p *productPayload) Product() *productResolver { return p.p }

type productImagePayload struct{ img *productImageResolver }

func (p *productImagePayload) Ok() bool                            { return true }
func (p *productImagePayload) ProductImage() *productImageResolver { return p.img }

type cartItemPayload struct{ it *cartItemResolver }

func (p *cartItemPayload) Ok() bool                    { return true }
func (p *cartItemPayload) CartItem() *cartItemResolver { return p.it }

type orderPayload struct{ o *orderResolver }

func (p *orderPayload) Ok() bool              { return true }
func (p *orderPayload) Order() *orderResolver { return p.o }

type paymentPayload struct {
	p            *paymentResolver
	clientSecret string
}

func (p *paymentPayload) Ok() bool                  { return true }
func (p *paymentPayload) Payment() *paymentResolver { return p.p }
func (p *paymentPayload) ClientSecret() string      { return p.clientSecret }

type ratingPayload struct{ r *ratingResolver }

func (p *ratingPayload) Ok() bool                { return true }
func (p *ratingPayload) Rating() *ratingResolver { return p.r }

type commentPayload struct{ c *commentResolver }

func (p *commentPayload) Ok() bool                  { return true }
func (p *commentPayload) Comment() *commentResolver { return p.c }

func (r *Resolver) CreateUser(ctx context.Context, args struct{ Input createUserInput }) (*userPayload, error) {
	u, err := r.s.Users.Register(ctx, users.NewUser{
		Email:    args.Input.Email,
		Username: args.Input.Username,
		Password: args.Input.Password,
	})
	if err != nil {
		return nil, present(ctx, err)
	}
	return &userPayload{u: &userResolver{u: u}}, nil
}

func (r *Resolver) LoginUser(ctx context.Context, args struct {
	Email    string
	Password string
}) (*loginPayload, error) {
	s, err := r.s.Users.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, present(ctx, err)
	}
	return &loginPayload{s: s}, nil
}

func (r *Resolver) CreateCategory(ctx context.Context, args struct{ Name string }) (*categoryPayload, error) {
	c, err := r.s.Catalog.CreateCategory(ctx, auth.FromContext(ctx), catalog.NewCategory{Name: args.Name})
	if err != nil {
		return nil, present(ctx, err)
	}
	return &categoryPayload{c: r.category(c)}, nil
}

func (r *Resolver) UpdateCategory(ctx context.Context, args struct {
	ID   graphql.ID
	Name string
}) (*categoryPayload, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	c, err := r.s.Catalog.UpdateCategory(ctx, auth.FromContext(ctx), id, args.Name)
	if err != nil {
		return nil, present(ctx, err)
	}
	return &categoryPayload{c: r.category(c)}, nil
}

func (r *Resolver) DeleteCategory(ctx context.Context, args struct{ ID graphql.ID }) (*deletePayload, error) {
	return r.deleteWith(ctx, args.ID, func(ctx context.Context, user auth.Identity, id int64) error {
		return r.s.Catalog.DeleteCategory(ctx, user, id)
	})
}

func (r *Resolver) CreateSubCategory(ctx context.Context, args struct{ Input createSubCategoryInput }) (*subCategoryPayload, error) {
	cat, err := parseID(args.Input.CategoryId)
	if err != nil {
		return nil, err
	}
	sc, err := r.s.Catalog.CreateSubCategory(ctx, auth.FromContext(ctx), catalog.NewSubCategory{
		Name: args.Input.Name, CategoryID: cat,
	})
	if err != nil {
		return nil, present(ctx, err)
	}
	return &subCategoryPayload{sc: r.subCategory(sc)}, nil
}

func (r *Resolver) UpdateSubCategory(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateSubCategoryInput
}) (*subCategoryPayload, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	cat, err := parseOptID(args.Input.CategoryId)
	if err != nil {
		return nil, err
	}
	sc, err := r.s.Catalog.UpdateSubCategory(ctx, auth.FromContext(ctx), id, catalog.SubCategoryUpdate{
		Name: args.Input.Name, CategoryID: cat,
	})
	if err != nil {
		return nil, present(ctx, err)
	}
	return &subCategoryPayload{sc: r.subCategory(sc)}, nil
}

func (r *Resolver) DeleteSubCategory(ctx context.Context, args struct{ ID graphql.ID }) (*deletePayload, error) {
	return r.deleteWith(ctx, args.ID, func(ctx context.Context, user auth.Identity, id int64) error {
		return r.s.Catalog.DeleteSubCategory(ctx, user, id)
	})
}

func (r *Resolver) CreateProduct(ctx context.Context, args struct{ Input createProductInput }) (*productPayload, error) {
	in := args.Input
	cat, err := parseID(in.CategoryId)
	if err != nil {
		return nil, err
	}
	sub, err := parseOptID(in.SubCategoryId)
	if err != nil {
		return nil, err
	}
	np := catalog.NewProduct{
		Name:          in.Name,
		CategoryID:    cat,
		SubCategoryID: sub,
		Price:         in.Price.Decimal,
		AmountInStock: int(in.AmountInStock),
	}
	if in.Description != nil {
		np.Description = *in.Description
	}
	p, err := r.s.Catalog.CreateProduct(ctx, auth.FromContext(ctx), np)
	if err != nil {
		return nil, present(ctx, err)
	}
	return &productPayload{p: r.product(p)}, nil
}

func (r *Resolver) UpdateProduct(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateProductInput
}) (*productPayload, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	in := args.Input
	cat, err := parseOptID(in.CategoryId)
	if err != nil {
		return nil, err
	}
	sub, err := parseOptID(in.SubCategoryId)
	if err != nil {
		return nil, err
	}
	p, err := r.s.Catalog.UpdateProduct(ctx, auth.FromContext(ctx), id, catalog.ProductUpdate{
		Name:          in.Name,
		CategoryID:    cat,
		SubCategoryID: sub,
		Description:   in.Description,
		Price:         optDecimal(in.Price),
		AmountInStock: optInt(in.AmountInStock),
	})
	if err != nil {
		return nil, present(ctx, err)
	}
	return &productPayload{p: r.product(p)}, nil
}

func (r *Resolver) DeleteProduct(ctx context.Context, args struct{ ID graphql.ID }) (*deletePayload, error) {
	return r.deleteWith(ctx, args.ID, func(ctx context.Context, user auth.Identity, id int64) error {
		return r.s.Catalog.DeleteProduct(ctx, user, id)
	})
}

func (r *Resolver) CreateProductImage(ctx context.Context, args struct {
	ProductId graphql.ID
	Image     string
}) (*productImagePayload, error) {
	pid, err := parseID(args.ProductId)
	if err != nil {
		return nil, err
	}
	img, err := r.s.Catalog.CreateProductImage(ctx, auth.FromContext(ctx), catalog.NewProductImage{
		ProductID: pid, Image: args.Image,
	})
	if err != nil {
		return nil, present(ctx, err)
	}
	return &productImagePayload{img: r.productImage(img)}, nil
}

func (r *Resolver) DeleteProductImage(ctx context.Context, args struct{ ID graphql.ID }) (*deletePayload, error) {
	return r.deleteWith(ctx, args.ID, func(ctx context.Context, user auth.Identity, id int64) error {
		return r.s.Catalog.DeleteProductImage(ctx, user, id)
	})
}

func (r *Resolver) AddToCart(ctx context.Context, args struct {
	ProductId graphql.ID
	Quantity  int32
}) (*cartItemPayload, error) {
	pid, err := parseID(args.ProductId)
	if err != nil {
		return nil, err
	}
	it, err := r.s.Carts.AddItem(ctx, auth.FromContext(ctx), pid, int(args.Quantity))
	if err != nil {
		return nil, present(ctx, err)
	}
	return &cartItemPayload{it: &cartItemResolver{root: r, it: it}}, nil
}

func (r *Resolver) UpdateCartItem(ctx context.Context, args struct {
	ID       graphql.ID
	Quantity int32
}) (*cartItemPayload, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	it, err := r.s.Carts.UpdateItem(ctx, auth.FromContext(ctx), id, int(args.Quantity))
	if err != nil {
		return nil, present(ctx, err)
	}
	return &cartItemPayload{it: &cartItemResolver{root: r, it: it}}, nil
}

func (r *Resolver) RemoveCartItem(ctx context.Context, args struct{ ID graphql.ID }) (*deletePayload, error) {
	return r.deleteWith(ctx, args.ID, func(ctx context.Context, user auth.Identity, id int64) error {
		return r.s.Carts.RemoveItem(ctx, user, id)
	})
}

func (r *Resolver) CreateOrder(ctx context.Context, args struct{ Status *string }) (*orderPayload, error) {
	var status orders.Status
	if args.Status != nil {
		status = orders.Status(strings.ToLower(*args.Status))
	}
	o, err := r.s.Orders.PlaceOrder(ctx, auth.FromContext(ctx), status)
	if err != nil {
		return nil, present(ctx, err)
	}
	return &orderPayload{o: r.order(o)}, nil
}

func (r *Resolver) CreatePayment(ctx context.Context, args struct{ Input createPaymentInput }) (*paymentPayload, error) {
	in := args.Input
	uid, err := parseID(in.UserId)
	if err != nil {
		return nil, err
	}
	oid, err := parseID(in.OrderId)
	if err != nil {
		return nil, err
	}
	np := payments.NewPayment{UserID: uid, OrderID: oid, Amount: in.Amount.Decimal}
	if in.Currency != nil {
		np.Currency = *in.Currency
	}
	created, err := r.s.Payments.CreatePayment(ctx, auth.FromContext(ctx), np)
	if err != nil {
		return nil, present(ctx, err)
	}
	return &paymentPayload{p: r.payment(created.Payment), clientSecret: created.ClientSecret}, nil
}

func (r *Resolver) CreateRating(ctx context.Context, args struct{ Input createRatingInput }) (*ratingPayload, error) {
	in := args.Input
	pid, err := parseID(in.ProductId)
	if err != nil {
		return nil, err
	}
	from, err := parseID(in.RatingFrom)
	if err != nil {
		return nil, err
	}
	nr := reviews.NewRating{ProductID: pid, RatingFrom: from, Stars: int(in.Stars)}
	if in.Comment != nil {
		nr.Comment = *in.Comment
	}
	rt, err := r.s.Reviews.CreateRating(ctx, auth.FromContext(ctx), nr)
	if err != nil {
		return nil, present(ctx, err)
	}
	return &ratingPayload{r: r.rating(rt)}, nil
}

func (r *Resolver) CreateComment(ctx context.Context, args struct{ Input createCommentInput }) (*commentPayload, error) {
	in := args.Input
	pid, err := parseID(in.ProductId)
	if err != nil {
		return nil, err
	}
	from, err := parseID(in.CommentFrom)
	if err != nil {
		return nil, err
	}
	cm, err := r.s.Reviews.CreateComment(ctx, auth.FromContext(ctx), reviews.NewComment{
		ProductID: pid, CommentFrom: from, Body: in.Body,
	})
	if err != nil {
		return nil, present(ctx, err)
	}
	return &commentPayload{c: r.comment(cm)}, nil
}

// deleteWith parses the id before del touches any service.
func (r *Resolver) deleteWith(ctx context.Context, rawID graphql.ID,
	del func(context.Context, auth.Identity, int64) error) (*deletePayload, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	if err := del(ctx, auth.FromContext(ctx), id); err != nil {
		return nil, present(ctx, err)
	}
	return &deletePayload{}, nil
}
