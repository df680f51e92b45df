package reviews

import "time"

type Rating struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	RatingFrom int64     `json:"rating_from"`
	Stars      int       `json:"stars"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type Comment struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	CommentFrom int64     `json:"comment_from"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewRating struct {
	ProductID  int64  `validate:"required,gt=0"`
	RatingFrom int64  `validate:"required,gt=0"`
	Stars      int    `validate:"min=1,max=5"`
	Comment    string `validate:"max=2000"`
}

type NewComment struct {
	ProductID   int64  `validate:"required,gt=0"`
	CommentFrom int64  `validate:"required,gt=0"`
	Body        string `validate:"required,max=2000"`
}

type RatingFilter struct {
	ProductID  *int64
	RatingFrom *int64
	MinStars   *int
	MaxStars   *int
}

type CommentFilter struct {
	ProductID     *int64
	CommentFrom   *int64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// Summary aggregates the ratings of one product.
type Summary struct {
	Average float64
	Count   int64
}
