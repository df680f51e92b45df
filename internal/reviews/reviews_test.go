package reviews

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/internal/apperr"
	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = auth.Identity{UserID: 1, Roles: []string{auth.RoleUser}}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Conf) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	c, err := NewConf(mock)
	require.NoError(t, err)
	return mock, c
}

func TestCreateRatingStarBounds(t *testing.T) {
	tt := []struct {
		stars   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{3, false},
		{5, false},
		{6, true},
	}
	for _, tc := range tt {
		t.Run(strconv.Itoa(tc.stars), func(t *testing.T) {
			mock, c := newMock(t)
			if !tc.wantErr {
				mock.ExpectQuery("INSERT INTO ratings").WithArgs(int64(10), int64(1), tc.stars, "nice").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now()))
			}

			r, err := c.CreateRating(context.Background(), alice, NewRating{
				ProductID: 10, RatingFrom: 1, Stars: tc.stars, Comment: "nice",
			})
			if tc.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.stars, r.Stars)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateRatingIdentityMismatch(t *testing.T) {
	mock, c := newMock(t)

	_, err := c.CreateRating(context.Background(), alice, NewRating{ProductID: 10, RatingFrom: 2, Stars: 4})
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)

	_, err = c.CreateRating(context.Background(), auth.Identity{}, NewRating{ProductID: 10, RatingFrom: 2, Stars: 4})
	assert.ErrorIs(t, err, apperr.ErrAuthenticationRequired)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRatingUnknownProduct(t *testing.T) {
	mock, c := newMock(t)
	mock.ExpectQuery("INSERT INTO ratings").WithArgs(int64(99), int64(1), 4, "").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "ratings_product_id_fkey"})

	_, err := c.CreateRating(context.Background(), alice, NewRating{ProductID: 99, RatingFrom: 1, Stars: 4})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteErrorMapsStarCheck(t *testing.T) {
	err := writeError(&pgconn.PgError{Code: "23514", ConstraintName: "valid_star_range"}, 10)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateComment(t *testing.T) {
	mock, c := newMock(t)
	mock.ExpectQuery("INSERT INTO comments").WithArgs(int64(10), int64(1), "solid mug").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(8), time.Now()))

	cm, err := c.CreateComment(context.Background(), alice, NewComment{ProductID: 10, CommentFrom: 1, Body: "solid mug"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), cm.ID)

	_, err = c.CreateComment(context.Background(), alice, NewComment{ProductID: 10, CommentFrom: 3, Body: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotAuthorized)

	_, err = c.CreateComment(context.Background(), alice, NewComment{ProductID: 10, CommentFrom: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRatingsFilter(t *testing.T) {
	mock, c := newMock(t)
	pid, minStars := int64(10), 4

	mock.ExpectQuery("FROM ratings").WithArgs(int64(10), 4).
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "rating_from", "stars", "comment", "created_at"}).
			AddRow(int64(1), int64(10), int64(1), 5, "", time.Now()))

	out, err := c.ListRatings(context.Background(), RatingFilter{ProductID: &pid, MinStars: &minStars})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 5, out[0].Stars)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListComments(t *testing.T) {
	mock, c := newMock(t)
	from := int64(1)

	mock.ExpectQuery("FROM comments").WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "comment_from", "body", "created_at"}).
			AddRow(int64(2), int64(10), int64(1), "ok", time.Now()))

	out, err := c.ListComments(context.Background(), CommentFilter{CommentFrom: &from})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductSummary(t *testing.T) {
	mock, c := newMock(t)
	mock.ExpectQuery("AVG").WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"avg", "count"}).AddRow(4.5, int64(2)))

	s, err := c.ProductSummary(context.Background(), 10)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, s.Average, 0.001)
	assert.Equal(t, int64(2), s.Count)
}
