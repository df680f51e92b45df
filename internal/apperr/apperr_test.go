package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsIsMatchesOnKind(t *testing.T) {
	err := fmt.Errorf("place order: %w", InsufficientStock(StockShortage{ProductID: 3, ProductName: "mug", Requested: 4, Available: 1}))

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrEmptyCart))
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Contains(t, err.Error(), `"mug"`)
}

func TestExtensionsCarryShortage(t *testing.T) {
	var e *Error
	require.True(t, errors.As(InsufficientStock(StockShortage{ProductID: 9, Requested: 2, Available: 0}), &e))

	ext := e.Extensions()
	assert.Equal(t, "INSUFFICIENT_STOCK", ext["code"])
	assert.Equal(t, int64(9), ext["productId"])
	assert.Equal(t, 2, ext["requested"])
}

func TestPaymentProcessorUnwraps(t *testing.T) {
	cause := errors.New("card declined")
	err := PaymentProcessor("card declined", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrPaymentProcessor)
	assert.Equal(t, "payment processor error: card declined", err.Error())
}

func TestKindOfUntyped(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
