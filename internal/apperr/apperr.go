// Package apperr holds the error taxonomy surfaced to API callers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindAuthenticationRequired Kind = "AUTHENTICATION_REQUIRED"
	KindNotAuthorized          Kind = "NOT_AUTHORIZED"
	KindNotFound               Kind = "NOT_FOUND"
	KindEmptyCart              Kind = "EMPTY_CART"
	KindInsufficientStock      Kind = "INSUFFICIENT_STOCK"
	KindDuplicateIntent        Kind = "DUPLICATE_INTENT"
	KindPaymentProcessor       Kind = "PAYMENT_PROCESSOR_ERROR"
	KindValidation             Kind = "VALIDATION_ERROR"
	KindInternal               Kind = "INTERNAL"
)

// Error is a typed failure with a human readable message.
// Two errors match under errors.Is when their kinds are equal.
type Error struct {
	Kind Kind
	Msg  string
	Err  error

	// set only for KindInsufficientStock
	Stock *StockShortage
}

// StockShortage names the product that could not satisfy a cart line.
type StockShortage struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

var (
	ErrAuthenticationRequired = &Error{Kind: KindAuthenticationRequired, Msg: "authentication required"}
	ErrNotAuthorized          = &Error{Kind: KindNotAuthorized, Msg: "not authorized"}
	ErrNotFound               = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrEmptyCart              = &Error{Kind: KindEmptyCart, Msg: "cart is empty"}
	ErrInsufficientStock      = &Error{Kind: KindInsufficientStock, Msg: "insufficient stock"}
	ErrDuplicateIntent        = &Error{Kind: KindDuplicateIntent, Msg: "payment intent already recorded"}
	ErrPaymentProcessor       = &Error{Kind: KindPaymentProcessor, Msg: "payment processor error"}
	ErrValidation             = &Error{Kind: KindValidation, Msg: "validation error"}
)

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Extensions is picked up by the graphql executor and rendered under "extensions".
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": string(e.Kind)}
	if e.Stock != nil {
		ext["productId"] = e.Stock.ProductID
		ext["requested"] = e.Stock.Requested
		ext["available"] = e.Stock.Available
	}
	return ext
}

func NotAuthorized(format string, args ...any) error {
	return &Error{Kind: KindNotAuthorized, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id int64) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("%s with id %d not found", entity, id)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func InsufficientStock(s StockShortage) error {
	return &Error{
		Kind:  KindInsufficientStock,
		Msg:   fmt.Sprintf("insufficient stock for product %q: requested %d, available %d", s.ProductName, s.Requested, s.Available),
		Stock: &s,
	}
}

func PaymentProcessor(msg string, err error) error {
	return &Error{Kind: KindPaymentProcessor, Msg: "payment processor error: " + msg, Err: err}
}

func DuplicateIntent(intentID string, err error) error {
	return &Error{Kind: KindDuplicateIntent, Msg: fmt.Sprintf("payment intent %s already recorded", intentID), Err: err}
}

// KindOf reports the taxonomy kind of err, KindInternal for anything untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
