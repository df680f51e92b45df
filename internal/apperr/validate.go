package apperr

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the struct's `validate` tags and converts failures into
// a ValidationError naming each offending field.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return &Error{Kind: KindValidation, Msg: "invalid input", Err: err}
	}
	msgs := make([]string, 0, len(vErrs))
	for _, vErr := range vErrs {
		switch vErr.Tag() {
		case "required":
			msgs = append(msgs, vErr.Field()+" value missing")
		case "min", "gte":
			msgs = append(msgs, vErr.Field()+" value is less than "+vErr.Param())
		case "max", "lte":
			msgs = append(msgs, vErr.Field()+" value is greater than "+vErr.Param())
		case "gt":
			msgs = append(msgs, vErr.Field()+" value must be greater than "+vErr.Param())
		case "email":
			msgs = append(msgs, vErr.Field()+" is not a valid email")
		case "oneof":
			msgs = append(msgs, vErr.Field()+" must be one of "+vErr.Param())
		default:
			msgs = append(msgs, vErr.Field()+" failed "+vErr.Tag())
		}
	}
	return &Error{Kind: KindValidation, Msg: strings.Join(msgs, "; "), Err: err}
}
