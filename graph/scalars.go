package graph

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Decimal is a money amount. It is written as a string with two decimal
// places and read from strings or numbers.
type Decimal struct {
	decimal.Decimal
}

func (Decimal) ImplementsGraphQLType(name string) bool { return name == "Decimal" }

func (d *Decimal) UnmarshalGraphQL(input interface{}) error {
	var err error
	switch v := input.(type) {
	case string:
		d.Decimal, err = decimal.NewFromString(v)
	case int32:
		d.Decimal = decimal.NewFromInt32(v)
	case int64:
		d.Decimal = decimal.NewFromInt(v)
	case int:
		d.Decimal = decimal.NewFromInt(int64(v))
	case float64:
		d.Decimal = decimal.NewFromFloat(v)
	default:
		err = fmt.Errorf("wrong type for Decimal: %T", v)
	}
	return err
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.StringFixed(2))
}

func newDecimal(d decimal.Decimal) Decimal { return Decimal{Decimal: d} }
