package domain

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// PriceScaleMessage is shown when a price has more than two decimals.
const PriceScaleMessage = "price must have at most 2 decimal places"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Decimals are validated through their text form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && HasPriceScale(d)
	})
	return v
}

// messages maps struct field and failing tag to the text shown to the user.
var messages = map[string]map[string]string{
	"FrameNumber": {
		"required": "frame number is required",
		"min":      "frame number must have at least 5 characters",
	},
	"BrandType": {
		"required": "brand and type are required",
		"min":      "brand and type must have at least 3 characters",
	},
	"Description": {
		"required": "description is required",
	},
	"Price": {
		"required": "price is required",
		"cents":    PriceScaleMessage,
	},
	"AvailableDate": {
		"required": "availability date is required",
	},
	"Color": {
		"required": "color is required",
		"oneof":    "color must be one of Red, Green, Yellow, Blue",
	},
}

// Validate checks the bike field by field and stops at the first violation.
func (b *Bike) Validate() error {
	err := validate.Struct(b)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate bike: %w", err)
	}

	first := fieldErrs[0]
	msg, ok := messages[first.StructField()][first.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", first.Field())
	}

	return &ValidationError{
		Field:   first.StructField(),
		Rule:    first.Tag(),
		Message: msg,
	}
}
