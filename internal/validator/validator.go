// internal/validator/validator.go
package validator

import (
	"cashback-chain/internal/domain"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var Validate *validator.Validate

var nonBlank = regexp.MustCompile(`\S`)

func init() {
	Validate = validator.New()

	// non-negative decimal string: "48720", "12.50"
	_ = Validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})

	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonBlank.MatchString(fl.Field().String())
	})

	_ = Validate.RegisterValidation("accountkind", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseAccountKind(fl.Field().String())
		return err == nil
	})

	_ = Validate.RegisterValidation("manufacturer", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseManufacturer(fl.Field().String())
		return err == nil
	})

	_ = Validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseCategory(fl.Field().String())
		return err == nil
	})
}
