package validation

import (
	"reflect"
	"strings"
	"sync"

	"finance-ledger/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	// decimals are validated through their canonical string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("nonnegative_money", validateNonNegativeMoney)
	_ = v.RegisterValidation("kind", validateKind)
	_ = v.RegisterValidation("period", validatePeriod)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

func parseMoney(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return decimal.Zero, false
	}
	return d, models.IsMoneyPrecise(d)
}

// validateMoney accepts strictly positive amounts with at most two decimal places
func validateMoney(fl validator.FieldLevel) bool {
	d, ok := parseMoney(fl)
	return ok && d.IsPositive()
}

func validateNonNegativeMoney(fl validator.FieldLevel) bool {
	d, ok := parseMoney(fl)
	return ok && !d.IsNegative()
}

// validateKind accepts income/expense and the ingreso/gasto aliases
func validateKind(fl validator.FieldLevel) bool {
	_, err := models.ParseKind(fl.Field().String())
	return err == nil
}

func validatePeriod(fl validator.FieldLevel) bool {
	_, err := models.ParsePeriod(fl.Field().String())
	return err == nil
}
