package models

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

func decimalAtLeast(min decimal.Decimal, message string) validation.RuleFunc {
	return func(value interface{}) error {
		d, ok := value.(decimal.Decimal)
		if !ok || d.LessThan(min) {
			return errors.New(message)
		}
		return nil
	}
}

func decimalAbove(min decimal.Decimal, message string) validation.RuleFunc {
	return func(value interface{}) error {
		d, ok := value.(decimal.Decimal)
		if !ok || !d.GreaterThan(min) {
			return errors.New(message)
		}
		return nil
	}
}

func decimalPtrAtLeast(min decimal.Decimal, message string) validation.RuleFunc {
	return func(value interface{}) error {
		d, ok := value.(*decimal.Decimal)
		if !ok || d == nil {
			return nil
		}
		return decimalAtLeast(min, message)(*d)
	}
}
