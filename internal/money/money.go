// Package money implements fixed-point currency arithmetic. Amounts are
// int64 minor units; exchange rates are decimal rates to the main currency.
package money

import (
	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// reverseRatePlaces is the precision kept when inverting a rate. Twelve
// decimal places keeps repeated to/from round-trips within one minor unit.
const reverseRatePlaces = 12

// ConvertToMain converts an amount in minor units of a foreign currency to
// minor units of the main currency. The result is rounded half-up (ties
// away from zero) exactly once.
func ConvertToMain(amount int64, rate decimal.Decimal) (int64, error) {
	if !rate.IsPositive() {
		return 0, domain.ErrInvalidRate
	}
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart(), nil
}

// ConvertFromMain converts an amount in minor units of the main currency to
// minor units of a foreign currency with the given rate. The division is
// rounded half-up (ties away from zero) exactly once.
func ConvertFromMain(amount int64, rate decimal.Decimal) (int64, error) {
	if !rate.IsPositive() {
		return 0, domain.ErrInvalidRate
	}
	return decimal.NewFromInt(amount).DivRound(rate, 0).IntPart(), nil
}

// ReverseRate returns 1/rate at a precision high enough to avoid drift
// across repeated round-trips.
func ReverseRate(rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Decimal{}, domain.ErrInvalidRate
	}
	return decimal.NewFromInt(1).DivRound(rate, reverseRatePlaces), nil
}
