package domain

import "github.com/shopspring/decimal"

// Currency is a tracked currency. ExchangeRate is the rate to the main
// currency; the main currency itself carries a rate of exactly 1. All
// conversions pivot through the main currency.
type Currency struct {
	Base
	Title        string          `json:"title"`
	ShortName    string          `json:"shortName"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
}

// IsMain reports whether this is the main (pivot) currency.
func (c *Currency) IsMain() bool {
	return c.ExchangeRate.Equal(decimal.NewFromInt(1))
}
