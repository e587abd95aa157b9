package domain

// Budget is a spending limit in minor units of its currency. CategoryID is
// optional; when set, at most one active budget may reference the category.
type Budget struct {
	Base
	Amount     int64  `json:"amount"`
	CurrencyID int64  `json:"currencyId"`
	CategoryID *int64 `json:"categoryId,omitempty"`
}
