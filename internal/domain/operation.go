package domain

import "time"

// Operation is a single income or expense record. The three transfer
// fields are present together or absent together: a transfer is one
// operation with two legs, the second leg landing on ToAccountID in
// ToCurrencyID for ToAmount minor units.
type Operation struct {
	Base
	Type       OperationType `json:"type"`
	Date       time.Time     `json:"date"`
	Amount     int64         `json:"amount"`
	Comment    string        `json:"comment,omitempty"`
	CategoryID int64         `json:"categoryId"`
	AccountID  int64         `json:"accountId"`
	CurrencyID int64         `json:"currencyId"`

	ToAccountID  *int64 `json:"toAccountId,omitempty"`
	ToCurrencyID *int64 `json:"toCurrencyId,omitempty"`
	ToAmount     *int64 `json:"toAmount,omitempty"`
}

// IsTransfer reports whether the operation carries a second leg.
func (o *Operation) IsTransfer() bool {
	return o.ToAccountID != nil
}
