package domain

// AccountType classifies an account.
type AccountType string

const (
	AccountTypeCurrent AccountType = "current"
	AccountTypeSavings AccountType = "savings"
	AccountTypeCredit  AccountType = "credit"
)

// ValidAccountType reports whether t is a known account type.
func ValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeCurrent, AccountTypeSavings, AccountTypeCredit:
		return true
	}
	return false
}

// Account is a money account. Amount is the balance in minor units of the
// account's currency. Closed is a user-facing flag independent of the
// soft-delete lifecycle.
type Account struct {
	Base
	Title      string      `json:"title"`
	Amount     int64       `json:"amount"`
	Type       AccountType `json:"type"`
	CurrencyID int64       `json:"currencyId"`
	Closed     bool        `json:"closed"`
}
