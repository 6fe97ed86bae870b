package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxNameLength bounds account holder names, including in the snapshot file.
const MaxNameLength = 50

// PIN bounds. A PIN is always a 4-digit number.
const (
	MinPIN = 1000
	MaxPIN = 9999
)

// Account is one registered customer: a cash balance, an optional loan,
// speculative asset holdings, and foreign currency balances. Accounts are
// mutated only through the ledger engine and never deleted.
type Account struct {
	ID   uuid.UUID
	Name string
	PIN  int

	Cash decimal.Decimal
	Loan decimal.Decimal

	Assets     Holdings[AssetKind]
	Currencies Holdings[CurrencyKind]
}

// Holdings maps an asset or currency kind to a non-negative unit count.
type Holdings[K ~string] map[K]decimal.Decimal

// Get returns the held units for a kind, zero if none.
func (h Holdings[K]) Get(kind K) decimal.Decimal {
	if h == nil {
		return decimal.Zero
	}
	return h[kind]
}

// Add credits units to a kind.
func (h Holdings[K]) Add(kind K, units decimal.Decimal) {
	h[kind] = h.Get(kind).Add(units)
}

// Sub debits units from a kind. The caller checks sufficiency first.
func (h Holdings[K]) Sub(kind K, units decimal.Decimal) {
	h[kind] = h.Get(kind).Sub(units)
}

// NewAccount creates an account with the given starting balance and zeroed
// loan and holdings.
func NewAccount(name string, pin int, startingBalance decimal.Decimal) *Account {
	return &Account{
		ID:         uuid.New(),
		Name:       name,
		PIN:        pin,
		Cash:       startingBalance,
		Loan:       decimal.Zero,
		Assets:     make(Holdings[AssetKind], len(AssetKinds())),
		Currencies: make(Holdings[CurrencyKind], len(CurrencyKinds())),
	}
}

// HasLoan reports whether the account has an active loan.
func (a *Account) HasLoan() bool {
	return a.Loan.IsPositive()
}
