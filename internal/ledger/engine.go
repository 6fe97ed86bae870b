// Package ledger implements the balance-mutating operations on a selected
// account. Every successful operation persists the registry before
// returning; every failed operation leaves the account untouched.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teller-dev/teller/internal/audit"
	"github.com/teller-dev/teller/internal/market"
	"github.com/teller-dev/teller/internal/model"
)

// Persister writes the registry snapshot after a mutation.
type Persister interface {
	Persist() error
}

// Params holds the fixed operation amounts and rates.
type Params struct {
	PurchaseAmount decimal.Decimal // debited per asset purchase
	LoanAmount     decimal.Decimal // the one loan size offered
	InterestRate   decimal.Decimal // e.g. 0.05 for 5%
}

// Engine applies ledger operations to account handles.
type Engine struct {
	store  Persister
	feed   *market.Feed
	log    *audit.Log // nil disables the audit trail
	params Params
}

// NewEngine creates an Engine. log may be nil.
func NewEngine(store Persister, feed *market.Feed, log *audit.Log, params Params) *Engine {
	return &Engine{store: store, feed: feed, log: log, params: params}
}

// Deposit credits cash. Amount must be strictly positive.
func (e *Engine) Deposit(acct *model.Account, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", model.ErrInvalidInput)
	}

	acct.Cash = acct.Cash.Add(amount)
	e.record(acct, "deposit", amount.StringFixed(2))
	return e.store.Persist()
}

// Withdraw debits cash after re-verifying the PIN. The debit only commits
// if the balance covers it, so the balance never goes negative.
func (e *Engine) Withdraw(acct *model.Account, amount decimal.Decimal, pin int) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive", model.ErrInvalidInput)
	}
	if amount.GreaterThan(acct.Cash) {
		return model.ErrInsufficientFunds
	}
	if err := verifyPIN(acct, pin); err != nil {
		return err
	}

	acct.Cash = acct.Cash.Sub(amount)
	e.record(acct, "withdraw", amount.StringFixed(2))
	return e.store.Persist()
}

// PurchaseAsset debits the fixed purchase amount and credits units at the
// current market price. The debit is applied before the asset selection is
// checked; an invalid selection refunds it and fails. Returns the units
// credited.
func (e *Engine) PurchaseAsset(acct *model.Account, kind model.AssetKind, pin int) (decimal.Decimal, error) {
	if acct.Cash.LessThan(e.params.PurchaseAmount) {
		return decimal.Zero, model.ErrInsufficientFunds
	}
	if err := verifyPIN(acct, pin); err != nil {
		return decimal.Zero, err
	}

	acct.Cash = acct.Cash.Sub(e.params.PurchaseAmount)
	if !kind.Valid() {
		// Refund the tentative debit.
		acct.Cash = acct.Cash.Add(e.params.PurchaseAmount)
		return decimal.Zero, fmt.Errorf("%w: unknown asset %q", model.ErrInvalidInput, kind)
	}

	units := e.params.PurchaseAmount.Div(e.feed.Price(kind))
	acct.Assets.Add(kind, units)
	e.record(acct, "purchase", fmt.Sprintf("%s %s units", units.StringFixed(4), kind))
	return units, e.store.Persist()
}

// TakeLoan issues the fixed loan, crediting cash by the same amount. Loans
// do not stack. The caller obtains user confirmation first; declining is
// simply not calling.
func (e *Engine) TakeLoan(acct *model.Account, pin int) error {
	if err := verifyPIN(acct, pin); err != nil {
		return err
	}
	if acct.HasLoan() {
		return model.ErrLoanAlreadyActive
	}

	acct.Loan = e.params.LoanAmount
	acct.Cash = acct.Cash.Add(e.params.LoanAmount)
	e.record(acct, "loan-take", e.params.LoanAmount.StringFixed(2))
	return e.store.Persist()
}

// RepayLoan pays off the full outstanding loan from cash.
func (e *Engine) RepayLoan(acct *model.Account, pin int) error {
	if err := verifyPIN(acct, pin); err != nil {
		return err
	}
	if !acct.HasLoan() {
		return fmt.Errorf("%w: no outstanding loan", model.ErrInvalidInput)
	}
	if acct.Cash.LessThan(acct.Loan) {
		return model.ErrInsufficientFunds
	}

	repaid := acct.Loan
	acct.Cash = acct.Cash.Sub(repaid)
	acct.Loan = decimal.Zero
	e.record(acct, "loan-repay", repaid.StringFixed(2))
	return e.store.Persist()
}

// AccrueInterest credits interest on the cash balance and returns the
// interest amount.
func (e *Engine) AccrueInterest(acct *model.Account) (decimal.Decimal, error) {
	interest := acct.Cash.Mul(e.params.InterestRate)
	acct.Cash = acct.Cash.Add(interest)
	e.record(acct, "interest", interest.StringFixed(2))
	return interest, e.store.Persist()
}

// ConvertToForeign exchanges USD cash into a foreign currency at the current
// rate. Returns the foreign units credited.
func (e *Engine) ConvertToForeign(acct *model.Account, kind model.CurrencyKind, usdAmount decimal.Decimal) (decimal.Decimal, error) {
	if !kind.Valid() {
		return decimal.Zero, fmt.Errorf("%w: unknown currency %q", model.ErrInvalidInput, kind)
	}
	if !usdAmount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", model.ErrInvalidInput)
	}
	if usdAmount.GreaterThan(acct.Cash) {
		return decimal.Zero, model.ErrInsufficientFunds
	}

	units := usdAmount.Div(e.feed.Rate(kind))
	acct.Cash = acct.Cash.Sub(usdAmount)
	acct.Currencies.Add(kind, units)
	e.record(acct, "forex-buy", fmt.Sprintf("%s %s", units.StringFixed(2), kind))
	return units, e.store.Persist()
}

// ConvertFromForeign exchanges foreign currency units back into USD cash at
// the current rate. Returns the USD credited.
func (e *Engine) ConvertFromForeign(acct *model.Account, kind model.CurrencyKind, foreignAmount decimal.Decimal) (decimal.Decimal, error) {
	if !kind.Valid() {
		return decimal.Zero, fmt.Errorf("%w: unknown currency %q", model.ErrInvalidInput, kind)
	}
	if !foreignAmount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", model.ErrInvalidInput)
	}
	if foreignAmount.GreaterThan(acct.Currencies.Get(kind)) {
		return decimal.Zero, model.ErrInsufficientFunds
	}

	usd := foreignAmount.Mul(e.feed.Rate(kind))
	acct.Currencies.Sub(kind, foreignAmount)
	acct.Cash = acct.Cash.Add(usd)
	e.record(acct, "forex-sell", fmt.Sprintf("%s %s", foreignAmount.StringFixed(2), kind))
	return usd, e.store.Persist()
}

// NetWorth values the whole account at current prices and rates: cash plus
// assets plus foreign currency, minus the outstanding loan. Pure query.
func (e *Engine) NetWorth(acct *model.Account) decimal.Decimal {
	total := acct.Cash
	for _, kind := range model.AssetKinds() {
		total = total.Add(acct.Assets.Get(kind).Mul(e.feed.Price(kind)))
	}
	for _, kind := range model.CurrencyKinds() {
		total = total.Add(acct.Currencies.Get(kind).Mul(e.feed.Rate(kind)))
	}
	return total.Sub(acct.Loan)
}

// verifyPIN is the per-operation re-check on outbound-funds operations,
// distinct from login authentication.
func verifyPIN(acct *model.Account, pin int) error {
	if pin != acct.PIN {
		return model.ErrInvalidPIN
	}
	return nil
}

// record appends an audit row. The trail is best-effort: a failed append
// never fails the operation.
func (e *Engine) record(acct *model.Account, action, detail string) {
	if e.log == nil {
		return
	}
	_ = e.log.Append(audit.Entry{
		Timestamp: time.Now(),
		AccountID: acct.ID,
		Action:    action,
		Detail:    detail,
	})
}
