package ledger

import (
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teller-dev/teller/internal/market"
	"github.com/teller-dev/teller/internal/model"
	"github.com/teller-dev/teller/internal/store"
)

const (
	testName = "alice"
	testPIN  = 1234
	wrongPIN = 4321
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newTestEngine wires a real store (in a temp dir), a fixed-seed feed, and
// one registered account.
func newTestEngine(t *testing.T) (*Engine, *store.Store, *model.Account) {
	t.Helper()

	st := store.New(filepath.Join(t.TempDir(), "accounts.dat"), 100, dec("1000"))
	acct, err := st.Register(model.RegisterParams{Name: testName, PIN: testPIN})
	require.NoError(t, err)

	feed, err := market.New(
		map[model.AssetKind]decimal.Decimal{
			model.AssetCrypto: dec("150"),
			model.AssetGold:   dec("60"),
			model.AssetSilver: dec("25"),
		},
		map[model.CurrencyKind]decimal.Decimal{
			model.CurrencyEUR: dec("1.10"),
			model.CurrencyGBP: dec("1.27"),
			model.CurrencyINR: dec("0.012"),
		},
		rand.NewPCG(1, 1),
	)
	require.NoError(t, err)

	engine := NewEngine(st, feed, nil, Params{
		PurchaseAmount: dec("100"),
		LoanAmount:     dec("500"),
		InterestRate:   dec("0.05"),
	})
	return engine, st, acct
}

// assertInvariants checks the post-conditions that hold after every
// operation sequence.
func assertInvariants(t *testing.T, acct *model.Account) {
	t.Helper()
	assert.False(t, acct.Cash.IsNegative(), "cash went negative: %s", acct.Cash)
	assert.False(t, acct.Loan.IsNegative(), "loan went negative: %s", acct.Loan)
	for _, kind := range model.AssetKinds() {
		assert.False(t, acct.Assets.Get(kind).IsNegative(), "asset %s negative", kind)
	}
	for _, kind := range model.CurrencyKinds() {
		assert.False(t, acct.Currencies.Get(kind).IsNegative(), "currency %s negative", kind)
	}
}

func TestDepositWithdraw_RoundTrip(t *testing.T) {
	e, _, acct := newTestEngine(t)

	require.NoError(t, e.Deposit(acct, dec("100")))
	assert.True(t, acct.Cash.Equal(dec("1100")))

	require.NoError(t, e.Withdraw(acct, dec("100"), testPIN))
	assert.True(t, acct.Cash.Equal(dec("1000")), "balance returns to 1000 exactly, got %s", acct.Cash)
	assertInvariants(t, acct)
}

func TestDeposit_RejectsNonPositive(t *testing.T) {
	e, _, acct := newTestEngine(t)

	assert.ErrorIs(t, e.Deposit(acct, dec("0")), model.ErrInvalidInput)
	assert.ErrorIs(t, e.Deposit(acct, dec("-5")), model.ErrInvalidInput)
	assert.True(t, acct.Cash.Equal(dec("1000")))
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	e, _, acct := newTestEngine(t)

	err := e.Withdraw(acct, dec("1000.01"), testPIN)
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.True(t, acct.Cash.Equal(dec("1000")), "balance unchanged on failure")
}

func TestWithdraw_WrongPIN(t *testing.T) {
	e, _, acct := newTestEngine(t)

	err := e.Withdraw(acct, dec("50"), wrongPIN)
	assert.ErrorIs(t, err, model.ErrInvalidPIN)
	assert.True(t, acct.Cash.Equal(dec("1000")))
}

func TestPurchaseAsset(t *testing.T) {
	e, _, acct := newTestEngine(t)

	units, err := e.PurchaseAsset(acct, model.AssetCrypto, testPIN)
	require.NoError(t, err)

	// $100 at $150/unit.
	assert.True(t, units.Equal(dec("100").Div(dec("150"))))
	assert.True(t, acct.Cash.Equal(dec("900")))
	assert.True(t, acct.Assets.Get(model.AssetCrypto).Equal(units))
	assertInvariants(t, acct)
}

func TestPurchaseAsset_ValueNeutral(t *testing.T) {
	e, _, acct := newTestEngine(t)

	before := e.NetWorth(acct)
	_, err := e.PurchaseAsset(acct, model.AssetSilver, testPIN)
	require.NoError(t, err)
	after := e.NetWorth(acct)

	diff := after.Sub(before).Abs()
	assert.True(t, diff.LessThan(dec("0.0000001")),
		"net worth moved by %s across a purchase", diff)
}

func TestPurchaseAsset_InvalidKindRefunds(t *testing.T) {
	e, _, acct := newTestEngine(t)

	_, err := e.PurchaseAsset(acct, model.AssetKind("beanie-babies"), testPIN)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.True(t, acct.Cash.Equal(dec("1000")), "tentative debit refunded")
}

func TestPurchaseAsset_InsufficientFunds(t *testing.T) {
	e, _, acct := newTestEngine(t)
	require.NoError(t, e.Withdraw(acct, dec("950"), testPIN))

	_, err := e.PurchaseAsset(acct, model.AssetGold, testPIN)
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.True(t, acct.Cash.Equal(dec("50")))
}

func TestTakeLoan(t *testing.T) {
	e, _, acct := newTestEngine(t)

	require.NoError(t, e.TakeLoan(acct, testPIN))
	assert.True(t, acct.Loan.Equal(dec("500")))
	assert.True(t, acct.Cash.Equal(dec("1500")))

	// Loans do not stack.
	err := e.TakeLoan(acct, testPIN)
	assert.ErrorIs(t, err, model.ErrLoanAlreadyActive)
	assert.True(t, acct.Loan.Equal(dec("500")))
	assert.True(t, acct.Cash.Equal(dec("1500")))
}

func TestRepayLoan(t *testing.T) {
	e, _, acct := newTestEngine(t)

	require.NoError(t, e.TakeLoan(acct, testPIN))
	require.NoError(t, e.RepayLoan(acct, testPIN))
	assert.True(t, acct.Loan.IsZero())
	assert.True(t, acct.Cash.Equal(dec("1000")))
	assertInvariants(t, acct)
}

func TestRepayLoan_InsufficientFunds(t *testing.T) {
	e, _, acct := newTestEngine(t)

	require.NoError(t, e.TakeLoan(acct, testPIN))
	require.NoError(t, e.Withdraw(acct, dec("1200"), testPIN))

	err := e.RepayLoan(acct, testPIN)
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.True(t, acct.Loan.Equal(dec("500")), "loan unchanged")
	assert.True(t, acct.Cash.Equal(dec("300")))
}

func TestRepayLoan_NoLoan(t *testing.T) {
	e, _, acct := newTestEngine(t)

	err := e.RepayLoan(acct, testPIN)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestAccrueInterest(t *testing.T) {
	e, _, acct := newTestEngine(t)

	interest, err := e.AccrueInterest(acct)
	require.NoError(t, err)
	assert.True(t, interest.Equal(dec("50")))
	assert.True(t, acct.Cash.Equal(dec("1050")))
}

func TestForex_RoundTrip(t *testing.T) {
	e, _, acct := newTestEngine(t)

	units, err := e.ConvertToForeign(acct, model.CurrencyEUR, dec("50"))
	require.NoError(t, err)
	assert.True(t, acct.Cash.Equal(dec("950")))
	assert.True(t, acct.Currencies.Get(model.CurrencyEUR).Equal(units))

	usd, err := e.ConvertFromForeign(acct, model.CurrencyEUR, units)
	require.NoError(t, err)
	assert.True(t, acct.Currencies.Get(model.CurrencyEUR).IsZero())

	// Round trip at an unchanged rate restores the balance, modulo
	// division precision.
	diff := acct.Cash.Sub(dec("1000")).Abs()
	assert.True(t, diff.LessThan(dec("0.0000001")), "cash off by %s after round trip (got back %s)", diff, usd)
	assertInvariants(t, acct)
}

func TestConvertToForeign_Failures(t *testing.T) {
	e, _, acct := newTestEngine(t)

	_, err := e.ConvertToForeign(acct, model.CurrencyEUR, dec("0"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = e.ConvertToForeign(acct, model.CurrencyEUR, dec("1000.01"))
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)

	_, err = e.ConvertToForeign(acct, model.CurrencyKind("XYZ"), dec("10"))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	assert.True(t, acct.Cash.Equal(dec("1000")))
}

func TestConvertFromForeign_InsufficientHoldings(t *testing.T) {
	e, _, acct := newTestEngine(t)

	_, err := e.ConvertFromForeign(acct, model.CurrencyGBP, dec("1"))
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.True(t, acct.Cash.Equal(dec("1000")))
}

func TestNetWorth(t *testing.T) {
	e, _, acct := newTestEngine(t)

	// Fresh account: net worth is the cash balance.
	assert.True(t, e.NetWorth(acct).Equal(dec("1000")))

	require.NoError(t, e.TakeLoan(acct, testPIN))
	// Loan credits cash and adds the same liability: net worth unchanged.
	assert.True(t, e.NetWorth(acct).Equal(dec("1000")))
}

func TestOperations_PersistAcrossReload(t *testing.T) {
	e, st, acct := newTestEngine(t)

	require.NoError(t, e.Deposit(acct, dec("250")))
	_, err := e.ConvertToForeign(acct, model.CurrencyGBP, dec("127"))
	require.NoError(t, err)

	reloaded := store.New(st.Path(), 100, dec("1000"))
	require.NoError(t, reloaded.Load())

	got, err := reloaded.Authenticate(testName, testPIN)
	require.NoError(t, err)
	assert.True(t, got.Cash.Equal(dec("1123")))
	assert.True(t, got.Currencies.Get(model.CurrencyGBP).Equal(dec("100")))
}
