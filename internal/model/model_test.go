package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterParams_Validate(t *testing.T) {
	cases := []struct {
		name   string
		params RegisterParams
		ok     bool
	}{
		{"valid", RegisterParams{Name: "alice", PIN: 1234}, true},
		{"pin lower bound", RegisterParams{Name: "alice", PIN: 1000}, true},
		{"pin upper bound", RegisterParams{Name: "alice", PIN: 9999}, true},
		{"empty name", RegisterParams{Name: "", PIN: 1234}, false},
		{"digits in name", RegisterParams{Name: "alice7", PIN: 1234}, false},
		{"spaces in name", RegisterParams{Name: "alice smith", PIN: 1234}, false},
		{"pin too short", RegisterParams{Name: "alice", PIN: 999}, false},
		{"pin too long", RegisterParams{Name: "alice", PIN: 10000}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewAccount(t *testing.T) {
	start := decimal.NewFromInt(1000)
	acct := NewAccount("alice", 1234, start)

	require.NotNil(t, acct)
	assert.True(t, acct.Cash.Equal(start))
	assert.True(t, acct.Loan.IsZero())
	assert.False(t, acct.HasLoan())
	for _, kind := range AssetKinds() {
		assert.True(t, acct.Assets.Get(kind).IsZero())
	}
	for _, kind := range CurrencyKinds() {
		assert.True(t, acct.Currencies.Get(kind).IsZero())
	}
}

func TestHoldings_AddSub(t *testing.T) {
	h := make(Holdings[AssetKind])
	h.Add(AssetGold, decimal.NewFromInt(3))
	h.Sub(AssetGold, decimal.NewFromInt(1))
	assert.True(t, h.Get(AssetGold).Equal(decimal.NewFromInt(2)))
	assert.True(t, h.Get(AssetSilver).IsZero())
}

func TestKinds_Valid(t *testing.T) {
	assert.True(t, AssetCrypto.Valid())
	assert.False(t, AssetKind("tulips").Valid())
	assert.True(t, CurrencyINR.Valid())
	assert.False(t, CurrencyKind("USD").Valid())
}
