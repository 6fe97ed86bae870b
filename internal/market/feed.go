// Package market supplies per-unit asset prices and currency exchange rates.
// Prices move only through Advance; the ledger engine reads them at the
// moment of each operation and never mutates them.
package market

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teller-dev/teller/internal/model"
)

// Jitter ranges per asset, in whole percent. Crypto is the most volatile,
// gold the most stable.
var jitterRanges = map[model.AssetKind]struct{ min, max int }{
	model.AssetCrypto: {-15, 20},
	model.AssetGold:   {-5, 10},
	model.AssetSilver: {-10, 15},
}

// Feed holds the current market state.
type Feed struct {
	rand   *rand.Rand
	prices map[model.AssetKind]decimal.Decimal
	rates  map[model.CurrencyKind]decimal.Decimal
}

// Move is one asset's change from an Advance.
type Move struct {
	Kind    model.AssetKind
	Percent decimal.Decimal // whole percent, e.g. -15 .. +20
	Price   decimal.Decimal // price after the move
}

// New creates a Feed with the given initial prices and rates. Every asset
// and currency needs a strictly positive value: prices and rates are used
// as divisors, so a zero here would fail far from its cause. A nil source
// gets a time-seeded one; tests inject a fixed seed.
func New(prices map[model.AssetKind]decimal.Decimal, rates map[model.CurrencyKind]decimal.Decimal, src rand.Source) (*Feed, error) {
	for _, kind := range model.AssetKinds() {
		if !prices[kind].IsPositive() {
			return nil, fmt.Errorf("price for %s must be positive, got %s", kind, prices[kind])
		}
	}
	for _, kind := range model.CurrencyKinds() {
		if !rates[kind].IsPositive() {
			return nil, fmt.Errorf("rate for %s must be positive, got %s", kind, rates[kind])
		}
	}

	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>32)
	}
	f := &Feed{
		rand:   rand.New(src),
		prices: make(map[model.AssetKind]decimal.Decimal, len(prices)),
		rates:  make(map[model.CurrencyKind]decimal.Decimal, len(rates)),
	}
	for k, p := range prices {
		f.prices[k] = p
	}
	for k, r := range rates {
		f.rates[k] = r
	}
	return f, nil
}

// Price returns the current per-unit price of an asset.
func (f *Feed) Price(kind model.AssetKind) decimal.Decimal {
	return f.prices[kind]
}

// Rate returns units of foreign currency per 1 USD.
func (f *Feed) Rate(kind model.CurrencyKind) decimal.Decimal {
	return f.rates[kind]
}

// SetRate replaces an exchange rate. Rates are static in normal operation
// but modeled as mutable. The positivity contract from New applies.
func (f *Feed) SetRate(kind model.CurrencyKind, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("rate for %s must be positive, got %s", kind, rate)
	}
	f.rates[kind] = rate
	return nil
}

// Snapshot is a point-in-time copy of all prices and rates, safe to hold
// across later Advance calls.
type Snapshot struct {
	Prices map[model.AssetKind]decimal.Decimal
	Rates  map[model.CurrencyKind]decimal.Decimal
}

// Snapshot copies the current market state.
func (f *Feed) Snapshot() Snapshot {
	snap := Snapshot{
		Prices: make(map[model.AssetKind]decimal.Decimal, len(f.prices)),
		Rates:  make(map[model.CurrencyKind]decimal.Decimal, len(f.rates)),
	}
	for k, p := range f.prices {
		snap.Prices[k] = p
	}
	for k, r := range f.rates {
		snap.Rates[k] = r
	}
	return snap
}

// Advance applies one round of bounded multiplicative jitter to every asset
// price and returns the moves in display order. Rates are untouched.
func (f *Feed) Advance() []Move {
	moves := make([]Move, 0, len(jitterRanges))
	for _, kind := range model.AssetKinds() {
		r := jitterRanges[kind]
		pct := int64(f.rand.IntN(r.max-r.min+1) + r.min)
		factor := decimal.New(100+pct, -2)
		f.prices[kind] = f.prices[kind].Mul(factor)
		moves = append(moves, Move{
			Kind:    kind,
			Percent: decimal.NewFromInt(pct),
			Price:   f.prices[kind],
		})
	}
	return moves
}
