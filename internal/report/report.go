// Package report formats account statements and market tables for the
// terminal. Pure formatting: it reads state and never mutates it.
package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/teller-dev/teller/internal/market"
	"github.com/teller-dev/teller/internal/model"
)

// assetLabels are display names for asset kinds.
var assetLabels = map[model.AssetKind]string{
	model.AssetCrypto: "Crypto",
	model.AssetGold:   "Gold",
	model.AssetSilver: "Silver",
}

// USD renders a decimal dollar amount as a localized currency string.
func USD(d decimal.Decimal) string {
	return money.New(d.Round(2).Shift(2).IntPart(), money.USD).Display()
}

// Status renders the full account statement: cash, loan, holdings valued at
// current prices and rates, and net worth.
func Status(acct *model.Account, feed *market.Feed, netWorth decimal.Decimal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Account statement for %s\n\n", acct.Name)
	fmt.Fprintf(&b, "Cash\n")
	fmt.Fprintf(&b, "  Balance:  %14s\n", USD(acct.Cash))
	fmt.Fprintf(&b, "  Loan:    -%14s\n", USD(acct.Loan))

	fmt.Fprintf(&b, "\nAssets\n")
	assetTotal := decimal.Zero
	for _, kind := range model.AssetKinds() {
		units := acct.Assets.Get(kind)
		value := units.Mul(feed.Price(kind))
		assetTotal = assetTotal.Add(value)
		fmt.Fprintf(&b, "  %-7s %12s units  %14s\n", assetLabels[kind]+":", units.StringFixed(4), USD(value))
	}
	fmt.Fprintf(&b, "  Total:  %34s\n", USD(assetTotal))

	fmt.Fprintf(&b, "\nForeign exchange\n")
	forexTotal := decimal.Zero
	for _, kind := range model.CurrencyKinds() {
		units := acct.Currencies.Get(kind)
		value := units.Mul(feed.Rate(kind))
		forexTotal = forexTotal.Add(value)
		fmt.Fprintf(&b, "  %-7s %12s units  %14s\n", string(kind)+":", units.StringFixed(2), USD(value))
	}
	fmt.Fprintf(&b, "  Total:  %34s\n", USD(forexTotal))

	fmt.Fprintf(&b, "\nNet worth: %14s\n", USD(netWorth))
	return b.String()
}

// MarketTable renders a snapshot of asset prices and exchange rates.
func MarketTable(feed *market.Feed) string {
	var b strings.Builder
	snap := feed.Snapshot()

	fmt.Fprintf(&b, "Market prices\n")
	for _, kind := range model.AssetKinds() {
		fmt.Fprintf(&b, "  %-7s %14s per unit\n", assetLabels[kind]+":", USD(snap.Prices[kind]))
	}

	fmt.Fprintf(&b, "\nExchange rates (USD per unit)\n")
	for _, kind := range model.CurrencyKinds() {
		fmt.Fprintf(&b, "  %-7s %14s\n", string(kind)+":", snap.Rates[kind].StringFixed(4))
	}
	return b.String()
}

// MarketUpdate renders the moves from a feed advance.
func MarketUpdate(moves []market.Move) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Market update\n")
	for _, m := range moves {
		fmt.Fprintf(&b, "  %-7s %14s (%s%%)\n", assetLabels[m.Kind]+":", USD(m.Price), m.Percent.StringFixed(0))
	}
	return b.String()
}
