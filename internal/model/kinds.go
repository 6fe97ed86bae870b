package model

// AssetKind identifies a purchasable speculative asset.
type AssetKind string

const (
	AssetCrypto AssetKind = "crypto"
	AssetGold   AssetKind = "gold"
	AssetSilver AssetKind = "silver"
)

// AssetKinds returns all asset kinds in display order.
func AssetKinds() []AssetKind {
	return []AssetKind{AssetCrypto, AssetGold, AssetSilver}
}

// Valid reports whether the kind is a known asset.
func (k AssetKind) Valid() bool {
	switch k {
	case AssetCrypto, AssetGold, AssetSilver:
		return true
	}
	return false
}

// CurrencyKind identifies a foreign currency held in the forex wallet.
// Cash balances are in USD; these are the convertible counterparts.
type CurrencyKind string

const (
	CurrencyEUR CurrencyKind = "EUR"
	CurrencyGBP CurrencyKind = "GBP"
	CurrencyINR CurrencyKind = "INR"
)

// CurrencyKinds returns all currency kinds in display order.
func CurrencyKinds() []CurrencyKind {
	return []CurrencyKind{CurrencyEUR, CurrencyGBP, CurrencyINR}
}

// Valid reports whether the kind is a known currency.
func (k CurrencyKind) Valid() bool {
	switch k {
	case CurrencyEUR, CurrencyGBP, CurrencyINR:
		return true
	}
	return false
}
