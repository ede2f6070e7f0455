package model

import "github.com/shopspring/decimal"

// BundleID is the fixed id of the singleton Bundle.
const BundleID = "1"

// Bundle holds the reference-currency to USD rate, refreshed on every Sync.
type Bundle struct {
	ID             string
	NativePriceUSD decimal.Decimal
}
