package model

import "github.com/shopspring/decimal"

// Factory is the protocol-wide aggregate, keyed by the factory contract
// address.
type Factory struct {
	ID                 string
	PairCount          uint64
	TotalVolumeNative  decimal.Decimal
	TotalVolumeUSD     decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal

	// TotalLiquidityNative only counts whitelist-tracked reserves; it is
	// maintained with a subtract-then-add pass on every Sync.
	TotalLiquidityNative decimal.Decimal
	TotalLiquidityUSD    decimal.Decimal
	TxCount              uint64
}
