package model

import "github.com/shopspring/decimal"

// Pair is a two-token constant-product pool.
//
// Token0Price and Token1Price are spot prices derived from reserves; whenever
// both reserves are nonzero their product is ~1. Reserves never go negative.
type Pair struct {
	ID          string // lowercase hex address
	Token0      string
	Token1      string
	Reserve0    decimal.Decimal
	Reserve1    decimal.Decimal
	Token0Price decimal.Decimal
	Token1Price decimal.Decimal
	TotalSupply decimal.Decimal

	VolumeToken0       decimal.Decimal
	VolumeToken1       decimal.Decimal
	VolumeUSD          decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal

	ReserveNative        decimal.Decimal
	ReserveUSD           decimal.Decimal
	TrackedReserveNative decimal.Decimal

	TxCount                uint64
	LiquidityProviderCount uint64
}
