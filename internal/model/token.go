package model

import "github.com/shopspring/decimal"

// Token tracks cumulative trade state for a single ERC20 token.
//
// DerivedNative is nil until the price oracle has resolved the token at least
// once; consumers must branch on presence before using it.
type Token struct {
	ID                 string // lowercase hex address
	Decimals           uint8
	TradeVolume        decimal.Decimal
	TradeVolumeUSD     decimal.Decimal
	UntrackedVolumeUSD decimal.Decimal
	TotalLiquidity     decimal.Decimal
	TxCount            uint64
	DerivedNative      *decimal.Decimal
}
