package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LiquidityPosition is the live LP-share balance of one holder in one pair.
type LiquidityPosition struct {
	ID                    string // "{pair}-{holder}"
	Pair                  string
	Holder                string
	LiquidityTokenBalance decimal.Decimal
}

// PositionID builds the canonical id for a (pair, holder) position.
func PositionID(pair, holder string) string {
	return fmt.Sprintf("%s-%s", pair, holder)
}

// LiquidityPositionSnapshot is an immutable point-in-time copy of a position,
// appended on every transfer touching the holder.
type LiquidityPositionSnapshot struct {
	ID                        string // "{position}-{timestamp}"
	Position                  string
	Pair                      string
	Holder                    string
	BlockNumber               uint64
	Timestamp                 uint64
	Token0PriceUSD            decimal.Decimal
	Token1PriceUSD            decimal.Decimal
	Reserve0                  decimal.Decimal
	Reserve1                  decimal.Decimal
	ReserveUSD                decimal.Decimal
	LiquidityTokenTotalSupply decimal.Decimal
	LiquidityTokenBalance     decimal.Decimal
}
