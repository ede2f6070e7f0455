package model

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// LPTokenDecimals is the precision of pair LP-share tokens.
const LPTokenDecimals uint8 = 18

// ParseAmount parses a decimal integer string from an event payload. Empty
// strings count as zero.
func ParseAmount(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", value)
	}
	return parsed, nil
}

// ScaleToDecimal converts a raw integer token amount to a decimal value using
// the token's declared precision. No precision is lost.
func ScaleToDecimal(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}
