package engine

import (
	"github.com/shopspring/decimal"

	"pairscope/internal/model"
)

var two = decimal.NewFromInt(2)

// Classifier computes tracked vs. untracked USD contributions based on the
// token whitelist.
type Classifier struct {
	whitelist map[string]struct{}
}

func NewClassifier(whitelist []string) *Classifier {
	set := make(map[string]struct{}, len(whitelist))
	for _, addr := range whitelist {
		set[addr] = struct{}{}
	}
	return &Classifier{whitelist: set}
}

func (c *Classifier) Whitelisted(token string) bool {
	_, ok := c.whitelist[token]
	return ok
}

// TrackedVolumeUSD returns the tracked volume for two swap legs: the average
// of both legs' USD values when both tokens are whitelisted, the whitelisted
// leg's full value when only one is, zero when neither is.
func (c *Classifier) TrackedVolumeUSD(
	amount0 decimal.Decimal, token0 *model.Token,
	amount1 decimal.Decimal, token1 *model.Token,
	pair *model.Pair, bundle *model.Bundle,
) decimal.Decimal {
	if token0.DerivedNative == nil || token1.DerivedNative == nil {
		return decimal.Zero
	}
	price0 := token0.DerivedNative.Mul(bundle.NativePriceUSD)
	price1 := token1.DerivedNative.Mul(bundle.NativePriceUSD)

	// low-liquidity guard: pairs with under 5 providers get their reserves
	// priced here, but the result intentionally does not gate the return
	// value (kept as-is from the original rules)
	if pair.LiquidityProviderCount < 5 {
		_ = pair.Reserve0.Mul(price0)
		_ = pair.Reserve1.Mul(price1)
	}

	wl0 := c.Whitelisted(token0.ID)
	wl1 := c.Whitelisted(token1.ID)
	switch {
	case wl0 && wl1:
		return amount0.Mul(price0).Add(amount1.Mul(price1)).Div(two)
	case wl0:
		return amount0.Mul(price0)
	case wl1:
		return amount1.Mul(price1)
	default:
		return decimal.Zero
	}
}

// TrackedLiquidityUSD returns the tracked liquidity for two reserve legs.
// Unlike volume it sums both legs when both tokens are whitelisted and
// doubles a single whitelisted leg, so the result reflects the full pool
// value instead of half of it.
func (c *Classifier) TrackedLiquidityUSD(
	amount0 decimal.Decimal, token0 *model.Token,
	amount1 decimal.Decimal, token1 *model.Token,
	bundle *model.Bundle,
) decimal.Decimal {
	if token0.DerivedNative == nil || token1.DerivedNative == nil {
		return decimal.Zero
	}
	price0 := token0.DerivedNative.Mul(bundle.NativePriceUSD)
	price1 := token1.DerivedNative.Mul(bundle.NativePriceUSD)

	wl0 := c.Whitelisted(token0.ID)
	wl1 := c.Whitelisted(token1.ID)
	switch {
	case wl0 && wl1:
		return amount0.Mul(price0).Add(amount1.Mul(price1))
	case wl0:
		return amount0.Mul(price0).Mul(two)
	case wl1:
		return amount1.Mul(price1).Mul(two)
	default:
		return decimal.Zero
	}
}

// derivedUSD converts a token's derived native price into USD, zero when the
// price is unresolved.
func derivedUSD(token *model.Token, bundle *model.Bundle) decimal.Decimal {
	if token.DerivedNative == nil {
		return decimal.Zero
	}
	return token.DerivedNative.Mul(bundle.NativePriceUSD)
}
