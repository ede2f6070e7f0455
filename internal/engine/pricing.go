package engine

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pairscope/internal/model"
	"pairscope/internal/store"
)

// PriceOracle derives reference-currency prices. DerivePrice walks the
// whitelist in order and takes the first pairing it finds; this is a
// best-effort heuristic with no cycle protection, not a manipulation-proof
// oracle.
type PriceOracle struct {
	cfg    Config
	store  *store.Memory
	pairs  PairLookup
	logger *zap.Logger
}

func NewPriceOracle(cfg Config, st *store.Memory, pairs PairLookup, logger *zap.Logger) *PriceOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceOracle{cfg: cfg, store: st, pairs: pairs, logger: logger}
}

// RefreshBaseRate computes the reference-currency/USD rate from the two
// canonical stablecoin pairs. With both present it is the reserve-weighted
// average of their stablecoin spot prices; with only the USDC pair its spot
// price; otherwise zero.
func (o *PriceOracle) RefreshBaseRate() decimal.Decimal {
	usdcPair, usdcOK := o.store.Pair(o.cfg.USDCNativePair) // stablecoin is token0
	daiPair, daiOK := o.store.Pair(o.cfg.DAINativePair)    // stablecoin is token1

	switch {
	case usdcOK && daiOK:
		totalLiquidityNative := usdcPair.Reserve1.Add(daiPair.Reserve0)
		if totalLiquidityNative.IsZero() {
			return decimal.Zero
		}
		usdcWeight := usdcPair.Reserve1.Div(totalLiquidityNative)
		daiWeight := daiPair.Reserve0.Div(totalLiquidityNative)
		return usdcPair.Token0Price.Mul(usdcWeight).Add(daiPair.Token1Price.Mul(daiWeight))
	case usdcOK:
		return usdcPair.Token0Price
	default:
		return decimal.Zero
	}
}

// DerivePrice returns the token's price in the reference currency. The
// reference token itself is 1 by definition. Otherwise the whitelist is
// scanned in priority order: the first whitelist member the factory has a
// pair for decides the price via that pair's counterpart spot price. Zero
// means no whitelisted pairing was found; that is a deliberate fallback, not
// an error.
func (o *PriceOracle) DerivePrice(ctx context.Context, token *model.Token) decimal.Decimal {
	if token.ID == o.cfg.ReferenceToken {
		return decimal.NewFromInt(1)
	}

	for _, member := range o.cfg.Whitelist {
		pairAddr, found, err := o.pairs.PairFor(ctx, token.ID, member)
		if err != nil {
			o.logger.Warn("pair lookup failed",
				zap.String("token", token.ID), zap.String("whitelist", member), zap.Error(err))
			continue
		}
		if !found {
			continue
		}

		pair, ok := o.store.Pair(pairAddr)
		if !ok {
			continue
		}
		if pair.Token0 == token.ID {
			counterpart, ok := o.store.Token(pair.Token1)
			if !ok || counterpart.DerivedNative == nil {
				continue
			}
			// counterpart per our token, times reference currency per counterpart
			return pair.Token1Price.Mul(*counterpart.DerivedNative)
		}
		if pair.Token1 == token.ID {
			counterpart, ok := o.store.Token(pair.Token0)
			if !ok || counterpart.DerivedNative == nil {
				continue
			}
			return pair.Token0Price.Mul(*counterpart.DerivedNative)
		}
	}

	return decimal.Zero
}
