package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pairscope/internal/model"
)

// handleSync overwrites pool reserves, recomputes spot prices, and refreshes
// the base rate and both tokens' derived prices. Aggregate totals are kept
// consistent with a subtract-then-add pass so no full recomputation over all
// pairs is ever needed.
func (e *Engine) handleSync(ctx context.Context, rec model.EventRecord) error {
	pair, ok := e.store.Pair(strings.ToLower(rec.Address))
	if !ok {
		e.logger.Debug("sync skipped: pair missing", zap.String("pair", rec.Address))
		return nil
	}
	token0, token1, ok := e.pairTokens(pair)
	if !ok {
		e.logger.Debug("sync skipped: token missing", zap.String("pair", pair.ID))
		return nil
	}
	factory, ok := e.store.Factory(e.cfg.FactoryAddress)
	if !ok {
		e.logger.Debug("sync skipped: factory missing")
		return nil
	}

	// back out this pair's previous contribution before overwriting reserves
	factory.TotalLiquidityNative = factory.TotalLiquidityNative.Sub(pair.TrackedReserveNative)
	token0.TotalLiquidity = token0.TotalLiquidity.Sub(pair.Reserve0)
	token1.TotalLiquidity = token1.TotalLiquidity.Sub(pair.Reserve1)

	raw0, err := model.ParseAmount(rec.Sync.Reserve0)
	if err != nil {
		return fmt.Errorf("sync reserve0: %w", err)
	}
	raw1, err := model.ParseAmount(rec.Sync.Reserve1)
	if err != nil {
		return fmt.Errorf("sync reserve1: %w", err)
	}
	pair.Reserve0 = model.ScaleToDecimal(raw0, token0.Decimals)
	pair.Reserve1 = model.ScaleToDecimal(raw1, token1.Decimals)

	if !pair.Reserve1.IsZero() {
		pair.Token0Price = pair.Reserve0.Div(pair.Reserve1)
	} else {
		pair.Token0Price = decimal.Zero
	}
	if !pair.Reserve0.IsZero() {
		pair.Token1Price = pair.Reserve1.Div(pair.Reserve0)
	} else {
		pair.Token1Price = decimal.Zero
	}

	e.store.SavePair(pair)

	if bundle, ok := e.store.Bundle(model.BundleID); ok {
		bundle.NativePriceUSD = e.oracle.RefreshBaseRate()
		e.store.SaveBundle(bundle)

		derived0 := e.oracle.DerivePrice(ctx, token0)
		token0.DerivedNative = &derived0
		derived1 := e.oracle.DerivePrice(ctx, token1)
		token1.DerivedNative = &derived1
		e.store.SaveToken(token0)
		e.store.SaveToken(token1)

		trackedLiquidityNative := decimal.Zero
		if !bundle.NativePriceUSD.IsZero() {
			trackedLiquidityNative = e.volume.TrackedLiquidityUSD(
				pair.Reserve0, token0, pair.Reserve1, token1, bundle,
			).Div(bundle.NativePriceUSD)
		}

		pair.TrackedReserveNative = trackedLiquidityNative
		pair.ReserveNative = pair.Reserve0.Mul(derived0).Add(pair.Reserve1.Mul(derived1))
		pair.ReserveUSD = pair.ReserveNative.Mul(bundle.NativePriceUSD)

		factory.TotalLiquidityNative = factory.TotalLiquidityNative.Add(trackedLiquidityNative)
		factory.TotalLiquidityUSD = factory.TotalLiquidityNative.Mul(bundle.NativePriceUSD)

		token0.TotalLiquidity = token0.TotalLiquidity.Add(pair.Reserve0)
		token1.TotalLiquidity = token1.TotalLiquidity.Add(pair.Reserve1)
	}

	e.store.SavePair(pair)
	e.store.SaveFactory(factory)
	e.store.SaveToken(token0)
	e.store.SaveToken(token1)
	return nil
}
