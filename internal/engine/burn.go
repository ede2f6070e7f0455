package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pairscope/internal/model"
)

// handleBurn completes the last logical burn of the transaction with the Burn
// log's amounts and USD value.
func (e *Engine) handleBurn(ctx context.Context, rec model.EventRecord) error {
	tx, ok := e.store.Transaction(rec.TxHash)
	if !ok {
		e.logger.Debug("burn skipped: transaction missing", zap.String("tx", rec.TxHash))
		return nil
	}
	if len(tx.Burns) == 0 {
		e.logger.Debug("burn skipped: no pending burn", zap.String("tx", rec.TxHash))
		return nil
	}
	burn, ok := e.store.Burn(tx.Burns[len(tx.Burns)-1])
	if !ok {
		return nil
	}
	pair, ok := e.store.Pair(strings.ToLower(rec.Address))
	if !ok {
		return nil
	}
	factory, ok := e.store.Factory(e.cfg.FactoryAddress)
	if !ok {
		return nil
	}
	token0, token1, ok := e.pairTokens(pair)
	if !ok {
		return nil
	}

	raw0, err := model.ParseAmount(rec.Burn.Amount0)
	if err != nil {
		return fmt.Errorf("burn amount0: %w", err)
	}
	raw1, err := model.ParseAmount(rec.Burn.Amount1)
	if err != nil {
		return fmt.Errorf("burn amount1: %w", err)
	}
	amount0 := model.ScaleToDecimal(raw0, token0.Decimals)
	amount1 := model.ScaleToDecimal(raw1, token1.Decimals)

	token0.TxCount++
	token1.TxCount++

	bundle, ok := e.store.Bundle(model.BundleID)
	if !ok {
		return nil
	}
	if token0.DerivedNative == nil || token1.DerivedNative == nil {
		return nil
	}
	amountTotalUSD := token1.DerivedNative.Mul(amount1).
		Add(token0.DerivedNative.Mul(amount0)).
		Mul(bundle.NativePriceUSD)

	factory.TxCount++
	pair.TxCount++

	e.store.SaveToken(token0)
	e.store.SaveToken(token1)
	e.store.SavePair(pair)
	e.store.SaveFactory(factory)

	burn.Amount0 = amount0
	burn.Amount1 = amount1
	burn.AmountUSD = amountTotalUSD
	burn.LogIndex = rec.LogIndex
	e.store.SaveBurn(burn)

	// single-step burns have no pre-stage sender to snapshot
	if burn.Sender != "" {
		position := e.ensurePosition(pair, burn.Sender)
		e.snapshotPosition(position, pair, rec.BlockNumber, rec.Timestamp)
	}

	e.buckets.UpdatePairDayData(pair, rec.Timestamp)
	e.buckets.UpdatePairHourData(pair, rec.Timestamp)
	e.buckets.UpdateFactoryDayData(factory, rec.Timestamp)
	e.buckets.UpdateTokenDayData(token0, bundle, rec.Timestamp)
	e.buckets.UpdateTokenDayData(token1, bundle, rec.Timestamp)
	return nil
}
