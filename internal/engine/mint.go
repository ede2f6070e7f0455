package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pairscope/internal/model"
)

// handleMint completes the last logical mint of the transaction with the Mint
// log's amounts. The mint record itself was opened by the transfer handler;
// an absent transaction or mint means the prerequisite transfer was never
// seen, and the event is skipped.
func (e *Engine) handleMint(ctx context.Context, rec model.EventRecord) error {
	tx, ok := e.store.Transaction(rec.TxHash)
	if !ok {
		e.logger.Debug("mint skipped: transaction missing", zap.String("tx", rec.TxHash))
		return nil
	}
	if len(tx.Mints) == 0 {
		e.logger.Debug("mint skipped: no pending mint", zap.String("tx", rec.TxHash))
		return nil
	}
	mint, ok := e.store.Mint(tx.Mints[len(tx.Mints)-1])
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

	raw0, err := model.ParseAmount(rec.Mint.Amount0)
	if err != nil {
		return fmt.Errorf("mint amount0: %w", err)
	}
	raw1, err := model.ParseAmount(rec.Mint.Amount1)
	if err != nil {
		return fmt.Errorf("mint amount1: %w", err)
	}
	amount0 := model.ScaleToDecimal(raw0, token0.Decimals)
	amount1 := model.ScaleToDecimal(raw1, token1.Decimals)

	token0.TxCount++
	token1.TxCount++

	bundle, bundleOK := e.store.Bundle(model.BundleID)
	if bundleOK && token0.DerivedNative != nil && token1.DerivedNative != nil {
		mint.AmountUSD = token1.DerivedNative.Mul(amount1).
			Add(token0.DerivedNative.Mul(amount0)).
			Mul(bundle.NativePriceUSD)
	}

	pair.TxCount++
	factory.TxCount++

	e.store.SaveToken(token0)
	e.store.SaveToken(token1)
	e.store.SavePair(pair)
	e.store.SaveFactory(factory)

	// sender arriving marks the mint complete
	mint.Sender = strings.ToLower(rec.Mint.Sender)
	mint.Amount0 = amount0
	mint.Amount1 = amount1
	mint.LogIndex = rec.LogIndex
	e.store.SaveMint(mint)

	position := e.ensurePosition(pair, mint.To)
	e.snapshotPosition(position, pair, rec.BlockNumber, rec.Timestamp)

	e.buckets.UpdatePairDayData(pair, rec.Timestamp)
	e.buckets.UpdatePairHourData(pair, rec.Timestamp)
	e.buckets.UpdateFactoryDayData(factory, rec.Timestamp)
	if bundleOK {
		e.buckets.UpdateTokenDayData(token0, bundle, rec.Timestamp)
		e.buckets.UpdateTokenDayData(token1, bundle, rec.Timestamp)
	}
	return nil
}
