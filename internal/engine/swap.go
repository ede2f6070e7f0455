package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pairscope/internal/model"
)

// handleSwap accumulates tracked and untracked volume on the tokens, the
// pair, and the protocol aggregate, then appends the derived swap record and
// rolls the amounts into the time buckets.
func (e *Engine) handleSwap(ctx context.Context, rec model.EventRecord) error {
	pair, ok := e.store.Pair(strings.ToLower(rec.Address))
	if !ok {
		e.logger.Debug("swap skipped: pair missing", zap.String("pair", rec.Address))
		return nil
	}
	token0, token1, ok := e.pairTokens(pair)
	if !ok {
		return nil
	}

	amount0In, err := e.scaledAmount(rec.Swap.Amount0In, token0)
	if err != nil {
		return fmt.Errorf("swap amount0In: %w", err)
	}
	amount1In, err := e.scaledAmount(rec.Swap.Amount1In, token1)
	if err != nil {
		return fmt.Errorf("swap amount1In: %w", err)
	}
	amount0Out, err := e.scaledAmount(rec.Swap.Amount0Out, token0)
	if err != nil {
		return fmt.Errorf("swap amount0Out: %w", err)
	}
	amount1Out, err := e.scaledAmount(rec.Swap.Amount1Out, token1)
	if err != nil {
		return fmt.Errorf("swap amount1Out: %w", err)
	}

	amount0Total := amount0In.Add(amount0Out)
	amount1Total := amount1In.Add(amount1Out)

	bundle, ok := e.store.Bundle(model.BundleID)
	if !ok {
		return nil
	}
	if token0.DerivedNative == nil || token1.DerivedNative == nil {
		return nil
	}

	// untracked estimate prices both legs and averages them
	derivedAmountNative := token1.DerivedNative.Mul(amount1Total).
		Add(token0.DerivedNative.Mul(amount0Total)).
		Div(two)
	derivedAmountUSD := derivedAmountNative.Mul(bundle.NativePriceUSD)

	trackedAmountUSD := e.volume.TrackedVolumeUSD(amount0Total, token0, amount1Total, token1, pair, bundle)

	trackedAmountNative := decimal.Zero
	if !bundle.NativePriceUSD.IsZero() {
		trackedAmountNative = trackedAmountUSD.Div(bundle.NativePriceUSD)
	}

	token0.TradeVolume = token0.TradeVolume.Add(amount0Total)
	token0.TradeVolumeUSD = token0.TradeVolumeUSD.Add(trackedAmountUSD)
	token0.UntrackedVolumeUSD = token0.UntrackedVolumeUSD.Add(derivedAmountUSD)

	token1.TradeVolume = token1.TradeVolume.Add(amount1Total)
	token1.TradeVolumeUSD = token1.TradeVolumeUSD.Add(trackedAmountUSD)
	token1.UntrackedVolumeUSD = token1.UntrackedVolumeUSD.Add(derivedAmountUSD)

	token0.TxCount++
	token1.TxCount++

	pair.VolumeUSD = pair.VolumeUSD.Add(trackedAmountUSD)
	pair.VolumeToken0 = pair.VolumeToken0.Add(amount0Total)
	pair.VolumeToken1 = pair.VolumeToken1.Add(amount1Total)
	pair.UntrackedVolumeUSD = pair.UntrackedVolumeUSD.Add(derivedAmountUSD)
	pair.TxCount++
	e.store.SavePair(pair)

	factory, ok := e.store.Factory(e.cfg.FactoryAddress)
	if !ok {
		return nil
	}
	factory.TotalVolumeUSD = factory.TotalVolumeUSD.Add(trackedAmountUSD)
	factory.TotalVolumeNative = factory.TotalVolumeNative.Add(trackedAmountNative)
	factory.UntrackedVolumeUSD = factory.UntrackedVolumeUSD.Add(derivedAmountUSD)
	factory.TxCount++

	e.store.SavePair(pair)
	e.store.SaveToken(token0)
	e.store.SaveToken(token1)
	e.store.SaveFactory(factory)

	tx := e.ledger.GetOrCreate(rec.TxHash, rec.BlockNumber, rec.Timestamp)
	swap := &model.SwapEvent{
		ID:         eventID(tx.ID, len(tx.Swaps)),
		Pair:       pair.ID,
		Sender:     strings.ToLower(rec.Swap.Sender),
		To:         strings.ToLower(rec.Swap.To),
		Amount0In:  amount0In,
		Amount1In:  amount1In,
		Amount0Out: amount0Out,
		Amount1Out: amount1Out,
		LogIndex:   rec.LogIndex,
		Timestamp:  tx.Timestamp,
	}
	// prefer the tracked amount, fall back to the derived estimate
	if trackedAmountUSD.IsZero() {
		swap.AmountUSD = derivedAmountUSD
	} else {
		swap.AmountUSD = trackedAmountUSD
	}
	e.store.SaveSwap(swap)
	e.ledger.AppendSwap(tx, swap.ID)

	pairDay := e.buckets.UpdatePairDayData(pair, rec.Timestamp)
	pairDay.DailyVolumeToken0 = pairDay.DailyVolumeToken0.Add(amount0Total)
	pairDay.DailyVolumeToken1 = pairDay.DailyVolumeToken1.Add(amount1Total)
	pairDay.DailyVolumeUSD = pairDay.DailyVolumeUSD.Add(trackedAmountUSD)
	e.store.SavePairDayData(pairDay)

	pairHour := e.buckets.UpdatePairHourData(pair, rec.Timestamp)
	pairHour.HourlyVolumeToken0 = pairHour.HourlyVolumeToken0.Add(amount0Total)
	pairHour.HourlyVolumeToken1 = pairHour.HourlyVolumeToken1.Add(amount1Total)
	pairHour.HourlyVolumeUSD = pairHour.HourlyVolumeUSD.Add(trackedAmountUSD)
	e.store.SavePairHourData(pairHour)

	factoryDay := e.buckets.UpdateFactoryDayData(factory, rec.Timestamp)
	factoryDay.DailyVolumeUSD = factoryDay.DailyVolumeUSD.Add(trackedAmountUSD)
	factoryDay.DailyVolumeNative = factoryDay.DailyVolumeNative.Add(trackedAmountNative)
	factoryDay.DailyVolumeUntracked = factoryDay.DailyVolumeUntracked.Add(derivedAmountUSD)
	e.store.SaveFactoryDayData(factoryDay)

	token0Day := e.buckets.UpdateTokenDayData(token0, bundle, rec.Timestamp)
	token0Day.DailyVolumeToken = token0Day.DailyVolumeToken.Add(amount0Total)
	token0Day.DailyVolumeNative = token0Day.DailyVolumeNative.Add(amount0Total.Mul(*token0.DerivedNative))
	token0Day.DailyVolumeUSD = token0Day.DailyVolumeUSD.Add(
		amount0Total.Mul(*token0.DerivedNative).Mul(bundle.NativePriceUSD))
	e.store.SaveTokenDayData(token0Day)

	token1Day := e.buckets.UpdateTokenDayData(token1, bundle, rec.Timestamp)
	token1Day.DailyVolumeToken = token1Day.DailyVolumeToken.Add(amount1Total)
	token1Day.DailyVolumeNative = token1Day.DailyVolumeNative.Add(amount1Total.Mul(*token1.DerivedNative))
	token1Day.DailyVolumeUSD = token1Day.DailyVolumeUSD.Add(
		amount1Total.Mul(*token1.DerivedNative).Mul(bundle.NativePriceUSD))
	e.store.SaveTokenDayData(token1Day)

	return nil
}

func (e *Engine) scaledAmount(value string, token *model.Token) (decimal.Decimal, error) {
	raw, err := model.ParseAmount(value)
	if err != nil {
		return decimal.Zero, err
	}
	return model.ScaleToDecimal(raw, token.Decimals), nil
}
