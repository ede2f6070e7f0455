package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pairscope/internal/model"
)

// handleTransfer reconciles raw LP-share transfers into logical mint and burn
// records and refreshes holder positions.
func (e *Engine) handleTransfer(ctx context.Context, rec model.EventRecord) error {
	transfer := rec.Transfer
	from := strings.ToLower(transfer.From)
	to := strings.ToLower(transfer.To)

	raw, err := model.ParseAmount(transfer.Value)
	if err != nil {
		return fmt.Errorf("transfer value: %w", err)
	}

	// the AMM locks a fixed minimum-liquidity amount at the zero address when
	// a pair is created; that transfer carries no economic meaning
	if to == ZeroAddress && raw.Cmp(e.cfg.MinimumLiquidity) == 0 {
		return nil
	}

	if _, ok := e.store.Factory(e.cfg.FactoryAddress); !ok {
		e.logger.Debug("transfer skipped: factory missing")
		return nil
	}
	pair, ok := e.store.Pair(strings.ToLower(rec.Address))
	if !ok {
		e.logger.Debug("transfer skipped: pair missing", zap.String("pair", rec.Address))
		return nil
	}

	value := model.ScaleToDecimal(raw, model.LPTokenDecimals)
	tx := e.ledger.GetOrCreate(rec.TxHash, rec.BlockNumber, rec.Timestamp)

	// mint arrival: new shares leave the zero address
	if from == ZeroAddress {
		pair.TotalSupply = pair.TotalSupply.Add(value)
		e.store.SavePair(pair)

		// an incomplete previous mint belongs to this transfer's Mint log,
		// which has not arrived yet; don't open a duplicate
		if len(tx.Mints) == 0 || e.lastMintComplete(tx) {
			mint := &model.MintEvent{
				ID:        eventID(tx.ID, len(tx.Mints)),
				Pair:      pair.ID,
				To:        to,
				Liquidity: value,
				Timestamp: tx.Timestamp,
			}
			e.store.SaveMint(mint)
			e.ledger.AppendMint(tx, mint.ID)
		}
	}

	// two-step withdrawal pre-stage: shares are sent back to the pair before
	// the burn itself
	if to == pair.ID {
		burn := &model.BurnEvent{
			ID:                eventID(tx.ID, len(tx.Burns)),
			Pair:              pair.ID,
			Sender:            from,
			To:                to,
			Liquidity:         value,
			Timestamp:         tx.Timestamp,
			PendingCompletion: true,
		}
		e.store.SaveBurn(burn)
		e.ledger.AppendBurn(tx, burn.ID)
	}

	// burn completion: the pair sends shares to the zero address
	if to == ZeroAddress && from == pair.ID {
		pair.TotalSupply = pair.TotalSupply.Sub(value)
		e.store.SavePair(pair)

		var burn *model.BurnEvent
		reused := false
		if len(tx.Burns) > 0 {
			if last, ok := e.store.Burn(tx.Burns[len(tx.Burns)-1]); ok && last.PendingCompletion {
				burn = last
				burn.PendingCompletion = false
				reused = true
			}
		}
		if burn == nil {
			// single-step burn with no pre-stage transfer
			burn = &model.BurnEvent{
				ID:        eventID(tx.ID, len(tx.Burns)),
				Pair:      pair.ID,
				Liquidity: value,
				Timestamp: tx.Timestamp,
			}
		}

		// a protocol fee mint emitted atomically with a withdrawal never gets
		// its own Mint log; fold it into the burn instead of surfacing it as a
		// separate mint
		if n := len(tx.Mints); n > 0 && !e.lastMintComplete(tx) {
			if mint, ok := e.store.Mint(tx.Mints[n-1]); ok {
				burn.FeeTo = mint.To
				fee := mint.Liquidity
				burn.FeeLiquidity = &fee
				e.store.RemoveMint(mint.ID)
				e.ledger.PopLastMint(tx)
			}
		}

		e.store.SaveBurn(burn)
		if !reused {
			e.ledger.AppendBurn(tx, burn.ID)
		}
	}

	// plain holder-to-holder movement: refresh both sides' positions from the
	// live LP balance
	if from != ZeroAddress && from != pair.ID {
		e.refreshPosition(ctx, pair, from, rec)
	}
	if to != ZeroAddress && to != pair.ID {
		e.refreshPosition(ctx, pair, to, rec)
	}

	e.store.SaveTransaction(tx)
	return nil
}

func (e *Engine) lastMintComplete(tx *model.Transaction) bool {
	if len(tx.Mints) == 0 {
		return false
	}
	mint, ok := e.store.Mint(tx.Mints[len(tx.Mints)-1])
	if !ok {
		return false
	}
	return mint.Complete()
}

// refreshPosition recomputes a holder's LP balance from the chain and appends
// an immutable snapshot. The balance is queried live, not derived from the
// transfer amount.
func (e *Engine) refreshPosition(ctx context.Context, pair *model.Pair, holder string, rec model.EventRecord) {
	raw, err := e.balances.LPBalance(ctx, pair.ID, holder)
	if err != nil {
		e.logger.Warn("lp balance lookup failed",
			zap.String("pair", pair.ID), zap.String("holder", holder), zap.Error(err))
		return
	}

	position := e.ensurePosition(pair, holder)
	position.LiquidityTokenBalance = model.ScaleToDecimal(raw, model.LPTokenDecimals)
	e.store.SavePosition(position)

	e.snapshotPosition(position, pair, rec.BlockNumber, rec.Timestamp)
}

// ensurePosition loads or creates the (pair, holder) position, counting new
// liquidity providers on the pair.
func (e *Engine) ensurePosition(pair *model.Pair, holder string) *model.LiquidityPosition {
	id := model.PositionID(pair.ID, holder)
	if position, ok := e.store.Position(id); ok {
		return position
	}
	position := &model.LiquidityPosition{ID: id, Pair: pair.ID, Holder: holder}
	e.store.SavePosition(position)
	pair.LiquidityProviderCount++
	e.store.SavePair(pair)
	return position
}

func (e *Engine) snapshotPosition(position *model.LiquidityPosition, pair *model.Pair, blockNumber, timestamp uint64) {
	bundle, ok := e.store.Bundle(model.BundleID)
	if !ok {
		return
	}
	token0, token1, ok := e.pairTokens(pair)
	if !ok {
		return
	}

	snap := &model.LiquidityPositionSnapshot{
		ID:                        fmt.Sprintf("%s-%d", position.ID, timestamp),
		Position:                  position.ID,
		Pair:                      pair.ID,
		Holder:                    position.Holder,
		BlockNumber:               blockNumber,
		Timestamp:                 timestamp,
		Token0PriceUSD:            derivedUSD(token0, bundle),
		Token1PriceUSD:            derivedUSD(token1, bundle),
		Reserve0:                  pair.Reserve0,
		Reserve1:                  pair.Reserve1,
		ReserveUSD:                pair.ReserveUSD,
		LiquidityTokenTotalSupply: pair.TotalSupply,
		LiquidityTokenBalance:     position.LiquidityTokenBalance,
	}
	e.store.SaveSnapshot(snap)
}
