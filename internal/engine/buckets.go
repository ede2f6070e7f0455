package engine

import (
	"fmt"

	"pairscope/internal/model"
	"pairscope/internal/store"
)

const (
	daySeconds  = 86400
	hourSeconds = 3600
)

// DayIndex returns the day bucket index for a unix timestamp.
func DayIndex(ts uint64) uint64 { return ts / daySeconds }

// HourIndex returns the hour bucket index for a unix timestamp.
func HourIndex(ts uint64) uint64 { return ts / hourSeconds }

// FactoryDayID builds the protocol day bucket id.
func FactoryDayID(ts uint64) string { return fmt.Sprintf("%d", DayIndex(ts)) }

// PairDayID builds the per-pair day bucket id.
func PairDayID(pair string, ts uint64) string { return fmt.Sprintf("%s-%d", pair, DayIndex(ts)) }

// PairHourID builds the per-pair hour bucket id.
func PairHourID(pair string, ts uint64) string { return fmt.Sprintf("%s-%d", pair, HourIndex(ts)) }

// TokenDayID builds the per-token day bucket id.
func TokenDayID(token string, ts uint64) string { return fmt.Sprintf("%s-%d", token, DayIndex(ts)) }

// BucketAggregator maintains the hourly/daily rollups. Buckets are created
// lazily on the first event in the bucket and incremented afterwards. It does
// not deduplicate: idempotency under redelivery is the caller's contract.
type BucketAggregator struct {
	store *store.Memory
}

func NewBucketAggregator(st *store.Memory) *BucketAggregator {
	return &BucketAggregator{store: st}
}

// UpdateFactoryDayData snapshots protocol totals into the day bucket.
func (b *BucketAggregator) UpdateFactoryDayData(factory *model.Factory, ts uint64) *model.FactoryDayData {
	id := FactoryDayID(ts)
	data, ok := b.store.FactoryDayData(id)
	if !ok {
		data = &model.FactoryDayData{
			ID:   id,
			Date: DayIndex(ts) * daySeconds,
		}
	}
	data.TotalVolumeNative = factory.TotalVolumeNative
	data.TotalVolumeUSD = factory.TotalVolumeUSD
	data.TotalLiquidityNative = factory.TotalLiquidityNative
	data.TotalLiquidityUSD = factory.TotalLiquidityUSD
	data.TxCount = factory.TxCount
	b.store.SaveFactoryDayData(data)
	return data
}

// UpdatePairDayData snapshots pair reserves into the day bucket and counts
// the transaction.
func (b *BucketAggregator) UpdatePairDayData(pair *model.Pair, ts uint64) *model.PairDayData {
	id := PairDayID(pair.ID, ts)
	data, ok := b.store.PairDayData(id)
	if !ok {
		data = &model.PairDayData{
			ID:          id,
			Date:        DayIndex(ts) * daySeconds,
			PairAddress: pair.ID,
			Token0:      pair.Token0,
			Token1:      pair.Token1,
		}
	}
	data.Reserve0 = pair.Reserve0
	data.Reserve1 = pair.Reserve1
	data.TotalSupply = pair.TotalSupply
	data.ReserveUSD = pair.ReserveUSD
	data.DailyTxns++
	b.store.SavePairDayData(data)
	return data
}

// UpdatePairHourData snapshots pair reserves into the hour bucket and counts
// the transaction.
func (b *BucketAggregator) UpdatePairHourData(pair *model.Pair, ts uint64) *model.PairHourData {
	id := PairHourID(pair.ID, ts)
	data, ok := b.store.PairHourData(id)
	if !ok {
		data = &model.PairHourData{
			ID:          id,
			HourStart:   HourIndex(ts) * hourSeconds,
			PairAddress: pair.ID,
		}
	}
	data.Reserve0 = pair.Reserve0
	data.Reserve1 = pair.Reserve1
	data.ReserveUSD = pair.ReserveUSD
	data.HourlyTxns++
	b.store.SavePairHourData(data)
	return data
}

// UpdateTokenDayData snapshots token liquidity and price into the day bucket
// and counts the transaction.
func (b *BucketAggregator) UpdateTokenDayData(token *model.Token, bundle *model.Bundle, ts uint64) *model.TokenDayData {
	priceUSD := derivedUSD(token, bundle)

	id := TokenDayID(token.ID, ts)
	data, ok := b.store.TokenDayData(id)
	if !ok {
		data = &model.TokenDayData{
			ID:    id,
			Date:  DayIndex(ts) * daySeconds,
			Token: token.ID,
		}
	}
	data.PriceUSD = priceUSD
	data.TotalLiquidityToken = token.TotalLiquidity
	if token.DerivedNative != nil {
		data.TotalLiquidityNative = token.TotalLiquidity.Mul(*token.DerivedNative)
	}
	data.TotalLiquidityUSD = data.TotalLiquidityNative.Mul(bundle.NativePriceUSD)
	data.DailyTxns++
	b.store.SaveTokenDayData(data)
	return data
}
