package model

import "github.com/shopspring/decimal"

// Time-bucketed rollups. Bucket ids embed the integer bucket index
// (timestamp/86400 for days, timestamp/3600 for hours); see engine.DayIndex
// and engine.HourIndex.

// FactoryDayData is the protocol-wide daily rollup.
type FactoryDayData struct {
	ID                   string // "{dayIndex}"
	Date                 uint64 // bucket start, unix seconds
	DailyVolumeNative    decimal.Decimal
	DailyVolumeUSD       decimal.Decimal
	DailyVolumeUntracked decimal.Decimal
	TotalVolumeNative    decimal.Decimal
	TotalVolumeUSD       decimal.Decimal
	TotalLiquidityNative decimal.Decimal
	TotalLiquidityUSD    decimal.Decimal
	TxCount              uint64
}

// PairDayData is the per-pair daily rollup.
type PairDayData struct {
	ID                string // "{pair}-{dayIndex}"
	Date              uint64
	PairAddress       string
	Token0            string
	Token1            string
	Reserve0          decimal.Decimal
	Reserve1          decimal.Decimal
	TotalSupply       decimal.Decimal
	ReserveUSD        decimal.Decimal
	DailyVolumeToken0 decimal.Decimal
	DailyVolumeToken1 decimal.Decimal
	DailyVolumeUSD    decimal.Decimal
	DailyTxns         uint64
}

// PairHourData is the per-pair hourly rollup.
type PairHourData struct {
	ID                 string // "{pair}-{hourIndex}"
	HourStart          uint64
	PairAddress        string
	Reserve0           decimal.Decimal
	Reserve1           decimal.Decimal
	ReserveUSD         decimal.Decimal
	HourlyVolumeToken0 decimal.Decimal
	HourlyVolumeToken1 decimal.Decimal
	HourlyVolumeUSD    decimal.Decimal
	HourlyTxns         uint64
}

// TokenDayData is the per-token daily rollup.
type TokenDayData struct {
	ID                   string // "{token}-{dayIndex}"
	Date                 uint64
	Token                string
	DailyVolumeToken     decimal.Decimal
	DailyVolumeNative    decimal.Decimal
	DailyVolumeUSD       decimal.Decimal
	TotalLiquidityToken  decimal.Decimal
	TotalLiquidityNative decimal.Decimal
	TotalLiquidityUSD    decimal.Decimal
	PriceUSD             decimal.Decimal
	DailyTxns            uint64
}
