package engine

import (
	"testing"

	"pairscope/internal/model"
	"pairscope/internal/store"
)

func TestBucketIndexBoundaries(t *testing.T) {
	cases := []struct {
		ts   uint64
		day  uint64
		hour uint64
	}{
		{0, 0, 0},
		{3599, 0, 0},
		{3600, 0, 1},
		{86399, 0, 23},
		{86400, 1, 24},
		{1620000000, 18750, 450000},
	}
	for _, tc := range cases {
		if got := DayIndex(tc.ts); got != tc.day {
			t.Fatalf("DayIndex(%d) = %d, want %d", tc.ts, got, tc.day)
		}
		if got := HourIndex(tc.ts); got != tc.hour {
			t.Fatalf("HourIndex(%d) = %d, want %d", tc.ts, got, tc.hour)
		}
	}
}

func TestBucketIDs(t *testing.T) {
	if got := FactoryDayID(86400); got != "1" {
		t.Fatalf("FactoryDayID = %q, want %q", got, "1")
	}
	if got := PairDayID("0xab", 86400); got != "0xab-1" {
		t.Fatalf("PairDayID = %q, want %q", got, "0xab-1")
	}
	if got := PairHourID("0xab", 7200); got != "0xab-2" {
		t.Fatalf("PairHourID = %q, want %q", got, "0xab-2")
	}
	if got := TokenDayID("0xcd", 172800); got != "0xcd-2" {
		t.Fatalf("TokenDayID = %q, want %q", got, "0xcd-2")
	}
}

func TestUpdatePairDayDataLazyCreateAndIncrement(t *testing.T) {
	st := store.NewMemory()
	b := NewBucketAggregator(st)

	pair := &model.Pair{
		ID:       testPairAddr,
		Token0:   testToken0,
		Token1:   testToken1,
		Reserve0: dec("10"),
		Reserve1: dec("20"),
	}

	first := b.UpdatePairDayData(pair, 86400)
	if first.DailyTxns != 1 {
		t.Fatalf("DailyTxns = %d, want 1", first.DailyTxns)
	}
	if first.Date != 86400 {
		t.Fatalf("Date = %d, want 86400", first.Date)
	}

	pair.Reserve0 = dec("15")
	second := b.UpdatePairDayData(pair, 86400+3600)
	if second.ID != first.ID {
		t.Fatalf("same day produced two buckets: %q != %q", second.ID, first.ID)
	}
	if second.DailyTxns != 2 {
		t.Fatalf("DailyTxns = %d, want 2", second.DailyTxns)
	}
	if !second.Reserve0.Equal(dec("15")) {
		t.Fatalf("Reserve0 snapshot = %s, want 15", second.Reserve0)
	}

	next := b.UpdatePairDayData(pair, 2*86400)
	if next.ID == first.ID || next.DailyTxns != 1 {
		t.Fatalf("day rollover bucket = %+v", next)
	}
}

func TestUpdatePairHourDataRollover(t *testing.T) {
	st := store.NewMemory()
	b := NewBucketAggregator(st)

	pair := &model.Pair{ID: testPairAddr, Reserve0: dec("1")}

	first := b.UpdatePairHourData(pair, 3599)
	second := b.UpdatePairHourData(pair, 3600)
	if first.ID == second.ID {
		t.Fatalf("hour boundary shared a bucket: %q", first.ID)
	}
	if first.HourStart != 0 || second.HourStart != 3600 {
		t.Fatalf("hour starts = %d/%d, want 0/3600", first.HourStart, second.HourStart)
	}
}

func TestUpdateFactoryDayDataSnapshotsTotals(t *testing.T) {
	st := store.NewMemory()
	b := NewBucketAggregator(st)

	factory := &model.Factory{
		ID:                testFactory,
		TotalVolumeUSD:    dec("500"),
		TotalLiquidityUSD: dec("1000"),
		TxCount:           42,
	}

	data := b.UpdateFactoryDayData(factory, 1620000000)
	if !data.TotalVolumeUSD.Equal(dec("500")) || !data.TotalLiquidityUSD.Equal(dec("1000")) {
		t.Fatalf("factory day snapshot = %+v", data)
	}
	if data.TxCount != 42 {
		t.Fatalf("TxCount = %d, want 42", data.TxCount)
	}
}

func TestUpdateTokenDayDataPricesLiquidity(t *testing.T) {
	st := store.NewMemory()
	b := NewBucketAggregator(st)

	bundle := &model.Bundle{ID: model.BundleID, NativePriceUSD: dec("2")}
	token := &model.Token{
		ID:             testToken0,
		TotalLiquidity: dec("100"),
		DerivedNative:  decPtr("3"),
	}

	data := b.UpdateTokenDayData(token, bundle, 1620000000)
	if !data.PriceUSD.Equal(dec("6")) {
		t.Fatalf("PriceUSD = %s, want 6", data.PriceUSD)
	}
	if !data.TotalLiquidityNative.Equal(dec("300")) {
		t.Fatalf("TotalLiquidityNative = %s, want 300", data.TotalLiquidityNative)
	}
	if !data.TotalLiquidityUSD.Equal(dec("600")) {
		t.Fatalf("TotalLiquidityUSD = %s, want 600", data.TotalLiquidityUSD)
	}
}

func TestUpdateTokenDayDataUnresolvedPrice(t *testing.T) {
	st := store.NewMemory()
	b := NewBucketAggregator(st)

	bundle := &model.Bundle{ID: model.BundleID, NativePriceUSD: dec("2")}
	token := &model.Token{ID: testToken0, TotalLiquidity: dec("100")}

	data := b.UpdateTokenDayData(token, bundle, 1620000000)
	if !data.PriceUSD.IsZero() || !data.TotalLiquidityNative.IsZero() {
		t.Fatalf("unresolved token day data = %+v", data)
	}
}
