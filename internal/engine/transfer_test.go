package engine

import (
	"context"
	"math/big"
	"testing"

	"pairscope/internal/model"
)

func TestTransferBootstrapLockIgnored(t *testing.T) {
	eng, st := newTestEngine(t)

	rec := transferRecord(testUser, ZeroAddress, "1000", 0)
	if err := eng.Apply(context.Background(), rec); err != nil {
		t.Fatalf("apply transfer: %v", err)
	}

	if _, ok := st.Transaction("0xtx1"); ok {
		t.Fatalf("bootstrap lock transfer created a transaction")
	}
	pair, _ := st.Pair(testPairAddr)
	if !pair.TotalSupply.IsZero() {
		t.Fatalf("bootstrap lock transfer changed supply: %s", pair.TotalSupply)
	}
}

func TestTransferMintArrival(t *testing.T) {
	eng, st := newTestEngine(t)

	rec := transferRecord(ZeroAddress, testUser, "5000000000000000000", 0)
	if err := eng.Apply(context.Background(), rec); err != nil {
		t.Fatalf("apply transfer: %v", err)
	}

	pair, _ := st.Pair(testPairAddr)
	if !pair.TotalSupply.Equal(dec("5")) {
		t.Fatalf("TotalSupply = %s, want 5", pair.TotalSupply)
	}

	tx, ok := st.Transaction("0xtx1")
	if !ok {
		t.Fatalf("transaction missing")
	}
	if len(tx.Mints) != 1 {
		t.Fatalf("mint sequence length = %d, want 1", len(tx.Mints))
	}

	mint, ok := st.Mint(tx.Mints[0])
	if !ok {
		t.Fatalf("mint record missing")
	}
	if mint.To != testUser || !mint.Liquidity.Equal(dec("5")) {
		t.Fatalf("mint = %+v", mint)
	}
	if mint.Complete() {
		t.Fatalf("mint marked complete before its Mint log")
	}
}

func TestTransferSecondArrivalDoesNotDuplicateMint(t *testing.T) {
	eng, st := newTestEngine(t)

	// the second share transfer belongs to the still-incomplete mint of the
	// first one, so no second record opens
	if err := eng.Apply(context.Background(), transferRecord(ZeroAddress, testUser, "5000000000000000000", 0)); err != nil {
		t.Fatalf("apply transfer: %v", err)
	}
	if err := eng.Apply(context.Background(), transferRecord(ZeroAddress, testUser, "2000000000000000000", 1)); err != nil {
		t.Fatalf("apply transfer: %v", err)
	}

	tx, _ := st.Transaction("0xtx1")
	if len(tx.Mints) != 1 {
		t.Fatalf("mint sequence length = %d, want 1", len(tx.Mints))
	}
	pair, _ := st.Pair(testPairAddr)
	if !pair.TotalSupply.Equal(dec("7")) {
		t.Fatalf("TotalSupply = %s, want 7", pair.TotalSupply)
	}
}

func TestTransferTwoStepBurn(t *testing.T) {
	eng, st := newTestEngine(t)

	pair, _ := st.Pair(testPairAddr)
	pair.TotalSupply = dec("10")
	st.SavePair(pair)

	// pre-stage: holder sends shares back to the pair
	if err := eng.Apply(context.Background(), transferRecord(testUser, testPairAddr, "4000000000000000000", 0)); err != nil {
		t.Fatalf("apply pre-stage: %v", err)
	}

	tx, _ := st.Transaction("0xtx1")
	if len(tx.Burns) != 1 {
		t.Fatalf("burn sequence length = %d, want 1", len(tx.Burns))
	}
	burn, _ := st.Burn(tx.Burns[0])
	if !burn.PendingCompletion {
		t.Fatalf("pre-stage burn not pending")
	}
	if burn.Sender != testUser || !burn.Liquidity.Equal(dec("4")) {
		t.Fatalf("pre-stage burn = %+v", burn)
	}

	// completion: the pair sends the shares to the zero address
	if err := eng.Apply(context.Background(), transferRecord(testPairAddr, ZeroAddress, "4000000000000000000", 1)); err != nil {
		t.Fatalf("apply completion: %v", err)
	}

	tx, _ = st.Transaction("0xtx1")
	if len(tx.Burns) != 1 {
		t.Fatalf("completion appended a duplicate burn: %v", tx.Burns)
	}
	burn, _ = st.Burn(tx.Burns[0])
	if burn.PendingCompletion {
		t.Fatalf("completion left the burn pending")
	}
	if burn.Sender != testUser {
		t.Fatalf("completion lost the pre-stage sender: %+v", burn)
	}

	pair, _ = st.Pair(testPairAddr)
	if !pair.TotalSupply.Equal(dec("6")) {
		t.Fatalf("TotalSupply = %s, want 6", pair.TotalSupply)
	}
}

func TestTransferSingleStepBurnWithoutPreStage(t *testing.T) {
	eng, st := newTestEngine(t)

	pair, _ := st.Pair(testPairAddr)
	pair.TotalSupply = dec("10")
	st.SavePair(pair)

	if err := eng.Apply(context.Background(), transferRecord(testPairAddr, ZeroAddress, "3000000000000000000", 0)); err != nil {
		t.Fatalf("apply completion: %v", err)
	}

	tx, _ := st.Transaction("0xtx1")
	if len(tx.Burns) != 1 {
		t.Fatalf("burn sequence length = %d, want 1", len(tx.Burns))
	}
	burn, _ := st.Burn(tx.Burns[0])
	if burn.PendingCompletion {
		t.Fatalf("fresh completion burn marked pending")
	}
	if !burn.Liquidity.Equal(dec("3")) {
		t.Fatalf("burn liquidity = %s, want 3", burn.Liquidity)
	}
}

func TestTransferFeeMintFoldedIntoBurn(t *testing.T) {
	eng, st := newTestEngine(t)

	pair, _ := st.Pair(testPairAddr)
	pair.TotalSupply = dec("100")
	st.SavePair(pair)

	feeTo := "0x00000000000000000000000000000000000000fe"

	// protocol fee shares minted atomically with the withdrawal; no Mint log
	// ever arrives for them
	if err := eng.Apply(context.Background(), transferRecord(ZeroAddress, feeTo, "1000000000000000000", 0)); err != nil {
		t.Fatalf("apply fee mint transfer: %v", err)
	}
	if err := eng.Apply(context.Background(), transferRecord(testUser, testPairAddr, "8000000000000000000", 1)); err != nil {
		t.Fatalf("apply pre-stage: %v", err)
	}
	if err := eng.Apply(context.Background(), transferRecord(testPairAddr, ZeroAddress, "8000000000000000000", 2)); err != nil {
		t.Fatalf("apply completion: %v", err)
	}

	tx, _ := st.Transaction("0xtx1")
	if len(tx.Mints) != 0 {
		t.Fatalf("fee mint not removed from sequence: %v", tx.Mints)
	}
	if len(tx.Burns) != 1 {
		t.Fatalf("burn sequence length = %d, want 1", len(tx.Burns))
	}

	burn, _ := st.Burn(tx.Burns[0])
	if burn.FeeTo != feeTo {
		t.Fatalf("FeeTo = %q, want %q", burn.FeeTo, feeTo)
	}
	if burn.FeeLiquidity == nil || !burn.FeeLiquidity.Equal(dec("1")) {
		t.Fatalf("FeeLiquidity = %v, want 1", burn.FeeLiquidity)
	}
	if _, ok := st.Mint("0xtx1-0"); ok {
		t.Fatalf("folded fee mint still in store")
	}
}

func TestTransferRefreshesHolderPositions(t *testing.T) {
	eng, st := newTestEngine(t)

	other := "0x00000000000000000000000000000000000000dd"
	eng.balances = &stubBalances{balances: map[string]*big.Int{
		testPairAddr + ":" + testUser: big.NewInt(2e18),
		testPairAddr + ":" + other:    big.NewInt(3e18),
	}}

	if err := eng.Apply(context.Background(), transferRecord(testUser, other, "3000000000000000000", 0)); err != nil {
		t.Fatalf("apply transfer: %v", err)
	}

	fromPos, ok := st.Position(model.PositionID(testPairAddr, testUser))
	if !ok {
		t.Fatalf("sender position missing")
	}
	if !fromPos.LiquidityTokenBalance.Equal(dec("2")) {
		t.Fatalf("sender balance = %s, want 2", fromPos.LiquidityTokenBalance)
	}

	toPos, ok := st.Position(model.PositionID(testPairAddr, other))
	if !ok {
		t.Fatalf("receiver position missing")
	}
	if !toPos.LiquidityTokenBalance.Equal(dec("3")) {
		t.Fatalf("receiver balance = %s, want 3", toPos.LiquidityTokenBalance)
	}

	pair, _ := st.Pair(testPairAddr)
	if pair.LiquidityProviderCount != 2 {
		t.Fatalf("LiquidityProviderCount = %d, want 2", pair.LiquidityProviderCount)
	}

	if _, ok := st.Snapshot(fromPos.ID + "-1620000000"); !ok {
		t.Fatalf("sender snapshot missing")
	}
}

func TestTransferBalanceLookupFailureSkipsPosition(t *testing.T) {
	eng, st := newTestEngine(t)

	eng.balances = &stubBalances{err: context.DeadlineExceeded}

	if err := eng.Apply(context.Background(), transferRecord(testUser, "0x00000000000000000000000000000000000000dd", "1000000000000000000", 0)); err != nil {
		t.Fatalf("apply transfer: %v", err)
	}

	if _, ok := st.Position(model.PositionID(testPairAddr, testUser)); ok {
		t.Fatalf("position created despite balance lookup failure")
	}
	pair, _ := st.Pair(testPairAddr)
	if pair.LiquidityProviderCount != 0 {
		t.Fatalf("provider count incremented despite lookup failure")
	}
}
