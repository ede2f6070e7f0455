package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pairscope/internal/model"
)

func TestLoadReturnsIndependentCopy(t *testing.T) {
	st := NewMemory()
	st.SavePair(&model.Pair{ID: "0xp", Token0: "0xa", Token1: "0xb"})

	pair, ok := st.Pair("0xp")
	require.True(t, ok)

	// mutate without saving: the store must not see it
	pair.TxCount = 99
	pair.Reserve0 = decimal.NewFromInt(5)

	reloaded, ok := st.Pair("0xp")
	require.True(t, ok)
	require.EqualValues(t, 0, reloaded.TxCount)
	require.True(t, reloaded.Reserve0.IsZero())
}

func TestSavePersistsMutation(t *testing.T) {
	st := NewMemory()
	st.SaveToken(&model.Token{ID: "0xa", Decimals: 18})

	token, ok := st.Token("0xa")
	require.True(t, ok)
	token.TxCount = 3
	st.SaveToken(token)

	reloaded, _ := st.Token("0xa")
	require.EqualValues(t, 3, reloaded.TxCount)
}

func TestSaveCopiesInput(t *testing.T) {
	st := NewMemory()

	factory := &model.Factory{ID: "0xf"}
	st.SaveFactory(factory)

	// changing the caller's struct after saving must not leak into the store
	factory.TxCount = 7

	reloaded, ok := st.Factory("0xf")
	require.True(t, ok)
	require.EqualValues(t, 0, reloaded.TxCount)
}

func TestMissingEntityReportsAbsent(t *testing.T) {
	st := NewMemory()

	_, ok := st.Pair("0xmissing")
	require.False(t, ok)
	_, ok = st.Transaction("0xmissing")
	require.False(t, ok)
	_, ok = st.Bundle("0xmissing")
	require.False(t, ok)
}

func TestTransactionSequencesCloned(t *testing.T) {
	st := NewMemory()
	st.SaveTransaction(&model.Transaction{
		ID:    "0xtx",
		Mints: []string{"0xtx-0"},
		Burns: []string{},
		Swaps: []string{},
	})

	tx, ok := st.Transaction("0xtx")
	require.True(t, ok)

	// appending to the loaded slice must not alias the stored one
	tx.Mints = append(tx.Mints, "0xtx-1")

	reloaded, _ := st.Transaction("0xtx")
	require.Equal(t, []string{"0xtx-0"}, reloaded.Mints)
}

func TestRemoveMint(t *testing.T) {
	st := NewMemory()
	st.SaveMint(&model.MintEvent{ID: "0xtx-0", Pair: "0xp"})

	_, ok := st.Mint("0xtx-0")
	require.True(t, ok)

	st.RemoveMint("0xtx-0")
	_, ok = st.Mint("0xtx-0")
	require.False(t, ok)

	// removing an absent id is a no-op
	st.RemoveMint("0xtx-0")
}

func TestSortedIterationOrder(t *testing.T) {
	st := NewMemory()
	st.SavePair(&model.Pair{ID: "0xc"})
	st.SavePair(&model.Pair{ID: "0xa"})
	st.SavePair(&model.Pair{ID: "0xb"})

	pairs := st.Pairs()
	require.Len(t, pairs, 3)
	require.Equal(t, "0xa", pairs[0].ID)
	require.Equal(t, "0xb", pairs[1].ID)
	require.Equal(t, "0xc", pairs[2].ID)
}

func TestRollupAccessors(t *testing.T) {
	st := NewMemory()
	st.SavePairDayData(&model.PairDayData{ID: "0xp-19000", PairAddress: "0xp", DailyTxns: 2})
	st.SavePairHourData(&model.PairHourData{ID: "0xp-456000", PairAddress: "0xp"})
	st.SaveTokenDayData(&model.TokenDayData{ID: "0xa-19000", Token: "0xa"})
	st.SaveFactoryDayData(&model.FactoryDayData{ID: "19000"})

	day, ok := st.PairDayData("0xp-19000")
	require.True(t, ok)
	require.EqualValues(t, 2, day.DailyTxns)

	require.Len(t, st.PairDayDatas(), 1)
	require.Len(t, st.PairHourDatas(), 1)
	require.Len(t, st.TokenDayDatas(), 1)
	require.Len(t, st.FactoryDayDatas(), 1)
}
