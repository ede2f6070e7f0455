package engine

import (
	"testing"

	"pairscope/internal/store"
)

func TestLedgerGetOrCreateIdempotent(t *testing.T) {
	st := store.NewMemory()
	l := NewTxLedger(st)

	tx := l.GetOrCreate("0xtx1", 100, 1620000000)
	if tx.BlockNumber != 100 || tx.Timestamp != 1620000000 {
		t.Fatalf("transaction = %+v", tx)
	}
	if tx.Mints == nil || tx.Burns == nil || tx.Swaps == nil {
		t.Fatalf("sequences not initialized: %+v", tx)
	}

	l.AppendMint(tx, "0xtx1-0")

	again := l.GetOrCreate("0xtx1", 999, 999)
	if again.BlockNumber != 100 {
		t.Fatalf("second lookup rebuilt the transaction: %+v", again)
	}
	if len(again.Mints) != 1 || again.Mints[0] != "0xtx1-0" {
		t.Fatalf("mint sequence lost: %+v", again.Mints)
	}
}

func TestLedgerAppendPreservesOrder(t *testing.T) {
	st := store.NewMemory()
	l := NewTxLedger(st)

	tx := l.GetOrCreate("0xtx1", 1, 1)
	l.AppendMint(tx, "0xtx1-0")
	l.AppendMint(tx, "0xtx1-1")
	l.AppendBurn(tx, "0xtx1-0")
	l.AppendSwap(tx, "0xtx1-0")

	stored, _ := st.Transaction("0xtx1")
	if len(stored.Mints) != 2 || stored.Mints[0] != "0xtx1-0" || stored.Mints[1] != "0xtx1-1" {
		t.Fatalf("mints = %v", stored.Mints)
	}
	if len(stored.Burns) != 1 || len(stored.Swaps) != 1 {
		t.Fatalf("burns/swaps = %v/%v", stored.Burns, stored.Swaps)
	}
}

func TestLedgerPopLastMint(t *testing.T) {
	st := store.NewMemory()
	l := NewTxLedger(st)

	tx := l.GetOrCreate("0xtx1", 1, 1)
	l.AppendMint(tx, "0xtx1-0")
	l.AppendMint(tx, "0xtx1-1")
	l.PopLastMint(tx)

	stored, _ := st.Transaction("0xtx1")
	if len(stored.Mints) != 1 || stored.Mints[0] != "0xtx1-0" {
		t.Fatalf("mints after pop = %v", stored.Mints)
	}

	l.PopLastMint(tx)
	l.PopLastMint(tx) // empty pop is a no-op

	stored, _ = st.Transaction("0xtx1")
	if len(stored.Mints) != 0 {
		t.Fatalf("mints after draining = %v", stored.Mints)
	}
}

func TestEventID(t *testing.T) {
	if got := eventID("0xabc", 0); got != "0xabc-0" {
		t.Fatalf("eventID = %q", got)
	}
	if got := eventID("0xabc", 3); got != "0xabc-3" {
		t.Fatalf("eventID = %q", got)
	}
}
