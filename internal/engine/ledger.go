package engine

import (
	"fmt"

	"pairscope/internal/model"
	"pairscope/internal/store"
)

// TxLedger groups logical events by transaction hash and keeps their ordered
// id sequences.
type TxLedger struct {
	store *store.Memory
}

func NewTxLedger(st *store.Memory) *TxLedger {
	return &TxLedger{store: st}
}

// GetOrCreate loads the transaction for a hash, creating it with empty
// sequences on first sight. Idempotent.
func (l *TxLedger) GetOrCreate(txHash string, blockNumber, timestamp uint64) *model.Transaction {
	if tx, ok := l.store.Transaction(txHash); ok {
		return tx
	}
	tx := &model.Transaction{
		ID:          txHash,
		BlockNumber: blockNumber,
		Timestamp:   timestamp,
		Mints:       []string{},
		Burns:       []string{},
		Swaps:       []string{},
	}
	l.store.SaveTransaction(tx)
	return tx
}

// AppendMint appends a mint id to the transaction sequence and persists.
func (l *TxLedger) AppendMint(tx *model.Transaction, id string) {
	tx.Mints = append(tx.Mints, id)
	l.store.SaveTransaction(tx)
}

// AppendBurn appends a burn id to the transaction sequence and persists.
func (l *TxLedger) AppendBurn(tx *model.Transaction, id string) {
	tx.Burns = append(tx.Burns, id)
	l.store.SaveTransaction(tx)
}

// AppendSwap appends a swap id to the transaction sequence and persists.
func (l *TxLedger) AppendSwap(tx *model.Transaction, id string) {
	tx.Swaps = append(tx.Swaps, id)
	l.store.SaveTransaction(tx)
}

// PopLastMint removes the most recently appended mint id. Only the fee-mint
// folding rule uses this.
func (l *TxLedger) PopLastMint(tx *model.Transaction) {
	if len(tx.Mints) == 0 {
		return
	}
	tx.Mints = tx.Mints[:len(tx.Mints)-1]
	l.store.SaveTransaction(tx)
}

// eventID builds a logical event id from the transaction hash and the
// sequence index within the transaction.
func eventID(txHash string, index int) string {
	return fmt.Sprintf("%s-%d", txHash, index)
}
