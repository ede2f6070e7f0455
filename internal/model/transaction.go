package model

// Transaction groups the logical events reconstructed from one chain
// transaction. The id slices are append-only except for the fee-mint folding
// case, which removes the most recently appended mint id.
type Transaction struct {
	ID          string // tx hash
	BlockNumber uint64
	Timestamp   uint64
	Mints       []string
	Burns       []string
	Swaps       []string
}
