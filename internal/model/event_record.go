package model

// EventKind discriminates decoded pair event payloads.
type EventKind string

const (
	EventTransfer EventKind = "transfer"
	EventSync     EventKind = "sync"
	EventMint     EventKind = "mint"
	EventBurn     EventKind = "burn"
	EventSwap     EventKind = "swap"
)

// EventRecord is the decoded pair event the engine consumes. Records must be
// delivered in strict (block number, log index) order. Raw amounts are decimal
// integer strings so arbitrary-precision values survive JSON.
type EventRecord struct {
	BlockNumber uint64    `json:"block_number"`
	Timestamp   uint64    `json:"timestamp"`
	TxHash      string    `json:"tx_hash"`
	LogIndex    uint64    `json:"log_index"`
	Address     string    `json:"address"`
	Kind        EventKind `json:"kind"`

	Transfer *TransferData `json:"transfer,omitempty"`
	Sync     *SyncData     `json:"sync,omitempty"`
	Mint     *MintData     `json:"mint,omitempty"`
	Burn     *BurnData     `json:"burn,omitempty"`
	Swap     *SwapData     `json:"swap,omitempty"`
}

// TransferData is a decoded LP-share Transfer payload.
type TransferData struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
}

// SyncData carries the post-event pool reserves.
type SyncData struct {
	Reserve0 string `json:"reserve0"`
	Reserve1 string `json:"reserve1"`
}

// MintData is a decoded Mint log payload.
type MintData struct {
	Sender  string `json:"sender"`
	Amount0 string `json:"amount0"`
	Amount1 string `json:"amount1"`
}

// BurnData is a decoded Burn log payload.
type BurnData struct {
	Sender  string `json:"sender"`
	Amount0 string `json:"amount0"`
	Amount1 string `json:"amount1"`
	To      string `json:"to"`
}

// SwapData is a decoded Swap log payload.
type SwapData struct {
	Sender     string `json:"sender"`
	To         string `json:"to"`
	Amount0In  string `json:"amount0_in"`
	Amount1In  string `json:"amount1_in"`
	Amount0Out string `json:"amount0_out"`
	Amount1Out string `json:"amount1_out"`
}
