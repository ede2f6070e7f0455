package model

import "github.com/shopspring/decimal"

// Logical Mint/Burn/Swap records are derived from raw log records, not stored
// per log. Their ids are "{txHash}-{sequenceIndex}" within the transaction.

// MintEvent is a reconciled liquidity deposit. Sender stays empty until the
// Mint log handler completes the record; an empty Sender marks the mint as
// incomplete.
type MintEvent struct {
	ID        string
	Pair      string
	To        string
	Liquidity decimal.Decimal
	Sender    string
	Amount0   decimal.Decimal
	Amount1   decimal.Decimal
	AmountUSD decimal.Decimal
	LogIndex  uint64
	Timestamp uint64
}

// Complete reports whether the Mint log handler has populated the record.
func (m *MintEvent) Complete() bool {
	return m.Sender != ""
}

// BurnEvent is a reconciled liquidity withdrawal. PendingCompletion is true
// between the transfer-to-pair pre-stage and the burn-to-zero transfer.
// FeeTo/FeeLiquidity are set when a protocol fee mint was folded into this
// burn.
type BurnEvent struct {
	ID                string
	Pair              string
	Sender            string
	To                string
	Liquidity         decimal.Decimal
	Amount0           decimal.Decimal
	Amount1           decimal.Decimal
	AmountUSD         decimal.Decimal
	PendingCompletion bool
	FeeTo             string
	FeeLiquidity      *decimal.Decimal
	LogIndex          uint64
	Timestamp         uint64
}

// SwapEvent is a derived swap record with both legs' in/out amounts.
type SwapEvent struct {
	ID         string
	Pair       string
	Sender     string
	To         string
	Amount0In  decimal.Decimal
	Amount1In  decimal.Decimal
	Amount0Out decimal.Decimal
	Amount1Out decimal.Decimal
	AmountUSD  decimal.Decimal
	LogIndex   uint64
	Timestamp  uint64
}
