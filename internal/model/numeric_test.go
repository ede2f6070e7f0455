package model

import (
	"math/big"
	"testing"
)

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("123456789012345678901234567890")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if got.Cmp(want) != 0 {
		t.Fatalf("parsed = %s, want %s", got, want)
	}
}

func TestParseAmountEmptyIsZero(t *testing.T) {
	got, err := ParseAmount("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Sign() != 0 {
		t.Fatalf("parsed = %s, want 0", got)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	if _, err := ParseAmount("0x10"); err == nil {
		t.Fatalf("expected error for hex input")
	}
	if _, err := ParseAmount("12.5"); err == nil {
		t.Fatalf("expected error for fractional input")
	}
}

func TestScaleToDecimal(t *testing.T) {
	raw, _ := new(big.Int).SetString("1500000000000000000", 10)
	got := ScaleToDecimal(raw, 18)
	if got.String() != "1.5" {
		t.Fatalf("scaled = %s, want 1.5", got)
	}

	got = ScaleToDecimal(big.NewInt(2500000), 6)
	if got.String() != "2.5" {
		t.Fatalf("scaled = %s, want 2.5", got)
	}

	got = ScaleToDecimal(nil, 18)
	if !got.IsZero() {
		t.Fatalf("scaled nil = %s, want 0", got)
	}
}

func TestMintEventComplete(t *testing.T) {
	mint := &MintEvent{ID: "0xtx-0"}
	if mint.Complete() {
		t.Fatalf("mint without sender reported complete")
	}
	mint.Sender = "0xabc"
	if !mint.Complete() {
		t.Fatalf("mint with sender reported incomplete")
	}
}

func TestPositionID(t *testing.T) {
	if got := PositionID("0xpair", "0xholder"); got != "0xpair-0xholder" {
		t.Fatalf("position id = %q", got)
	}
}
