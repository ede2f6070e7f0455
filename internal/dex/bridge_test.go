package dex

import "testing"

func TestNewBridgeRejectsBadInputs(t *testing.T) {
	if _, err := NewBridge(nil, "0x152ee697f2e276fa89e96742e9bb9ab1f2e61be3", 3, 0, nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestPairCacheKeyIsOrderIndependent(t *testing.T) {
	a := "0xAAAA000000000000000000000000000000000001"
	b := "0xbbbb000000000000000000000000000000000002"

	k1 := pairCacheKey(a, b)
	k2 := pairCacheKey(b, a)
	if k1 != k2 {
		t.Fatalf("cache keys differ: %q != %q", k1, k2)
	}
	if k1 != "0xaaaa000000000000000000000000000000000001:0xbbbb000000000000000000000000000000000002" {
		t.Fatalf("cache key = %q", k1)
	}
}
