package dex

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"pairscope/internal/chain"
)

// Bridge performs the read-only view calls the engine needs: factory getPair
// lookups and LP-share balanceOf queries. Pair lookups are cached; the
// factory mapping is immutable once a pair exists.
type Bridge struct {
	client  *chain.Client
	factory common.Address
	logger  *zap.Logger

	maxRetries int
	backoff    time.Duration

	mu        sync.RWMutex
	pairCache map[string]string
}

// NewBridge builds a Bridge against the given factory contract.
func NewBridge(client *chain.Client, factory string, maxRetries int, backoff time.Duration, logger *zap.Logger) (*Bridge, error) {
	if client == nil {
		return nil, fmt.Errorf("chain client is nil")
	}
	if !common.IsHexAddress(factory) {
		return nil, fmt.Errorf("invalid factory address: %s", factory)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		client:     client,
		factory:    common.HexToAddress(factory),
		logger:     logger,
		maxRetries: maxRetries,
		backoff:    backoff,
		pairCache:  make(map[string]string),
	}, nil
}

// PairFor resolves the pair address for a token pairing via the factory.
// The second return is false when the factory has no pair for the pairing.
func (b *Bridge) PairFor(ctx context.Context, tokenA, tokenB string) (string, bool, error) {
	if !common.IsHexAddress(tokenA) || !common.IsHexAddress(tokenB) {
		return "", false, fmt.Errorf("invalid token pairing: %s / %s", tokenA, tokenB)
	}

	key := pairCacheKey(tokenA, tokenB)
	b.mu.RLock()
	cached, ok := b.pairCache[key]
	b.mu.RUnlock()
	if ok {
		return cached, cached != "", nil
	}

	parsed, err := FactoryABI()
	if err != nil {
		return "", false, fmt.Errorf("parse factory abi: %w", err)
	}

	values, err := b.callWithRetry(ctx, b.factory, parsed, "getPair",
		common.HexToAddress(tokenA), common.HexToAddress(tokenB))
	if err != nil {
		return "", false, fmt.Errorf("getPair: %w", err)
	}
	pair, err := asAddress(values[0])
	if err != nil {
		return "", false, fmt.Errorf("getPair result: %w", err)
	}

	var result string
	if pair != (common.Address{}) {
		result = strings.ToLower(pair.Hex())
	}

	b.mu.Lock()
	b.pairCache[key] = result
	b.mu.Unlock()

	return result, result != "", nil
}

// LPBalance returns the holder's raw LP-share balance on the pair contract.
func (b *Bridge) LPBalance(ctx context.Context, pair, holder string) (*big.Int, error) {
	if !common.IsHexAddress(pair) {
		return nil, fmt.Errorf("invalid pair address: %s", pair)
	}
	if !common.IsHexAddress(holder) {
		return nil, fmt.Errorf("invalid holder address: %s", holder)
	}

	parsed, err := PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}

	values, err := b.callWithRetry(ctx, common.HexToAddress(pair), parsed, "balanceOf", common.HexToAddress(holder))
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	balance, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("balanceOf result: %w", err)
	}
	return balance, nil
}

func (b *Bridge) callWithRetry(ctx context.Context, target common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	var resp []byte
	msg := ethereum.CallMsg{To: &target, Data: data}
	err = withRetry(ctx, b.maxRetries, b.backoff, func(ctx context.Context) error {
		var callErr error
		resp, callErr = b.client.CallContract(ctx, msg, nil)
		if callErr != nil {
			b.logger.Warn("view call failed", zap.String("method", method), zap.String("target", target.Hex()), zap.Error(callErr))
		}
		return callErr
	})
	if err != nil {
		return nil, err
	}

	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func pairCacheKey(tokenA, tokenB string) string {
	a := strings.ToLower(tokenA)
	b := strings.ToLower(tokenB)
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

func asAddress(value interface{}) (common.Address, error) {
	addr, ok := value.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected type %T", value)
	}
	return addr, nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	n, ok := value.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected type %T", value)
	}
	return n, nil
}
