package engine

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"pairscope/internal/model"
	"pairscope/internal/store"
)

// ZeroAddress is the burn/mint sentinel address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// PairLookup resolves pair addresses through the factory contract.
type PairLookup interface {
	PairFor(ctx context.Context, tokenA, tokenB string) (string, bool, error)
}

// BalanceSource reads live LP-share balances from pair contracts.
type BalanceSource interface {
	LPBalance(ctx context.Context, pair, holder string) (*big.Int, error)
}

// Config holds the chain-specific constants the derivation engine needs.
// Whitelist order matters: price discovery scans it linearly and the first
// pairing wins.
type Config struct {
	FactoryAddress string
	ReferenceToken string
	Whitelist      []string

	// USDCNativePair has the stablecoin as token0, DAINativePair as token1.
	USDCNativePair string
	DAINativePair  string

	// MinimumLiquidity is the bootstrap burn amount the AMM mints to the zero
	// address on pair creation; transfers of exactly this amount to the zero
	// address are ignored.
	MinimumLiquidity *big.Int
}

func (c Config) normalized() Config {
	out := c
	out.FactoryAddress = strings.ToLower(c.FactoryAddress)
	out.ReferenceToken = strings.ToLower(c.ReferenceToken)
	out.USDCNativePair = strings.ToLower(c.USDCNativePair)
	out.DAINativePair = strings.ToLower(c.DAINativePair)
	out.Whitelist = make([]string, len(c.Whitelist))
	for i, addr := range c.Whitelist {
		out.Whitelist[i] = strings.ToLower(addr)
	}
	if out.MinimumLiquidity == nil {
		out.MinimumLiquidity = big.NewInt(1000)
	}
	return out
}

// Engine applies decoded pair events in order and derives the economic state.
// Processing is strictly single threaded; every handler is one serializable
// step.
type Engine struct {
	cfg      Config
	store    *store.Memory
	ledger   *TxLedger
	oracle   *PriceOracle
	volume   *Classifier
	buckets  *BucketAggregator
	balances BalanceSource
	logger   *zap.Logger
}

// New builds an Engine. pairs and balances may not be nil; logger may be.
func New(cfg Config, st *store.Memory, pairs PairLookup, balances BalanceSource, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.normalized()
	return &Engine{
		cfg:      cfg,
		store:    st,
		ledger:   NewTxLedger(st),
		oracle:   NewPriceOracle(cfg, st, pairs, logger),
		volume:   NewClassifier(cfg.Whitelist),
		buckets:  NewBucketAggregator(st),
		balances: balances,
		logger:   logger,
	}
}

// EnsureGenesis creates the protocol aggregate and the reference bundle if
// they are absent.
func (e *Engine) EnsureGenesis() {
	if _, ok := e.store.Factory(e.cfg.FactoryAddress); !ok {
		e.store.SaveFactory(&model.Factory{ID: e.cfg.FactoryAddress})
	}
	if _, ok := e.store.Bundle(model.BundleID); !ok {
		e.store.SaveBundle(&model.Bundle{ID: model.BundleID})
	}
}

// Apply processes one decoded event. It returns an error only for malformed
// records; missing prerequisite state skips the rest of the handler silently,
// leaving earlier saves in place.
func (e *Engine) Apply(ctx context.Context, rec model.EventRecord) error {
	switch rec.Kind {
	case model.EventTransfer:
		if rec.Transfer == nil {
			return fmt.Errorf("transfer event without payload: %s-%d", rec.TxHash, rec.LogIndex)
		}
		return e.handleTransfer(ctx, rec)
	case model.EventSync:
		if rec.Sync == nil {
			return fmt.Errorf("sync event without payload: %s-%d", rec.TxHash, rec.LogIndex)
		}
		return e.handleSync(ctx, rec)
	case model.EventMint:
		if rec.Mint == nil {
			return fmt.Errorf("mint event without payload: %s-%d", rec.TxHash, rec.LogIndex)
		}
		return e.handleMint(ctx, rec)
	case model.EventBurn:
		if rec.Burn == nil {
			return fmt.Errorf("burn event without payload: %s-%d", rec.TxHash, rec.LogIndex)
		}
		return e.handleBurn(ctx, rec)
	case model.EventSwap:
		if rec.Swap == nil {
			return fmt.Errorf("swap event without payload: %s-%d", rec.TxHash, rec.LogIndex)
		}
		return e.handleSwap(ctx, rec)
	default:
		return fmt.Errorf("unknown event kind: %q", rec.Kind)
	}
}

// pairTokens loads both sides of a pair, reporting false when either is
// missing.
func (e *Engine) pairTokens(pair *model.Pair) (*model.Token, *model.Token, bool) {
	token0, ok := e.store.Token(pair.Token0)
	if !ok {
		return nil, nil, false
	}
	token1, ok := e.store.Token(pair.Token1)
	if !ok {
		return nil, nil, false
	}
	return token0, token1, true
}
