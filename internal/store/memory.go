package store

import (
	"sort"

	"pairscope/internal/model"
)

// Memory is the entity store the engine runs against. Every accessor returns
// a copy and a presence flag; callers must branch on presence before use.
// Save persists a copy by id, so mutations made after a load only take effect
// through an explicit Save — mutations never saved are dropped, matching the
// skip-on-missing-prerequisite policy where earlier saves in a handler stay
// applied and later ones never happen. The engine is single threaded, so no
// locking is needed here.
type Memory struct {
	factories    map[string]model.Factory
	tokens       map[string]model.Token
	pairs        map[string]model.Pair
	bundles      map[string]model.Bundle
	transactions map[string]model.Transaction
	mints        map[string]model.MintEvent
	burns        map[string]model.BurnEvent
	swaps        map[string]model.SwapEvent
	positions    map[string]model.LiquidityPosition
	snapshots    map[string]model.LiquidityPositionSnapshot

	factoryDays map[string]model.FactoryDayData
	pairDays    map[string]model.PairDayData
	pairHours   map[string]model.PairHourData
	tokenDays   map[string]model.TokenDayData
}

func NewMemory() *Memory {
	return &Memory{
		factories:    make(map[string]model.Factory),
		tokens:       make(map[string]model.Token),
		pairs:        make(map[string]model.Pair),
		bundles:      make(map[string]model.Bundle),
		transactions: make(map[string]model.Transaction),
		mints:        make(map[string]model.MintEvent),
		burns:        make(map[string]model.BurnEvent),
		swaps:        make(map[string]model.SwapEvent),
		positions:    make(map[string]model.LiquidityPosition),
		snapshots:    make(map[string]model.LiquidityPositionSnapshot),
		factoryDays:  make(map[string]model.FactoryDayData),
		pairDays:     make(map[string]model.PairDayData),
		pairHours:    make(map[string]model.PairHourData),
		tokenDays:    make(map[string]model.TokenDayData),
	}
}

func (m *Memory) Factory(id string) (*model.Factory, bool) {
	f, ok := m.factories[id]
	if !ok {
		return nil, false
	}
	return &f, true
}

func (m *Memory) SaveFactory(f *model.Factory) { m.factories[f.ID] = *f }

func (m *Memory) Token(id string) (*model.Token, bool) {
	t, ok := m.tokens[id]
	if !ok {
		return nil, false
	}
	return &t, true
}

func (m *Memory) SaveToken(t *model.Token) { m.tokens[t.ID] = *t }

func (m *Memory) Pair(id string) (*model.Pair, bool) {
	p, ok := m.pairs[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (m *Memory) SavePair(p *model.Pair) { m.pairs[p.ID] = *p }

func (m *Memory) Bundle(id string) (*model.Bundle, bool) {
	b, ok := m.bundles[id]
	if !ok {
		return nil, false
	}
	return &b, true
}

func (m *Memory) SaveBundle(b *model.Bundle) { m.bundles[b.ID] = *b }

func (m *Memory) Transaction(id string) (*model.Transaction, bool) {
	t, ok := m.transactions[id]
	if !ok {
		return nil, false
	}
	copied := t
	copied.Mints = cloneIDs(t.Mints)
	copied.Burns = cloneIDs(t.Burns)
	copied.Swaps = cloneIDs(t.Swaps)
	return &copied, true
}

func (m *Memory) SaveTransaction(t *model.Transaction) {
	copied := *t
	copied.Mints = cloneIDs(t.Mints)
	copied.Burns = cloneIDs(t.Burns)
	copied.Swaps = cloneIDs(t.Swaps)
	m.transactions[t.ID] = copied
}

func (m *Memory) Mint(id string) (*model.MintEvent, bool) {
	e, ok := m.mints[id]
	if !ok {
		return nil, false
	}
	return &e, true
}

func (m *Memory) SaveMint(e *model.MintEvent) { m.mints[e.ID] = *e }

func (m *Memory) RemoveMint(id string) { delete(m.mints, id) }

func (m *Memory) Burn(id string) (*model.BurnEvent, bool) {
	e, ok := m.burns[id]
	if !ok {
		return nil, false
	}
	return &e, true
}

func (m *Memory) SaveBurn(e *model.BurnEvent) { m.burns[e.ID] = *e }

func (m *Memory) Swap(id string) (*model.SwapEvent, bool) {
	e, ok := m.swaps[id]
	if !ok {
		return nil, false
	}
	return &e, true
}

func (m *Memory) SaveSwap(e *model.SwapEvent) { m.swaps[e.ID] = *e }

func (m *Memory) Position(id string) (*model.LiquidityPosition, bool) {
	p, ok := m.positions[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (m *Memory) SavePosition(p *model.LiquidityPosition) { m.positions[p.ID] = *p }

func (m *Memory) Snapshot(id string) (*model.LiquidityPositionSnapshot, bool) {
	s, ok := m.snapshots[id]
	if !ok {
		return nil, false
	}
	return &s, true
}

func (m *Memory) SaveSnapshot(s *model.LiquidityPositionSnapshot) { m.snapshots[s.ID] = *s }

func (m *Memory) FactoryDayData(id string) (*model.FactoryDayData, bool) {
	d, ok := m.factoryDays[id]
	if !ok {
		return nil, false
	}
	return &d, true
}

func (m *Memory) SaveFactoryDayData(d *model.FactoryDayData) { m.factoryDays[d.ID] = *d }

func (m *Memory) PairDayData(id string) (*model.PairDayData, bool) {
	d, ok := m.pairDays[id]
	if !ok {
		return nil, false
	}
	return &d, true
}

func (m *Memory) SavePairDayData(d *model.PairDayData) { m.pairDays[d.ID] = *d }

func (m *Memory) PairHourData(id string) (*model.PairHourData, bool) {
	d, ok := m.pairHours[id]
	if !ok {
		return nil, false
	}
	return &d, true
}

func (m *Memory) SavePairHourData(d *model.PairHourData) { m.pairHours[d.ID] = *d }

func (m *Memory) TokenDayData(id string) (*model.TokenDayData, bool) {
	d, ok := m.tokenDays[id]
	if !ok {
		return nil, false
	}
	return &d, true
}

func (m *Memory) SaveTokenDayData(d *model.TokenDayData) { m.tokenDays[d.ID] = *d }

// Iteration helpers for the export path. Results are sorted by id so exports
// are deterministic.

func (m *Memory) Pairs() []model.Pair {
	return sortedValues(m.pairs, func(p model.Pair) string { return p.ID })
}

func (m *Memory) Tokens() []model.Token {
	return sortedValues(m.tokens, func(t model.Token) string { return t.ID })
}

func (m *Memory) FactoryDayDatas() []model.FactoryDayData {
	return sortedValues(m.factoryDays, func(d model.FactoryDayData) string { return d.ID })
}

func (m *Memory) PairDayDatas() []model.PairDayData {
	return sortedValues(m.pairDays, func(d model.PairDayData) string { return d.ID })
}

func (m *Memory) PairHourDatas() []model.PairHourData {
	return sortedValues(m.pairHours, func(d model.PairHourData) string { return d.ID })
}

func (m *Memory) TokenDayDatas() []model.TokenDayData {
	return sortedValues(m.tokenDays, func(d model.TokenDayData) string { return d.ID })
}

func sortedValues[T any](data map[string]T, id func(T) string) []T {
	out := make([]T, 0, len(data))
	for _, v := range data {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
