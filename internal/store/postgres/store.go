package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pairscope/internal/model"
)

// Store provides Postgres persistence for derived entities and rollups.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertPairs inserts or updates derived pair state.
func (s *Store) UpsertPairs(ctx context.Context, pairs []model.Pair) error {
	if len(pairs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range pairs {
		batch.Queue(`
			INSERT INTO pairs (
				pair_address, token0, token1, reserve0, reserve1,
				token0_price, token1_price, total_supply,
				volume_token0, volume_token1, volume_usd, untracked_volume_usd,
				reserve_native, reserve_usd, tracked_reserve_native,
				tx_count, liquidity_provider_count, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,now(),now())
			ON CONFLICT (pair_address)
			DO UPDATE SET
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				token0_price = EXCLUDED.token0_price,
				token1_price = EXCLUDED.token1_price,
				total_supply = EXCLUDED.total_supply,
				volume_token0 = EXCLUDED.volume_token0,
				volume_token1 = EXCLUDED.volume_token1,
				volume_usd = EXCLUDED.volume_usd,
				untracked_volume_usd = EXCLUDED.untracked_volume_usd,
				reserve_native = EXCLUDED.reserve_native,
				reserve_usd = EXCLUDED.reserve_usd,
				tracked_reserve_native = EXCLUDED.tracked_reserve_native,
				tx_count = EXCLUDED.tx_count,
				liquidity_provider_count = EXCLUDED.liquidity_provider_count,
				updated_at = now()
		`,
			p.ID, p.Token0, p.Token1, p.Reserve0, p.Reserve1,
			p.Token0Price, p.Token1Price, p.TotalSupply,
			p.VolumeToken0, p.VolumeToken1, p.VolumeUSD, p.UntrackedVolumeUSD,
			p.ReserveNative, p.ReserveUSD, p.TrackedReserveNative,
			int64(p.TxCount), int64(p.LiquidityProviderCount),
		)
	}
	return s.sendBatch(ctx, batch, len(pairs))
}

// UpsertTokens inserts or updates derived token state.
func (s *Store) UpsertTokens(ctx context.Context, tokens []model.Token) error {
	if len(tokens) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, t := range tokens {
		batch.Queue(`
			INSERT INTO tokens (
				token_address, decimals, trade_volume, trade_volume_usd,
				untracked_volume_usd, total_liquidity, tx_count,
				derived_native, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now(),now())
			ON CONFLICT (token_address)
			DO UPDATE SET
				trade_volume = EXCLUDED.trade_volume,
				trade_volume_usd = EXCLUDED.trade_volume_usd,
				untracked_volume_usd = EXCLUDED.untracked_volume_usd,
				total_liquidity = EXCLUDED.total_liquidity,
				tx_count = EXCLUDED.tx_count,
				derived_native = EXCLUDED.derived_native,
				updated_at = now()
		`,
			t.ID, int16(t.Decimals), t.TradeVolume, t.TradeVolumeUSD,
			t.UntrackedVolumeUSD, t.TotalLiquidity, int64(t.TxCount),
			t.DerivedNative,
		)
	}
	return s.sendBatch(ctx, batch, len(tokens))
}

// UpsertPairDayData inserts or updates per-pair daily rollups.
func (s *Store) UpsertPairDayData(ctx context.Context, rows []model.PairDayData) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range rows {
		batch.Queue(`
			INSERT INTO pair_day_data (
				bucket_id, bucket_date, pair_address, token0, token1,
				reserve0, reserve1, total_supply, reserve_usd,
				daily_volume_token0, daily_volume_token1, daily_volume_usd,
				daily_txns, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now(),now())
			ON CONFLICT (bucket_id)
			DO UPDATE SET
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				total_supply = EXCLUDED.total_supply,
				reserve_usd = EXCLUDED.reserve_usd,
				daily_volume_token0 = EXCLUDED.daily_volume_token0,
				daily_volume_token1 = EXCLUDED.daily_volume_token1,
				daily_volume_usd = EXCLUDED.daily_volume_usd,
				daily_txns = EXCLUDED.daily_txns,
				updated_at = now()
		`,
			d.ID, int64(d.Date), d.PairAddress, d.Token0, d.Token1,
			d.Reserve0, d.Reserve1, d.TotalSupply, d.ReserveUSD,
			d.DailyVolumeToken0, d.DailyVolumeToken1, d.DailyVolumeUSD,
			int64(d.DailyTxns),
		)
	}
	return s.sendBatch(ctx, batch, len(rows))
}

// UpsertPairHourData inserts or updates per-pair hourly rollups.
func (s *Store) UpsertPairHourData(ctx context.Context, rows []model.PairHourData) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range rows {
		batch.Queue(`
			INSERT INTO pair_hour_data (
				bucket_id, hour_start, pair_address,
				reserve0, reserve1, reserve_usd,
				hourly_volume_token0, hourly_volume_token1, hourly_volume_usd,
				hourly_txns, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now(),now())
			ON CONFLICT (bucket_id)
			DO UPDATE SET
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				reserve_usd = EXCLUDED.reserve_usd,
				hourly_volume_token0 = EXCLUDED.hourly_volume_token0,
				hourly_volume_token1 = EXCLUDED.hourly_volume_token1,
				hourly_volume_usd = EXCLUDED.hourly_volume_usd,
				hourly_txns = EXCLUDED.hourly_txns,
				updated_at = now()
		`,
			d.ID, int64(d.HourStart), d.PairAddress,
			d.Reserve0, d.Reserve1, d.ReserveUSD,
			d.HourlyVolumeToken0, d.HourlyVolumeToken1, d.HourlyVolumeUSD,
			int64(d.HourlyTxns),
		)
	}
	return s.sendBatch(ctx, batch, len(rows))
}

// UpsertTokenDayData inserts or updates per-token daily rollups.
func (s *Store) UpsertTokenDayData(ctx context.Context, rows []model.TokenDayData) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range rows {
		batch.Queue(`
			INSERT INTO token_day_data (
				bucket_id, bucket_date, token_address,
				daily_volume_token, daily_volume_native, daily_volume_usd,
				total_liquidity_token, total_liquidity_native, total_liquidity_usd,
				price_usd, daily_txns, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now(),now())
			ON CONFLICT (bucket_id)
			DO UPDATE SET
				daily_volume_token = EXCLUDED.daily_volume_token,
				daily_volume_native = EXCLUDED.daily_volume_native,
				daily_volume_usd = EXCLUDED.daily_volume_usd,
				total_liquidity_token = EXCLUDED.total_liquidity_token,
				total_liquidity_native = EXCLUDED.total_liquidity_native,
				total_liquidity_usd = EXCLUDED.total_liquidity_usd,
				price_usd = EXCLUDED.price_usd,
				daily_txns = EXCLUDED.daily_txns,
				updated_at = now()
		`,
			d.ID, int64(d.Date), d.Token,
			d.DailyVolumeToken, d.DailyVolumeNative, d.DailyVolumeUSD,
			d.TotalLiquidityToken, d.TotalLiquidityNative, d.TotalLiquidityUSD,
			d.PriceUSD, int64(d.DailyTxns),
		)
	}
	return s.sendBatch(ctx, batch, len(rows))
}

// UpsertFactoryDayData inserts or updates protocol daily rollups.
func (s *Store) UpsertFactoryDayData(ctx context.Context, rows []model.FactoryDayData) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, d := range rows {
		batch.Queue(`
			INSERT INTO factory_day_data (
				bucket_id, bucket_date,
				daily_volume_native, daily_volume_usd, daily_volume_untracked,
				total_volume_native, total_volume_usd,
				total_liquidity_native, total_liquidity_usd,
				tx_count, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,now(),now())
			ON CONFLICT (bucket_id)
			DO UPDATE SET
				daily_volume_native = EXCLUDED.daily_volume_native,
				daily_volume_usd = EXCLUDED.daily_volume_usd,
				daily_volume_untracked = EXCLUDED.daily_volume_untracked,
				total_volume_native = EXCLUDED.total_volume_native,
				total_volume_usd = EXCLUDED.total_volume_usd,
				total_liquidity_native = EXCLUDED.total_liquidity_native,
				total_liquidity_usd = EXCLUDED.total_liquidity_usd,
				tx_count = EXCLUDED.tx_count,
				updated_at = now()
		`,
			d.ID, int64(d.Date),
			d.DailyVolumeNative, d.DailyVolumeUSD, d.DailyVolumeUntracked,
			d.TotalVolumeNative, d.TotalVolumeUSD,
			d.TotalLiquidityNative, d.TotalLiquidityUSD,
			int64(d.TxCount),
		)
	}
	return s.sendBatch(ctx, batch, len(rows))
}

// LoadState returns last_processed_block for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var block uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_block FROM derive_state WHERE name=$1`, name)
	if err := row.Scan(&block); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return block, true, nil
}

// SaveState upserts last_processed_block for a name.
func (s *Store) SaveState(ctx context.Context, name string, block uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO derive_state (name, last_processed_block, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_block = EXCLUDED.last_processed_block, updated_at = now()
	`, name, block)
	return err
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch, count int) error {
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < count; i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
