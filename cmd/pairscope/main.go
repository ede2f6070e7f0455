package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pairscope/internal/chain"
	"pairscope/internal/config"
	"pairscope/internal/dex"
	"pairscope/internal/engine"
	"pairscope/internal/source"
	"pairscope/internal/store"
	"pairscope/internal/store/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "pairscope",
		Short:        "AMM pair state derivation engine",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive pair/token state from a decoded event stream",
		RunE:  runDerive,
	}

	deriveCmd.Flags().String("rpc", "", "chain RPC URL (factory and balance view calls)")
	deriveCmd.Flags().String("in", "", "input decoded events JSONL")
	deriveCmd.Flags().String("pairs", "", "pair registry JSONL used to seed pairs and tokens")
	deriveCmd.Flags().String("pg-dsn", "", "Postgres DSN for exporting derived state (optional)")
	deriveCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	deriveCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	deriveCmd.Flags().String("factory", config.DefaultFactoryAddress, "factory contract address")
	deriveCmd.Flags().String("reference-token", config.DefaultReferenceToken, "wrapped native token address")
	deriveCmd.Flags().StringSlice("whitelist", config.DefaultWhitelist, "pricing whitelist, priority order")
	deriveCmd.Flags().String("usdc-native-pair", config.DefaultUSDCNativePair, "USDC/native pair (stablecoin is token0)")
	deriveCmd.Flags().String("dai-native-pair", config.DefaultDAINativePair, "DAI/native pair (stablecoin is token1)")
	deriveCmd.Flags().Int("max-retries", 5, "maximum view-call retry attempts")
	deriveCmd.Flags().Duration("retry-backoff", 0, "initial view-call retry backoff")
	deriveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(deriveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDerive(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	chainID, err := chainClient.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("query chain id: %w", err)
	}
	logger.Info("connected", zap.String("chain_id", chainID.String()))

	bridge, err := dex.NewBridge(chainClient, cfg.FactoryAddress, cfg.MaxRetries, cfg.RetryBackoff, logger)
	if err != nil {
		return err
	}

	st := store.NewMemory()
	eng := engine.New(engine.Config{
		FactoryAddress: cfg.FactoryAddress,
		ReferenceToken: cfg.ReferenceToken,
		Whitelist:      cfg.Whitelist,
		USDCNativePair: cfg.USDCNativePair,
		DAINativePair:  cfg.DAINativePair,
	}, st, bridge, bridge, logger)
	eng.EnsureGenesis()

	if cfg.Pairs != "" {
		seeded, err := source.SeedPairs(cfg.Pairs, st, logger)
		if err != nil {
			return fmt.Errorf("seed pairs: %w", err)
		}
		if factory, ok := st.Factory(strings.ToLower(cfg.FactoryAddress)); ok {
			factory.PairCount += uint64(seeded)
			st.SaveFactory(factory)
		}
		logger.Info("pairs seeded", zap.Int("count", seeded))
	}

	events, err := source.OpenJSONL(cfg.Input)
	if err != nil {
		return err
	}
	defer events.Close()

	runner := engine.NewRunner(engine.RunConfig{
		CheckpointPath:    cfg.Checkpoint,
		CheckpointEnabled: cfg.CheckpointEnabled,
	}, eng, logger)

	logger.Info("derive start",
		zap.String("input", cfg.Input),
		zap.String("factory", cfg.FactoryAddress),
		zap.Int("whitelist", len(cfg.Whitelist)),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
		zap.String("checkpoint", cfg.Checkpoint),
	)

	lastBlock, err := runner.Run(ctx, events)
	if err != nil {
		return err
	}

	if cfg.PGDSN != "" {
		if err := exportToPostgres(ctx, cfg.PGDSN, st, lastBlock, logger); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	return nil
}

func exportToPostgres(ctx context.Context, dsn string, st *store.Memory, lastBlock uint64, logger *zap.Logger) error {
	pg, err := postgres.NewStore(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if err := pg.UpsertPairs(ctx, st.Pairs()); err != nil {
		return err
	}
	if err := pg.UpsertTokens(ctx, st.Tokens()); err != nil {
		return err
	}
	if err := pg.UpsertPairDayData(ctx, st.PairDayDatas()); err != nil {
		return err
	}
	if err := pg.UpsertPairHourData(ctx, st.PairHourDatas()); err != nil {
		return err
	}
	if err := pg.UpsertTokenDayData(ctx, st.TokenDayDatas()); err != nil {
		return err
	}
	if err := pg.UpsertFactoryDayData(ctx, st.FactoryDayDatas()); err != nil {
		return err
	}
	if err := pg.SaveState(ctx, "derive", lastBlock); err != nil {
		return err
	}

	logger.Info("export complete",
		zap.Int("pairs", len(st.Pairs())),
		zap.Int("tokens", len(st.Tokens())),
		zap.Uint64("last_block", lastBlock),
	)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
