package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pumpScope/internal/config"
	"pumpScope/internal/enrich"
	"pumpScope/internal/filter"
	"pumpScope/internal/pipeline"
	"pumpScope/internal/risk"
	"pumpScope/internal/social"
	"pumpScope/internal/storage"
	"pumpScope/internal/storage/postgres"
	"pumpScope/internal/stream"
)

func main() {
	root := &cobra.Command{
		Use:          "scraper",
		Short:        "Pump.fun token event scraper",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scraper",
		RunE:  runScraper,
	}

	runCmd.Flags().String("ws-url", config.DefaultWSURL, "event stream websocket URL")
	runCmd.Flags().String("out", config.DefaultOut, "output CSV path")
	runCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for a secondary sink")
	runCmd.Flags().Float64("min-initial-buy", 1000, "minimum initial buy for enrichment")
	runCmd.Flags().Float64("min-sol-amount", 0.01, "minimum SOL amount for enrichment")
	runCmd.Flags().Float64("min-market-cap", 30, "minimum market cap (SOL) for enrichment")
	runCmd.Flags().Int64("min-reach", 30000, "follower count considered notable")
	runCmd.Flags().StringSlice("blacklist", nil, "blacklisted social handles (comma-separated)")
	runCmd.Flags().String("reach-api-url", config.DefaultReachAPIURL, "reach API base URL")
	runCmd.Flags().String("reach-api-key", "", "reach API key")
	runCmd.Flags().String("risk-api-url", config.DefaultRiskAPIURL, "risk API base URL")
	runCmd.Flags().Float64("max-risk-score", 500, "highest risk score still considered acceptable")
	runCmd.Flags().Int("enrich-concurrency", 4, "max in-flight enrichments")
	runCmd.Flags().Duration("http-timeout", 10*time.Second, "timeout per external lookup")
	runCmd.Flags().Duration("shutdown-grace", 5*time.Second, "wait for in-flight enrichment on shutdown")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScraper(cmd *cobra.Command, _ []string) error {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := stream.Dial(ctx, cfg.WSURL)
	if err != nil {
		return err
	}

	sink := storage.Storage(storage.NewCSVStorage(cfg.Out))
	if cfg.PGDSN != "" {
		pgStore, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		sink = storage.Multi{sink, pgStore}
	}
	defer sink.Close()

	socialClient := social.NewClient(cfg.ReachAPIURL, cfg.ReachAPIKey, cfg.HTTPTimeout, logger)
	riskClient := risk.NewClient(cfg.RiskAPIURL, cfg.HTTPTimeout)
	enricher := enrich.New(socialClient, riskClient, cfg.Blacklist, logger)

	runner := pipeline.NewRunner(pipeline.RunConfig{
		Thresholds: filter.Thresholds{
			MinInitialBuy: cfg.MinInitialBuy,
			MinSolAmount:  cfg.MinSolAmount,
			MinMarketCap:  cfg.MinMarketCap,
		},
		MinReach:          cfg.MinReach,
		MaxRiskScore:      cfg.MaxRiskScore,
		EnrichConcurrency: cfg.EnrichConcurrency,
		ShutdownGrace:     cfg.ShutdownGrace,
	}, source, sink, enricher, logger)

	logger.Info("scraper start",
		zap.String("ws_url", cfg.WSURL),
		zap.String("out", cfg.Out),
		zap.Bool("pg_sink", cfg.PGDSN != ""),
		zap.Float64("min_initial_buy", cfg.MinInitialBuy),
		zap.Float64("min_sol_amount", cfg.MinSolAmount),
		zap.Float64("min_market_cap", cfg.MinMarketCap),
		zap.Int("enrich_concurrency", cfg.EnrichConcurrency),
	)

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("scraper stopped")
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
