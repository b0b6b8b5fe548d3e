package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pumpScope/internal/enrich"
	"pumpScope/internal/filter"
	"pumpScope/internal/model"
	"pumpScope/internal/storage"
)

// Source is the inbound push subscription consumed by the runner.
type Source interface {
	Subscribe(ctx context.Context) error
	Next(ctx context.Context) ([]byte, error)
	Close() error
}

// Enricher augments records of interest with external data.
type Enricher interface {
	Enrich(ctx context.Context, rec model.TokenRecord) enrich.Result
}

// RunConfig holds runtime settings for the runner.
type RunConfig struct {
	Thresholds        filter.Thresholds
	MinReach          int64
	MaxRiskScore      float64
	EnrichConcurrency int
	ShutdownGrace     time.Duration
}

// Runner owns one streaming session: it subscribes, receives frames, persists
// every valid record in receive order, and hands records of interest to a
// bounded pool of enrichment workers.
type Runner struct {
	cfg      RunConfig
	source   Source
	storage  storage.Storage
	enricher Enricher
	logger   *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, source Source, storageSink storage.Storage, enricher Enricher, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.EnrichConcurrency <= 0 {
		cfg.EnrichConcurrency = 4
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 5 * time.Second
	}
	return &Runner{
		cfg:      cfg,
		source:   source,
		storage:  storageSink,
		enricher: enricher,
		logger:   logger,
	}
}

// Run executes one session: subscribe, receive until the context is
// cancelled or the transport fails, then release the transport. A failed
// append is fatal; enrichment failures never are. There is no reconnection.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("source is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.enricher == nil {
		return fmt.Errorf("enricher is nil")
	}
	defer r.source.Close()

	if err := r.source.Subscribe(ctx); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	r.logger.Info("subscribed to event stream")

	group, ctx := errgroup.WithContext(ctx)

	// Next blocks inside the transport; closing the source is what unblocks
	// it when the session ends.
	group.Go(func() error {
		<-ctx.Done()
		return r.source.Close()
	})

	group.Go(func() error {
		return r.receiveLoop(ctx)
	})

	return group.Wait()
}

func (r *Runner) receiveLoop(ctx context.Context) error {
	sem := make(chan struct{}, r.cfg.EnrichConcurrency)
	var inflight sync.WaitGroup
	defer r.drain(&inflight)

	for {
		payload, err := r.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("receive: %w", err)
		}

		var raw model.RawEvent
		if err := json.Unmarshal(payload, &raw); err != nil {
			r.logger.Warn("malformed frame discarded", zap.Error(err))
			continue
		}

		rec := model.Normalize(raw)
		if !rec.Valid() {
			r.logger.Debug("frame without signature discarded")
			continue
		}

		if err := r.storage.Append(ctx, rec); err != nil {
			return fmt.Errorf("append record %s: %w", rec.Signature, err)
		}

		if !r.cfg.Thresholds.OfInterest(rec) {
			r.logger.Debug("processed token",
				zap.String("name", rec.Name),
				zap.String("symbol", rec.Symbol),
				zap.String("tx_type", rec.TxType),
			)
			continue
		}

		r.logger.Info("highlighted token",
			zap.String("name", rec.Name),
			zap.String("symbol", rec.Symbol),
			zap.String("mint", rec.Mint),
			zap.Float64("initial_buy", rec.InitialBuy),
			zap.Float64("sol_amount", rec.SolAmount),
			zap.Float64("market_cap_sol", rec.MarketCapSol),
		)

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}

		inflight.Add(1)
		go func(rec model.TokenRecord) {
			defer inflight.Done()
			defer func() { <-sem }()
			r.report(rec, r.enricher.Enrich(ctx, rec))
		}(rec)
	}
}

// drain waits for in-flight enrichments up to the shutdown grace period,
// then abandons them.
func (r *Runner) drain(inflight *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(r.cfg.ShutdownGrace):
		r.logger.Warn("abandoning in-flight enrichment", zap.Duration("grace", r.cfg.ShutdownGrace))
	}
}

func (r *Runner) report(rec model.TokenRecord, result enrich.Result) {
	switch result.ReachStatus {
	case enrich.ReachFound:
		if result.ReachCount >= r.cfg.MinReach {
			r.logger.Info("notable social reach",
				zap.String("symbol", rec.Symbol),
				zap.String("handle", result.Handle),
				zap.Int64("followers", result.ReachCount),
			)
		} else {
			r.logger.Info("social reach",
				zap.String("symbol", rec.Symbol),
				zap.String("handle", result.Handle),
				zap.Int64("followers", result.ReachCount),
			)
		}
	case enrich.ReachBlacklisted:
		r.logger.Warn("blacklisted social handle",
			zap.String("symbol", rec.Symbol),
			zap.String("handle", result.Handle),
		)
	case enrich.ReachNotFound:
		r.logger.Info("no social reach data",
			zap.String("symbol", rec.Symbol),
			zap.String("handle", result.Handle),
		)
	case enrich.ReachNotApplicable:
		r.logger.Debug("no social profile", zap.String("symbol", rec.Symbol))
	}

	if result.Risk == nil {
		r.logger.Warn("risk report unavailable", zap.String("mint", rec.Mint))
		return
	}

	if result.Risk.Acceptable(r.cfg.MaxRiskScore) {
		r.logger.Info("risk score acceptable",
			zap.String("mint", rec.Mint),
			zap.Float64("score", result.Risk.Score),
		)
	} else {
		r.logger.Warn("risk score high",
			zap.String("mint", rec.Mint),
			zap.Float64("score", result.Risk.Score),
		)
	}

	for _, finding := range result.Risk.Risks {
		r.logger.Debug("risk finding",
			zap.String("mint", rec.Mint),
			zap.String("level", finding.Level),
			zap.Float64("score", finding.Score),
			zap.String("name", finding.Name),
			zap.String("description", finding.Description),
		)
	}
}
