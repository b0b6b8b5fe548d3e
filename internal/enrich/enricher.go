package enrich

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"pumpScope/internal/model"
	"pumpScope/internal/risk"
	"pumpScope/internal/social"
)

// ReachStatus tags the outcome of the social reach lookup.
type ReachStatus int

const (
	// ReachNotApplicable means no resolvable handle existed for the record.
	ReachNotApplicable ReachStatus = iota
	// ReachBlacklisted means the handle was blacklisted and never looked up.
	ReachBlacklisted
	// ReachFound means the lookup returned a follower count.
	ReachFound
	// ReachNotFound means the lookup ran but produced no count.
	ReachNotFound
)

// Result is the best-effort enrichment of one record of interest. It is
// reported once and never persisted.
type Result struct {
	ReachStatus ReachStatus
	ReachCount  int64
	Handle      string
	Risk        *risk.Report
}

// SocialLookup covers the metadata profile fetch and the reach API.
type SocialLookup interface {
	FetchProfileURL(ctx context.Context, metadataURI string) (string, bool)
	Reach(ctx context.Context, handle string) (int64, bool, error)
}

// RiskLookup fetches contract safety reports.
type RiskLookup interface {
	Summary(ctx context.Context, mint string) (*risk.Report, error)
}

// Enricher chains the social and risk lookups for records of interest.
type Enricher struct {
	social    SocialLookup
	risk      RiskLookup
	blacklist []string
	logger    *zap.Logger
}

func New(socialLookup SocialLookup, riskLookup RiskLookup, blacklist []string, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		social:    socialLookup,
		risk:      riskLookup,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Enrich runs the profile fetch, handle resolution, reach lookup, and risk
// lookup for one record. Every external failure degrades to an absent
// outcome; Enrich itself never fails. The reach and risk lookups run
// concurrently and both complete before Enrich returns.
func (e *Enricher) Enrich(ctx context.Context, rec model.TokenRecord) Result {
	result := Result{ReachStatus: ReachNotApplicable}

	profileURL, hasProfile := e.social.FetchProfileURL(ctx, rec.MetadataURI)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		report, err := e.risk.Summary(ctx, rec.Mint)
		if err != nil {
			e.logger.Warn("risk lookup failed", zap.String("mint", rec.Mint), zap.Error(err))
			return
		}
		result.Risk = report
	}()

	if hasProfile {
		switch outcome := social.ResolveHandle(profileURL, e.blacklist); outcome.Kind {
		case social.HandleBlacklisted:
			result.ReachStatus = ReachBlacklisted
			result.Handle = outcome.Handle
		case social.HandleResolved:
			result.Handle = outcome.Handle
			count, found, err := e.social.Reach(ctx, outcome.Handle)
			switch {
			case err != nil:
				e.logger.Warn("reach lookup failed", zap.String("handle", outcome.Handle), zap.Error(err))
				result.ReachStatus = ReachNotFound
			case found:
				result.ReachStatus = ReachFound
				result.ReachCount = count
			default:
				result.ReachStatus = ReachNotFound
			}
		}
	}

	wg.Wait()
	return result
}
