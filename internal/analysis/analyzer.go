package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/gitgauge/gitgauge/internal/model"
	"github.com/gitgauge/gitgauge/internal/monitoring"
	"github.com/gitgauge/gitgauge/internal/resilience"
)

// Fetcher retrieves a normalized profile snapshot.
type Fetcher interface {
	FetchProfile(ctx context.Context, username string) (*model.ProfileSnapshot, error)
}

// Narrator produces the qualitative portion of a report. Implementations
// must always return a usable narrative; failures degrade internally.
type Narrator interface {
	Generate(ctx context.Context, snapshot *model.ProfileSnapshot, report *model.AnalysisReport) model.Narrative
}

// ReportCache stores completed reports keyed by username.
type ReportCache interface {
	Get(ctx context.Context, username string) (*model.AnalysisReport, bool, error)
	Put(ctx context.Context, username string, report *model.AnalysisReport) error
}

// Analyzer orchestrates one full profile analysis: cache lookup, fetch
// with retries, concurrent scoring, narrative, and cache write.
type Analyzer struct {
	fetcher  Fetcher
	narrator Narrator
	cache    ReportCache
	logger   *monitoring.Logger
	metrics  *monitoring.Metrics
	scorers  []Scorer
}

// NewAnalyzer wires an analyzer with the default scorer set.
func NewAnalyzer(fetcher Fetcher, narrator Narrator, cache ReportCache, logger *monitoring.Logger, metrics *monitoring.Metrics) *Analyzer {
	return &Analyzer{
		fetcher:  fetcher,
		narrator: narrator,
		cache:    cache,
		logger:   logger,
		metrics:  metrics,
		scorers:  DefaultScorers(),
	}
}

// Analyze produces a report for username. The boolean reports whether the
// result came from cache. The username must already be validated.
func (a *Analyzer) Analyze(ctx context.Context, username string) (*model.AnalysisReport, bool, error) {
	start := time.Now()

	if cached, ok, err := a.cache.Get(ctx, username); err != nil {
		a.logger.Warn("cache read failed, analyzing fresh", "username", username, "error", err)
	} else if ok {
		a.metrics.IncrementCacheHit()
		a.logger.AnalysisLogger(username, cached.Total, cached.Verdict, time.Since(start), true)
		return cached, true, nil
	}
	a.metrics.IncrementCacheMiss()

	var snapshot *model.ProfileSnapshot
	err := resilience.Retry(ctx, func() error {
		var fetchErr error
		snapshot, fetchErr = a.fetcher.FetchProfile(ctx, username)
		return fetchErr
	})
	if err != nil {
		a.metrics.IncrementAnalysisFailures()
		return nil, false, err
	}

	report := a.score(snapshot)
	report.Narrative = a.narrator.Generate(ctx, snapshot, report)

	// A failed cache write costs a refetch later, nothing more.
	if err := a.cache.Put(ctx, username, report); err != nil {
		a.logger.Warn("cache write failed", "username", username, "error", err)
	}

	a.metrics.IncrementAnalyses()
	a.logger.AnalysisLogger(username, report.Total, report.Verdict, time.Since(start), false)
	return report, false, nil
}

// score runs all category scorers concurrently and aggregates the result.
// Result order follows the scorer set, not completion order.
func (a *Analyzer) score(snapshot *model.ProfileSnapshot) *model.AnalysisReport {
	scores := make([]model.CategoryScore, len(a.scorers))

	var wg sync.WaitGroup
	for i, scorer := range a.scorers {
		wg.Add(1)
		go func(i int, scorer Scorer) {
			defer wg.Done()
			scores[i] = scorer.Score(snapshot)
		}(i, scorer)
	}
	wg.Wait()

	return Aggregate(snapshot.Username, scores)
}
