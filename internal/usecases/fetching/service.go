// Package fetching is the metric fetch orchestrator: it drains a batch of
// queries through a fixed-size worker pool, retrying throttled and timed-out
// calls with backoff, and isolates per-query failure so one broken account
// never aborts the batch.
package fetching

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/metric-imager/internal/domain"
)

// OrchestratorConfig holds the concurrency and retry knobs for one run.
type OrchestratorConfig struct {
	MaxWorkers   int
	MaxAttempts  int
	QueryTimeout time.Duration
	BackoffBase  time.Duration
	BackoffMax   time.Duration
}

type Orchestrator struct {
	fetcher Fetcher
	config  OrchestratorConfig
}

func NewOrchestrator(fetcher Fetcher, config OrchestratorConfig) *Orchestrator {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 1
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	return &Orchestrator{fetcher: fetcher, config: config}
}

// Run executes every query and returns exactly one result per query, with
// result[i] correlated to queries[i] regardless of completion order. The
// worker pool and job queue live only for the duration of the call. When ctx
// is canceled no new work starts; completed results are preserved and
// never-started queries are recorded as canceled failures.
func (o *Orchestrator) Run(ctx context.Context, queries []domain.MetricQuery) []domain.FetchResult {
	results := make([]domain.FetchResult, len(queries))
	if len(queries) == 0 {
		return results
	}

	filled := make([]bool, len(queries))
	jobs := make(chan int)

	workers := o.config.MaxWorkers
	if workers > len(queries) {
		workers = len(queries)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				// Each worker owns its claimed slot; no two workers
				// ever write the same index.
				results[index] = o.execute(ctx, queries[index])
				filled[index] = true
			}
		}()
	}

	// Dispatch stops at the first sign of cancellation.
dispatch:
	for i := range queries {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	for i := range results {
		if !filled[i] {
			results[i] = domain.FetchResult{
				Query:   queries[i],
				Failure: domain.NewRemoteError(domain.ErrorKindCanceled, "", "query was never dispatched", ctx.Err()),
			}
		}
	}

	return results
}

// execute runs one query through the retry loop. Each query owns its own
// attempt counter; at most one attempt is in flight at a time.
func (o *Orchestrator) execute(ctx context.Context, query domain.MetricQuery) domain.FetchResult {
	logger := logrus.WithFields(logrus.Fields{
		"namespace":  query.Account.Namespace,
		"account_id": query.Account.AccountID,
		"region":     query.Account.Region,
		"metric":     query.MetricName,
	})

	var lastFailure *domain.RemoteError
	for attempt := 1; attempt <= o.config.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return canceledResult(query, ctx.Err())
		}

		series, err := o.fetchOnce(ctx, query)
		if err == nil {
			return domain.FetchResult{Query: query, Series: series}
		}

		remote := domain.AsRemoteError(err)
		if ctx.Err() != nil || remote.Kind == domain.ErrorKindCanceled {
			return canceledResult(query, err)
		}

		if !remote.Kind.Retryable() {
			logger.WithFields(logrus.Fields{
				"kind": remote.Kind,
				"code": remote.Code,
			}).Warn("Metric query failed with non-retryable error")
			return domain.FetchResult{Query: query, Failure: remote}
		}

		lastFailure = remote
		if attempt == o.config.MaxAttempts {
			break
		}

		delay := o.backoff(attempt)
		logger.WithFields(logrus.Fields{
			"kind":    remote.Kind,
			"attempt": attempt,
			"delay":   delay.String(),
		}).Debug("Retrying metric query after backoff")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return canceledResult(query, ctx.Err())
		}
	}

	if lastFailure.Kind == domain.ErrorKindThrottling {
		lastFailure = domain.NewRemoteError(
			domain.ErrorKindThrottlingExhausted,
			lastFailure.Code,
			lastFailure.Message,
			lastFailure,
		)
	}

	logger.WithFields(logrus.Fields{
		"kind":     lastFailure.Kind,
		"attempts": o.config.MaxAttempts,
	}).Warn("Metric query failed after exhausting retries")

	return domain.FetchResult{Query: query, Failure: lastFailure}
}

// fetchOnce runs a single attempt under the per-query deadline.
func (o *Orchestrator) fetchOnce(ctx context.Context, query domain.MetricQuery) (domain.Series, error) {
	if o.config.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.config.QueryTimeout)
		defer cancel()
	}
	return o.fetcher.FetchSeries(ctx, query)
}

// backoff returns the delay before the next attempt: exponential growth from
// the base, capped at the max, with ±50% jitter so throttled workers do not
// retry in lockstep.
func (o *Orchestrator) backoff(attempt int) time.Duration {
	delay := o.config.BackoffBase << (attempt - 1)
	if o.config.BackoffMax > 0 && delay > o.config.BackoffMax {
		delay = o.config.BackoffMax
	}
	if delay <= 0 {
		return 0
	}
	jitter := 0.5 + rand.Float64()
	return time.Duration(float64(delay) * jitter)
}

func canceledResult(query domain.MetricQuery, err error) domain.FetchResult {
	return domain.FetchResult{
		Query:   query,
		Failure: domain.NewRemoteError(domain.ErrorKindCanceled, "", "query canceled", err),
	}
}
