// Package imaging runs one end-to-end snapshot: select accounts, resolve
// the time window, expand the traffic definitions into queries, fetch with
// bounded parallelism, assemble per-account bundles and render one image per
// account.
package imaging

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/metric-imager/infrastructure/trafficspec"
	"github.com/vfg2006/metric-imager/internal/domain"
	"github.com/vfg2006/metric-imager/internal/usecases/bundling"
	"github.com/vfg2006/metric-imager/internal/usecases/selecting"
	"github.com/vfg2006/metric-imager/pkg/duration"
)

// RunParams describes one snapshot invocation.
type RunParams struct {
	Accounts      []domain.AccountConfig
	Specs         []trafficspec.MetricSpec
	Pattern       string
	Start         duration.Spec
	PeriodSeconds int32
	Title         string

	// End optionally shifts the window end back from now; nil means now.
	End *duration.Spec

	// Now is the reference instant for window resolution. The zero value
	// means the wall clock; tests inject fixed instants.
	Now time.Time
}

// RunReport summarizes one snapshot run. Per-query failures are contained in
// the counts; the run as a whole completes regardless.
type RunReport struct {
	RunID          string
	Window         domain.TimeWindow
	Selected       int
	Queries        int
	Succeeded      int
	Failed         int
	Rendered       int
	RenderFailures int
	Images         []string
}

type Service struct {
	orchestrator Orchestrator
	renderer     Renderer
}

func NewService(orchestrator Orchestrator, renderer Renderer) *Service {
	return &Service{
		orchestrator: orchestrator,
		renderer:     renderer,
	}
}

// Run executes one snapshot. Per-account and per-query failures are
// recorded in the report, not returned as an error.
func (s *Service) Run(ctx context.Context, params RunParams) (*RunReport, error) {
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}

	report := &RunReport{RunID: uuid.New().String()}
	logger := logrus.WithField("run_id", report.RunID)

	selected := selecting.Filter(params.Accounts, params.Pattern)
	report.Selected = len(selected)
	if len(selected) == 0 {
		logger.WithField("pattern", params.Pattern).Warn("No accounts matched; nothing to do")
		return report, nil
	}

	// Resolved once per invocation: every query of the run shares the same
	// absolute [start, end] window regardless of wall-clock drift.
	end := now
	if params.End != nil {
		end = params.End.Resolve(now)
	}
	report.Window = domain.TimeWindow{Start: params.Start.Resolve(now), End: end}

	queries := buildQueries(selected, params, report.Window)
	report.Queries = len(queries)

	logger.WithFields(logrus.Fields{
		"accounts": len(selected),
		"queries":  len(queries),
		"start":    report.Window.Start.Format(time.RFC3339),
		"end":      report.Window.End.Format(time.RFC3339),
	}).Info("Starting metric fetch")

	results := s.orchestrator.Run(ctx, queries)
	for _, result := range results {
		if result.Failed() {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}

	bundle := bundling.Assemble(selected, results)

	opts := domain.RenderOptions{
		Title:      params.Title,
		StartLabel: params.Start.String(),
		Timestamp:  now,
	}

	for _, key := range bundle.Keys {
		account := bundle.Accounts[key]
		path, err := s.renderer.Render(account, bundle.Results[key], opts)
		if err != nil {
			report.RenderFailures++
			logger.WithFields(logrus.Fields{
				"account": key,
				"error":   err.Error(),
			}).Error("Failed to render account image")
			continue
		}
		report.Rendered++
		report.Images = append(report.Images, path)
	}

	s.logSummary(logger, report, results)
	return report, nil
}

func buildQueries(selected []domain.AccountConfig, params RunParams, window domain.TimeWindow) []domain.MetricQuery {
	queries := make([]domain.MetricQuery, 0, len(selected)*len(params.Specs))
	for _, account := range selected {
		for _, spec := range params.Specs {
			queries = append(queries, domain.MetricQuery{
				Account:       account,
				MetricName:    spec.Name,
				Stat:          spec.Stat,
				Dimensions:    spec.ExpandDimensions(account),
				PeriodSeconds: params.PeriodSeconds,
				Window:        window,
			})
		}
	}
	return queries
}

func (s *Service) logSummary(logger *logrus.Entry, report *RunReport, results []domain.FetchResult) {
	for _, result := range results {
		if !result.Failed() {
			continue
		}
		logger.WithFields(logrus.Fields{
			"account": result.Query.Account.Key(),
			"metric":  result.Query.MetricName,
			"kind":    result.Failure.Kind,
			"error":   result.Failure.Message,
		}).Warn("Metric query failed")
	}

	logger.WithFields(logrus.Fields{
		"queries":         report.Queries,
		"succeeded":       report.Succeeded,
		"failed":          report.Failed,
		"rendered":        report.Rendered,
		"render_failures": report.RenderFailures,
	}).Info("Snapshot run completed")
}
