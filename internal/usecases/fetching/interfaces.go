package fetching

import (
	"context"

	"github.com/vfg2006/metric-imager/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/fetcher_mock.go -package=mocks

// Fetcher executes one metric query against the remote metrics API.
// Implementations must return classified *domain.RemoteError values so the
// orchestrator can decide retry eligibility.
type Fetcher interface {
	FetchSeries(ctx context.Context, query domain.MetricQuery) (domain.Series, error)
}
