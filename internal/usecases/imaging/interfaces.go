package imaging

import (
	"context"

	"github.com/vfg2006/metric-imager/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/imaging_mock.go -package=mocks

// Orchestrator executes a batch of metric queries and returns one result per
// query, in input order.
type Orchestrator interface {
	Run(ctx context.Context, queries []domain.MetricQuery) []domain.FetchResult
}

// Renderer produces one image artifact for one account's results and
// returns the artifact path.
type Renderer interface {
	Render(account domain.AccountConfig, results []domain.FetchResult, opts domain.RenderOptions) (string, error)
}
